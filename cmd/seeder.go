package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	salleDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/salle"
	userDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "messages", "reservations", "salle_images", "salles", "sessions", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		users := []userDatamodel.User{
			{Email: "admin@liqaaspace.test", Name: "Amina Admin", PasswordHash: string(hash), Role: "admin", IsActive: true},
			{Email: "responsable@liqaaspace.test", Name: "Rachid Responsable", PasswordHash: string(hash), Role: "responsable", IsActive: true},
			{Email: "collab@liqaaspace.test", Name: "Karim Collaborateur", PasswordHash: string(hash), Role: "collaborateur", IsActive: true},
		}
		for _, u := range users {
			var count int64
			db.Model(&userDatamodel.User{}).Where("email = ?", u.Email).Count(&count)
			if count > 0 {
				fmt.Println("user already exists:", u.Email)
				continue
			}
			if err := db.Create(&u).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		salles := []salleDatamodel.Salle{
			{Nom: "Salle Atlas", Capacite: 12, Etage: "1", Description: "Grande salle avec écran et visio", Statut: "active"},
			{Nom: "Salle Toubkal", Capacite: 6, Etage: "2", Description: "Salle de réunion d'équipe", Statut: "active"},
			{Nom: "Salle Rif", Capacite: 4, Etage: "2", Description: "Petit espace pour entretiens", Statut: "maintenance"},
		}
		for _, s := range salles {
			var count int64
			db.Model(&salleDatamodel.Salle{}).Where("nom = ?", s.Nom).Count(&count)
			if count > 0 {
				fmt.Println("salle already exists:", s.Nom)
				continue
			}
			if err := db.Create(&s).Error; err != nil {
				log.Fatalf("failed to seed salle %s: %v", s.Nom, err)
			}
			fmt.Println("Seeded salle:", s.Nom)
		}

		fmt.Println("Seeding done")
	},
}
