package postgres

import (
	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	salleDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/salle"
	"github.com/nmissi-nadia/liqaaspace/internal/reservation"
)

// SalleInfoRepository answers the booking flow's read-only questions
// about rooms.
type SalleInfoRepository struct {
	db *gorm.DB
}

func NewSalleInfoRepository(db *gorm.DB) reservation.SalleInfo {
	return &SalleInfoRepository{db: db}
}

func (r *SalleInfoRepository) NomAndStatut(salleID int64) (string, string, error) {
	var row salleDatamodel.Salle
	err := r.db.Select("nom", "statut").Where("id = ?", salleID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", "", internal.ErrSalleNotFound
		}
		return "", "", err
	}
	return row.Nom, row.Statut, nil
}
