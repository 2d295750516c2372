package reservation

import "time"

type Reservation struct {
	ID         int64      `gorm:"primaryKey"`
	SalleID    int64      `gorm:"column:salle_id;not null;index"`
	UserID     int64      `gorm:"column:user_id;not null;index"`
	Date       time.Time  `gorm:"column:date;type:date;not null"`
	HeureDebut time.Time  `gorm:"column:heure_debut;not null"`
	HeureFin   time.Time  `gorm:"column:heure_fin;not null"`
	Motif      string     `gorm:"column:motif;not null"`
	Statut     string     `gorm:"column:statut;not null;default:en_attente"`
	MotifRefus string     `gorm:"column:motif_refus"`
	DecidedBy  *int64     `gorm:"column:decided_by"`
	DecidedAt  *time.Time `gorm:"column:decided_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Reservation) TableName() string {
	return "reservations"
}
