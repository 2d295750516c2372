package salle

import "time"

type Salle struct {
	ID          int64     `gorm:"primaryKey"`
	Nom         string    `gorm:"column:nom;not null"`
	Capacite    int       `gorm:"column:capacite;not null"`
	Etage       string    `gorm:"column:etage"`
	Description string    `gorm:"column:description"`
	Statut      string    `gorm:"column:statut;not null;default:active"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Salle) TableName() string {
	return "salles"
}

// SalleImage holds the object-store key of one room photo; at most five
// rows exist per salle.
type SalleImage struct {
	ID        int64     `gorm:"primaryKey"`
	SalleID   int64     `gorm:"column:salle_id;not null;index"`
	ObjectKey string    `gorm:"column:object_key;not null"`
	FileName  string    `gorm:"column:file_name"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (SalleImage) TableName() string {
	return "salle_images"
}
