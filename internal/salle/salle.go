package salle

import (
	"time"

	salleDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/salle"
)

const (
	StatutActive      = "active"
	StatutMaintenance = "maintenance"
	StatutHorsService = "hors_service"
)

// MaxImages caps the photos attached to one salle.
const MaxImages = 5

func ValidStatut(s string) bool {
	switch s {
	case StatutActive, StatutMaintenance, StatutHorsService:
		return true
	}
	return false
}

type Salle struct {
	ID          int64     `json:"id"`
	Nom         string    `json:"nom"`
	Capacite    int       `json:"capacite"`
	Etage       string    `json:"etage"`
	Description string    `json:"description"`
	Statut      string    `json:"statut"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Image struct {
	ID        int64  `json:"id"`
	ObjectKey string `json:"-"`
	FileName  string `json:"file_name"`
	URL       string `json:"url"`
}

func (s *Salle) Reservable() bool {
	return s.Statut == StatutActive
}

func ToDataModel(s *Salle) *salleDatamodel.Salle {
	return &salleDatamodel.Salle{
		ID:          s.ID,
		Nom:         s.Nom,
		Capacite:    s.Capacite,
		Etage:       s.Etage,
		Description: s.Description,
		Statut:      s.Statut,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromDataModel(s *salleDatamodel.Salle) *Salle {
	return &Salle{
		ID:          s.ID,
		Nom:         s.Nom,
		Capacite:    s.Capacite,
		Etage:       s.Etage,
		Description: s.Description,
		Statut:      s.Statut,
		Images:      []Image{},
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func FromDataModelSlice(salles []*salleDatamodel.Salle) []*Salle {
	result := make([]*Salle, len(salles))
	for i, s := range salles {
		result[i] = FromDataModel(s)
	}
	return result
}
