package salle

import (
	errors "github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/common/validation"
)

type CreateSalleDTO struct {
	Nom         string `json:"nom"`
	Capacite    int    `json:"capacite"`
	Etage       string `json:"etage"`
	Description string `json:"description"`
	Statut      string `json:"statut"`
}

func (d CreateSalleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("nom", d.Nom).Required().MaxLength(120)
	v.Field("capacite", d.Capacite).Required().MinInt(1, errors.ErrCodeValidationFailed)
	if d.Statut != "" {
		v.Field("statut", d.Statut).Custom(validStatut)
	}
	return v.Validate()
}

type UpdateSalleDTO struct {
	Nom         *string `json:"nom,omitempty"`
	Capacite    *int    `json:"capacite,omitempty"`
	Etage       *string `json:"etage,omitempty"`
	Description *string `json:"description,omitempty"`
	Statut      *string `json:"statut,omitempty"`
}

func (d UpdateSalleDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Nom != nil {
		v.Field("nom", *d.Nom).Required().MaxLength(120)
	}
	if d.Capacite != nil {
		v.Field("capacite", *d.Capacite).Required().MinInt(1, errors.ErrCodeValidationFailed)
	}
	if d.Statut != nil {
		v.Field("statut", *d.Statut).Custom(validStatut)
	}
	return v.Validate()
}

func validStatut(value interface{}) *errors.AppError {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	if !ValidStatut(s) {
		return errors.NewValidationFieldError("statut", "statut must be one of active, maintenance, hors_service", errors.ErrCodeValidationFailed)
	}
	return nil
}
