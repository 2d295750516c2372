package reservation

import (
	"fmt"
	"time"

	errors "github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/common/validation"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "15:04"
)

type CreateReservationDTO struct {
	SalleID    int64  `json:"salle_id"`
	Date       string `json:"date"`
	HeureDebut string `json:"heure_debut"`
	HeureFin   string `json:"heure_fin"`
	Motif      string `json:"motif"`
}

func (d CreateReservationDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("salle_id", d.SalleID).Required()
	v.Field("date", d.Date).Required().Custom(validDate)
	v.Field("heure_debut", d.HeureDebut).Required().Custom(validHour("heure_debut"))
	v.Field("heure_fin", d.HeureFin).Required().Custom(validHour("heure_fin"))
	v.Field("motif", d.Motif).Required().MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}

	debut, fin, _, err := d.Slot()
	if err != nil {
		return err
	}
	return validation.ValidateTimeRange(debut, fin)
}

// Slot resolves the wire strings into concrete times on the booked date.
func (d CreateReservationDTO) Slot() (debut, fin, date time.Time, appErr *errors.AppError) {
	date, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, errors.NewValidationFieldError("date", "date must look like 2006-01-02", errors.ErrCodeValidationFailed)
	}
	debut, err = atHour(date, d.HeureDebut)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, errors.NewValidationFieldError("heure_debut", "heure_debut must look like 09:30", errors.ErrCodeValidationFailed)
	}
	fin, err = atHour(date, d.HeureFin)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, errors.NewValidationFieldError("heure_fin", "heure_fin must look like 10:30", errors.ErrCodeValidationFailed)
	}
	return debut, fin, date, nil
}

// RejectDTO carries the refusal motif; refusing without one is invalid.
type RejectDTO struct {
	MotifRefus string `json:"motif_refus"`
}

func (d RejectDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("motif_refus", d.MotifRefus).Required().MaxLength(500)
	return v.Validate()
}

// UpdateStatutDTO is the legacy-tolerant statut patch body.
type UpdateStatutDTO struct {
	Statut     string `json:"statut"`
	MotifRefus string `json:"motif_refus"`
}

func (d UpdateStatutDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("statut", d.Statut).Required().Custom(validStatut)
	if err := v.Validate(); err != nil {
		return err
	}
	if canonical, _ := ParseStatut(d.Statut); canonical == StatutRefusee {
		return RejectDTO{MotifRefus: d.MotifRefus}.Validate()
	}
	return nil
}

func validStatut(value interface{}) *errors.AppError {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	if _, known := ParseStatut(s); !known {
		return errors.NewValidationFieldError("statut", "statut must be one of en_attente, approuvee, refusee, annulee", errors.ErrCodeValidationFailed)
	}
	return nil
}

func validDate(value interface{}) *errors.AppError {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return errors.NewValidationFieldError("date", "date must look like 2006-01-02", errors.ErrCodeValidationFailed)
	}
	return nil
}

func validHour(field string) validation.ValidatorFunc {
	return func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if _, err := time.Parse(hourLayout, s); err != nil {
			message := fmt.Sprintf("%s must look like 09:30", field)
			return errors.NewValidationFieldError(field, message, errors.ErrCodeValidationFailed)
		}
		return nil
	}
}

func atHour(date time.Time, hour string) (time.Time, error) {
	h, err := time.Parse(hourLayout, hour)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h.Hour(), h.Minute(), 0, 0, time.UTC), nil
}
