package reservation

import (
	"strings"
	"time"

	reservationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/reservation"
)

const (
	StatutEnAttente = "en_attente"
	StatutApprouvee = "approuvee"
	StatutRefusee   = "refusee"
	StatutAnnulee   = "annulee"
)

// legacyStatuts maps vocabulary still sent by older clients onto the
// canonical enum. The stored value is always canonical.
var legacyStatuts = map[string]string{
	"accepte":   StatutApprouvee,
	"accepté":   StatutApprouvee,
	"acceptee":  StatutApprouvee,
	"acceptée":  StatutApprouvee,
	"confirme":  StatutApprouvee,
	"confirmé":  StatutApprouvee,
	"confirmee": StatutApprouvee,
	"confirmée": StatutApprouvee,
	"refuse":    StatutRefusee,
	"refusé":    StatutRefusee,
	"refusée":   StatutRefusee,
	"rejetee":   StatutRefusee,
	"rejetée":   StatutRefusee,
	"annule":    StatutAnnulee,
	"annulé":    StatutAnnulee,
	"annulée":   StatutAnnulee,
	"pending":   StatutEnAttente,
}

// ParseStatut canonicalizes a statut string, folding legacy spellings.
// The second return is false when the value maps to nothing known.
func ParseStatut(s string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case StatutEnAttente, StatutApprouvee, StatutRefusee, StatutAnnulee:
		return v, true
	}
	if canonical, ok := legacyStatuts[v]; ok {
		return canonical, true
	}
	return "", false
}

type Reservation struct {
	ID         int64      `json:"id"`
	SalleID    int64      `json:"salle_id"`
	SalleNom   string     `json:"salle_nom,omitempty"`
	UserID     int64      `json:"user_id"`
	UserName   string     `json:"user_name,omitempty"`
	Date       time.Time  `json:"date"`
	HeureDebut time.Time  `json:"heure_debut"`
	HeureFin   time.Time  `json:"heure_fin"`
	Motif      string     `json:"motif"`
	Statut     string     `json:"statut"`
	MotifRefus string     `json:"motif_refus,omitempty"`
	DecidedBy  *int64     `json:"decided_by,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Final reports whether the reservation reached a terminal statut.
func (r *Reservation) Final() bool {
	return r.Statut == StatutRefusee || r.Statut == StatutAnnulee
}

func (r *Reservation) Pending() bool {
	return r.Statut == StatutEnAttente
}

// CancelableBy tells whether the given user may cancel: owners only
// while the request is still pending, deciders any time before a final
// statut.
func (r *Reservation) CancelableBy(userID int64, isDecider bool) bool {
	if isDecider {
		return !r.Final()
	}
	return r.UserID == userID && r.Pending()
}

func ToDataModel(r *Reservation) *reservationDatamodel.Reservation {
	return &reservationDatamodel.Reservation{
		ID:         r.ID,
		SalleID:    r.SalleID,
		UserID:     r.UserID,
		Date:       r.Date,
		HeureDebut: r.HeureDebut,
		HeureFin:   r.HeureFin,
		Motif:      r.Motif,
		Statut:     r.Statut,
		MotifRefus: r.MotifRefus,
		DecidedBy:  r.DecidedBy,
		DecidedAt:  r.DecidedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModel(r *reservationDatamodel.Reservation) *Reservation {
	return &Reservation{
		ID:         r.ID,
		SalleID:    r.SalleID,
		UserID:     r.UserID,
		Date:       r.Date,
		HeureDebut: r.HeureDebut,
		HeureFin:   r.HeureFin,
		Motif:      r.Motif,
		Statut:     r.Statut,
		MotifRefus: r.MotifRefus,
		DecidedBy:  r.DecidedBy,
		DecidedAt:  r.DecidedAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*reservationDatamodel.Reservation) []*Reservation {
	result := make([]*Reservation, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
