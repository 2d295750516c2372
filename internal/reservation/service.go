package reservation

import (
	"context"
	"log/slog"
	"time"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
	"github.com/nmissi-nadia/liqaaspace/internal/salle"
)

type Repository interface {
	Create(r *Reservation) error
	GetByID(id int64) (*Reservation, error)
	GetByUser(userID int64, limit, offset int) ([]*Reservation, error)
	GetAll(filter ListFilter) ([]*Reservation, error)
	GetPending() ([]*Reservation, error)
	FindOverlapping(salleID int64, date, debut, fin time.Time, statuts []string) ([]*Reservation, error)
	Update(r *Reservation) error
	Delete(id int64) error
}

// SalleInfo is the slice of the rooms catalogue this package needs.
type SalleInfo interface {
	NomAndStatut(salleID int64) (nom string, statut string, err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ListFilter narrows the manager-side listing.
type ListFilter struct {
	SalleID int64
	Statut  string
	Limit   int
	Offset  int
}

type Service struct {
	repo   Repository
	salles SalleInfo
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, salles SalleInfo, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		salles: salles,
		bus:    bus,
		logger: logger,
	}
}

// Create registers a pending reservation. Validation runs before any
// write; a slot colliding with an approved booking of the same salle is
// rejected outright.
func (s *Service) Create(userID int64, dto CreateReservationDTO) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	debut, fin, date, appErr := dto.Slot()
	if appErr != nil {
		return nil, appErr
	}

	nom, statut, err := s.salles.NomAndStatut(dto.SalleID)
	if err != nil {
		return nil, internal.ErrSalleNotFound
	}
	if statut != salle.StatutActive {
		return nil, internal.ErrSalleUnavailable
	}

	if err := s.checkConflict(dto.SalleID, date, debut, fin, 0); err != nil {
		return nil, err
	}

	res := &Reservation{
		SalleID:    dto.SalleID,
		SalleNom:   nom,
		UserID:     userID,
		Date:       date,
		HeureDebut: debut,
		HeureFin:   fin,
		Motif:      dto.Motif,
		Statut:     StatutEnAttente,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.repo.Create(res); err != nil {
		s.logger.Error("failed to create reservation", "error", err, "user_id", userID, "salle_id", dto.SalleID)
		return nil, err
	}

	// notification handlers outlive the request, so they get a fresh ctx
	_ = s.bus.Publish(context.Background(), events.NewReservationEvent(
		events.EventTypeReservationCreated,
		res.ID, res.SalleID, res.UserID, nom, res.Statut, res.Motif,
	))

	s.logger.Info("reservation created", "reservation_id", res.ID, "salle_id", res.SalleID, "user_id", userID)
	return res, nil
}

// GetByID enforces ownership: a collaborateur only sees their own rows,
// deciders see everything.
func (s *Service) GetByID(id, requesterID int64, isDecider bool) (*Reservation, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrReservationNotFound
	}
	if !isDecider && res.UserID != requesterID {
		return nil, internal.ErrUnauthorizedAccess
	}
	return res, nil
}

func (s *Service) ListMine(userID int64, limit, offset int) ([]*Reservation, error) {
	rows, err := s.repo.GetByUser(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list reservations", "error", err, "user_id", userID)
		return nil, err
	}
	if rows == nil {
		rows = []*Reservation{}
	}
	return rows, nil
}

func (s *Service) ListAll(filter ListFilter) ([]*Reservation, error) {
	if filter.Statut != "" {
		canonical, ok := ParseStatut(filter.Statut)
		if !ok {
			return nil, internal.NewValidationFieldError("statut", "unknown statut filter", internal.ErrCodeValidationFailed)
		}
		filter.Statut = canonical
	}
	rows, err := s.repo.GetAll(filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*Reservation{}
	}
	return rows, nil
}

// ListPending returns the approval queue, oldest first.
func (s *Service) ListPending() ([]*Reservation, error) {
	rows, err := s.repo.GetPending()
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*Reservation{}
	}
	return rows, nil
}

// Approve moves a pending reservation to approuvee. Conflicts are
// re-checked at decision time: another booking may have been approved
// since the request was filed.
func (s *Service) Approve(id, deciderID int64) (*Reservation, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrReservationNotFound
	}
	if !res.Pending() {
		return nil, internal.ErrStatutTransition
	}

	if err := s.checkConflict(res.SalleID, res.Date, res.HeureDebut, res.HeureFin, res.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	res.Statut = StatutApprouvee
	res.DecidedBy = &deciderID
	res.DecidedAt = &now
	res.UpdatedAt = now
	if err := s.repo.Update(res); err != nil {
		s.logger.Error("failed to approve reservation", "error", err, "reservation_id", id)
		return nil, err
	}

	s.publishDecision(events.EventTypeReservationApprouve, res)
	s.logger.Info("reservation approved", "reservation_id", id, "decided_by", deciderID)
	return res, nil
}

// Reject refuses a pending reservation with a mandatory motif.
func (s *Service) Reject(id, deciderID int64, dto RejectDTO) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrReservationNotFound
	}
	if !res.Pending() {
		return nil, internal.ErrStatutTransition
	}

	now := time.Now()
	res.Statut = StatutRefusee
	res.MotifRefus = dto.MotifRefus
	res.DecidedBy = &deciderID
	res.DecidedAt = &now
	res.UpdatedAt = now
	if err := s.repo.Update(res); err != nil {
		s.logger.Error("failed to reject reservation", "error", err, "reservation_id", id)
		return nil, err
	}

	s.publishDecision(events.EventTypeReservationRefuse, res)
	s.logger.Info("reservation rejected", "reservation_id", id, "decided_by", deciderID)
	return res, nil
}

// Cancel applies the ownership rule: owners may cancel only while the
// request is pending, deciders until a final statut is reached.
func (s *Service) Cancel(id, requesterID int64, isDecider bool) (*Reservation, error) {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrReservationNotFound
	}
	if !res.CancelableBy(requesterID, isDecider) {
		if res.UserID != requesterID && !isDecider {
			return nil, internal.ErrUnauthorizedAccess
		}
		return nil, internal.ErrStatutTransition
	}

	now := time.Now()
	res.Statut = StatutAnnulee
	res.UpdatedAt = now
	if isDecider && res.UserID != requesterID {
		res.DecidedBy = &requesterID
		res.DecidedAt = &now
	}
	if err := s.repo.Update(res); err != nil {
		s.logger.Error("failed to cancel reservation", "error", err, "reservation_id", id)
		return nil, err
	}

	s.publishDecision(events.EventTypeReservationAnnule, res)
	s.logger.Info("reservation cancelled", "reservation_id", id, "by", requesterID)
	return res, nil
}

// UpdateStatut is the legacy-tolerant decision endpoint: whatever
// spelling arrives, the stored statut is canonical.
func (s *Service) UpdateStatut(id, deciderID int64, dto UpdateStatutDTO) (*Reservation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	canonical, _ := ParseStatut(dto.Statut)
	switch canonical {
	case StatutApprouvee:
		return s.Approve(id, deciderID)
	case StatutRefusee:
		return s.Reject(id, deciderID, RejectDTO{MotifRefus: dto.MotifRefus})
	case StatutAnnulee:
		return s.Cancel(id, deciderID, true)
	default:
		return nil, internal.ErrStatutTransition
	}
}

// Delete removes a still-pending reservation of the requester.
func (s *Service) Delete(id, requesterID int64, isDecider bool) error {
	res, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrReservationNotFound
	}
	if !isDecider {
		if res.UserID != requesterID {
			return internal.ErrUnauthorizedAccess
		}
		if !res.Pending() {
			return internal.ErrStatutTransition
		}
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete reservation", "error", err, "reservation_id", id)
		return err
	}
	return nil
}

func (s *Service) checkConflict(salleID int64, date, debut, fin time.Time, excludeID int64) error {
	overlapping, err := s.repo.FindOverlapping(salleID, date, debut, fin, []string{StatutApprouvee})
	if err != nil {
		return internal.NewInternalError("failed to check reservation conflicts", err)
	}
	for _, other := range overlapping {
		if other.ID != excludeID {
			return internal.ErrReservationConflict
		}
	}
	return nil
}

func (s *Service) publishDecision(eventType string, res *Reservation) {
	nom := res.SalleNom
	if nom == "" {
		if n, _, err := s.salles.NomAndStatut(res.SalleID); err == nil {
			nom = n
		}
	}
	_ = s.bus.Publish(context.Background(), events.NewReservationEvent(
		eventType,
		res.ID, res.SalleID, res.UserID, nom, res.Statut, res.MotifRefus,
	))
}
