package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
)

type Repository interface {
	Create(n *Notification) error
	GetByUser(userID int64, limit, offset int) ([]*Notification, error)
	GetByID(id int64) (*Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(id int64, at time.Time) error
	MarkAllRead(userID int64, at time.Time) error
}

// DeciderDirectory lists the active users who approve reservations.
type DeciderDirectory interface {
	DeciderIDs() ([]int64, error)
}

type Service struct {
	repo     Repository
	deciders DeciderDirectory
	logger   *slog.Logger
}

func NewService(repo Repository, deciders DeciderDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		deciders: deciders,
		logger:   logger,
	}
}

// SubscribeTo registers the persistence handlers: a new pending
// reservation lands as a row for every decider, a decision as a row for
// the reservation's owner.
func (s *Service) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeReservationCreated, s.handleReservationCreated)
	for _, eventType := range []string{
		events.EventTypeReservationApprouve,
		events.EventTypeReservationRefuse,
		events.EventTypeReservationAnnule,
	} {
		bus.Subscribe(eventType, s.handleReservationDecision)
	}
}

func (s *Service) handleReservationCreated(ctx context.Context, event events.Event) error {
	re, ok := event.(*events.ReservationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	deciderIDs, err := s.deciders.DeciderIDs()
	if err != nil {
		return fmt.Errorf("list deciders: %w", err)
	}

	for _, deciderID := range deciderIDs {
		if deciderID == re.UserID {
			// the creator does not need to hear about their own request
			continue
		}
		if err := s.store(deciderID, event, re.Data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) handleReservationDecision(ctx context.Context, event events.Event) error {
	re, ok := event.(*events.ReservationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}
	return s.store(re.UserID, event, re.Data)
}

func (s *Service) store(userID int64, event events.Event, data map[string]interface{}) error {
	n := &Notification{
		UserID:    userID,
		Type:      event.EventType(),
		Data:      data,
		CreatedAt: event.OccurredAt(),
	}
	if err := s.repo.Create(n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	s.logger.Info("notification stored", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
	return nil
}

// List returns the user's feed newest first. Empty means empty slice.
func (s *Service) List(userID int64, limit, offset int) ([]*Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.repo.GetByUser(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, err
	}
	if rows == nil {
		rows = []*Notification{}
	}
	return rows, nil
}

func (s *Service) UnreadCount(userID int64) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead flips one notification to read. The row is confirmed to
// belong to the caller before anything changes; marking twice is a
// no-op.
func (s *Service) MarkRead(id, userID int64) error {
	n, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrNotificationNotFound
	}
	if n.UserID != userID {
		return internal.ErrUnauthorizedAccess
	}
	if n.Read() {
		return nil
	}
	return s.repo.MarkRead(id, time.Now())
}

func (s *Service) MarkAllRead(userID int64) error {
	return s.repo.MarkAllRead(userID, time.Now())
}
