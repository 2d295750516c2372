package dashboard

import (
	"log/slog"
	"sync"
	"time"
)

type Repository interface {
	CountSallesByStatut() (map[string]int64, error)
	CountReservationsByStatut() (map[string]int64, error)
	CountUsersByRole() (map[string]int64, error)
	CountReservationsOn(date time.Time) (int64, error)
	CountPending() (int64, error)
	CountUserReservationsByStatut(userID int64) (map[string]int64, error)
	CountUserUpcoming(userID int64, from time.Time) (int64, error)
	CountUnreadNotifications(userID int64) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Overview gathers the manager dashboard. The queries are independent,
// so each runs in its own goroutine and writes only its own slot; the
// first error wins, partial results are discarded.
func (s *Service) Overview(includeUsers bool) (*Stats, error) {
	stats := &Stats{}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		m, err := s.repo.CountSallesByStatut()
		if err != nil {
			fail(err)
			return
		}
		stats.SallesByStatut = m
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		m, err := s.repo.CountReservationsByStatut()
		if err != nil {
			fail(err)
			return
		}
		stats.ReservationsByStatut = m
	}()

	if includeUsers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := s.repo.CountUsersByRole()
			if err != nil {
				fail(err)
				return
			}
			stats.UsersByRole = m
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := s.repo.CountReservationsOn(time.Now())
		if err != nil {
			fail(err)
			return
		}
		stats.ReservationsToday = n
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := s.repo.CountPending()
		if err != nil {
			fail(err)
			return
		}
		stats.PendingCount = n
	}()

	wg.Wait()

	if firstErr != nil {
		s.logger.Error("dashboard overview failed", "error", firstErr)
		return nil, firstErr
	}
	return stats, nil
}

// MyStats gathers the collaborateur's personal counters, same
// one-goroutine-per-slot shape as Overview.
func (s *Service) MyStats(userID int64) (*UserStats, error) {
	stats := &UserStats{}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		m, err := s.repo.CountUserReservationsByStatut(userID)
		if err != nil {
			fail(err)
			return
		}
		stats.ReservationsByStatut = m
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := s.repo.CountUserUpcoming(userID, time.Now())
		if err != nil {
			fail(err)
			return
		}
		stats.UpcomingCount = n
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := s.repo.CountUnreadNotifications(userID)
		if err != nil {
			fail(err)
			return
		}
		stats.UnreadNotifications = n
	}()

	wg.Wait()

	if firstErr != nil {
		s.logger.Error("user stats failed", "error", firstErr, "user_id", userID)
		return nil, firstErr
	}
	return stats, nil
}
