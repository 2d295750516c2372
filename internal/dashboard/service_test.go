package dashboard_test

import (
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nmissi-nadia/liqaaspace/internal/dashboard"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Suite")
}

// Mock repository for testing. delay lets a slot lag behind the others
// to prove slow queries never bleed into foreign slots.
type mockDashboardRepository struct {
	delay      time.Duration
	sallesErr  error
	queriesRun atomic.Int32
}

func (m *mockDashboardRepository) CountSallesByStatut() (map[string]int64, error) {
	m.queriesRun.Add(1)
	if m.sallesErr != nil {
		return nil, m.sallesErr
	}
	time.Sleep(m.delay)
	return map[string]int64{"active": 3, "maintenance": 1}, nil
}

func (m *mockDashboardRepository) CountReservationsByStatut() (map[string]int64, error) {
	m.queriesRun.Add(1)
	return map[string]int64{"en_attente": 2, "approuvee": 5}, nil
}

func (m *mockDashboardRepository) CountUsersByRole() (map[string]int64, error) {
	m.queriesRun.Add(1)
	return map[string]int64{"admin": 1, "responsable": 2, "collaborateur": 7}, nil
}

func (m *mockDashboardRepository) CountReservationsOn(date time.Time) (int64, error) {
	m.queriesRun.Add(1)
	return 4, nil
}

func (m *mockDashboardRepository) CountPending() (int64, error) {
	m.queriesRun.Add(1)
	return 2, nil
}

func (m *mockDashboardRepository) CountUserReservationsByStatut(userID int64) (map[string]int64, error) {
	m.queriesRun.Add(1)
	return map[string]int64{"approuvee": 3}, nil
}

func (m *mockDashboardRepository) CountUserUpcoming(userID int64, from time.Time) (int64, error) {
	m.queriesRun.Add(1)
	return 1, nil
}

func (m *mockDashboardRepository) CountUnreadNotifications(userID int64) (int64, error) {
	m.queriesRun.Add(1)
	return 6, nil
}

var _ = Describe("DashboardService", func() {
	var (
		service  *dashboard.Service
		mockRepo *mockDashboardRepository
	)

	BeforeEach(func() {
		mockRepo = &mockDashboardRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = dashboard.NewService(mockRepo, logger)
	})

	Describe("Overview", func() {
		It("fills every slot from its own query", func() {
			stats, err := service.Overview(true)

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.SallesByStatut).To(HaveKeyWithValue("active", int64(3)))
			Expect(stats.ReservationsByStatut).To(HaveKeyWithValue("approuvee", int64(5)))
			Expect(stats.UsersByRole).To(HaveKeyWithValue("collaborateur", int64(7)))
			Expect(stats.ReservationsToday).To(Equal(int64(4)))
			Expect(stats.PendingCount).To(Equal(int64(2)))
		})

		It("keeps slots intact when one query is slow", func() {
			mockRepo.delay = 30 * time.Millisecond

			stats, err := service.Overview(true)

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.SallesByStatut).To(HaveKeyWithValue("active", int64(3)))
			Expect(stats.ReservationsByStatut).To(HaveKeyWithValue("en_attente", int64(2)))
		})

		It("omits the user breakdown for a responsable", func() {
			stats, err := service.Overview(false)

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.UsersByRole).To(BeNil())
		})

		It("surfaces the first failing slot", func() {
			mockRepo.sallesErr = errors.New("connection reset")

			_, err := service.Overview(true)

			Expect(err).To(MatchError("connection reset"))
		})
	})

	Describe("MyStats", func() {
		It("gathers the personal counters concurrently", func() {
			stats, err := service.MyStats(10)

			Expect(err).ToNot(HaveOccurred())
			Expect(stats.ReservationsByStatut).To(HaveKeyWithValue("approuvee", int64(3)))
			Expect(stats.UpcomingCount).To(Equal(int64(1)))
			Expect(stats.UnreadNotifications).To(Equal(int64(6)))
			Expect(mockRepo.queriesRun.Load()).To(Equal(int32(3)))
		})
	})
})
