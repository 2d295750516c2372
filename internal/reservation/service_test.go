package reservation_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
	"github.com/nmissi-nadia/liqaaspace/internal/reservation"
	"github.com/nmissi-nadia/liqaaspace/internal/salle"
)

func TestReservation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reservation Suite")
}

// Mock repository for testing
type mockReservationRepository struct {
	reservations map[int64]*reservation.Reservation
	nextID       int64
	createError  error
	updateError  error
}

func newMockReservationRepository() *mockReservationRepository {
	return &mockReservationRepository{
		reservations: make(map[int64]*reservation.Reservation),
		nextID:       1,
	}
}

func (m *mockReservationRepository) Create(r *reservation.Reservation) error {
	if m.createError != nil {
		return m.createError
	}
	r.ID = m.nextID
	m.nextID++
	m.reservations[r.ID] = r
	return nil
}

func (m *mockReservationRepository) GetByID(id int64) (*reservation.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (m *mockReservationRepository) GetByUser(userID int64, limit, offset int) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationRepository) GetAll(filter reservation.ListFilter) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range m.reservations {
		if filter.SalleID != 0 && r.SalleID != filter.SalleID {
			continue
		}
		if filter.Statut != "" && r.Statut != filter.Statut {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockReservationRepository) GetPending() ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	for _, r := range m.reservations {
		if r.Statut == reservation.StatutEnAttente {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationRepository) FindOverlapping(salleID int64, date, debut, fin time.Time, statuts []string) ([]*reservation.Reservation, error) {
	allowed := make(map[string]bool, len(statuts))
	for _, s := range statuts {
		allowed[s] = true
	}
	var out []*reservation.Reservation
	for _, r := range m.reservations {
		if r.SalleID != salleID || !allowed[r.Statut] {
			continue
		}
		if !r.Date.Equal(date) {
			continue
		}
		if debut.Before(r.HeureFin) && r.HeureDebut.Before(fin) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationRepository) Update(r *reservation.Reservation) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.reservations[r.ID] = r
	return nil
}

func (m *mockReservationRepository) Delete(id int64) error {
	delete(m.reservations, id)
	return nil
}

// Mock salle catalogue for testing
type mockSalleInfo struct {
	salles map[int64]string // id -> statut
}

func (m *mockSalleInfo) NomAndStatut(salleID int64) (string, string, error) {
	statut, ok := m.salles[salleID]
	if !ok {
		return "", "", errors.New("not found")
	}
	return "Salle Test", statut, nil
}

// Mock event publisher for testing
type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockEventPublisher) typesPublished() []string {
	out := make([]string, len(m.published))
	for i, e := range m.published {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("ReservationService", func() {
	var (
		service   *reservation.Service
		mockRepo  *mockReservationRepository
		mockSalle *mockSalleInfo
		mockBus   *mockEventPublisher
	)

	validDTO := reservation.CreateReservationDTO{
		SalleID:    1,
		Date:       "2026-09-15",
		HeureDebut: "09:00",
		HeureFin:   "10:00",
		Motif:      "Sprint planning",
	}

	BeforeEach(func() {
		mockRepo = newMockReservationRepository()
		mockSalle = &mockSalleInfo{salles: map[int64]string{1: salle.StatutActive, 2: salle.StatutMaintenance}}
		mockBus = &mockEventPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = reservation.NewService(mockRepo, mockSalle, mockBus, logger)
	})

	Describe("Create", func() {
		It("files a pending reservation and announces it", func() {
			res, err := service.Create(10, validDTO)

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Statut).To(Equal(reservation.StatutEnAttente))
			Expect(res.UserID).To(Equal(int64(10)))
			Expect(mockBus.typesPublished()).To(ContainElement(events.EventTypeReservationCreated))
		})

		It("rejects an inverted time range before any write", func() {
			dto := validDTO
			dto.HeureDebut = "11:00"
			dto.HeureFin = "10:00"

			_, err := service.Create(10, dto)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.reservations).To(BeEmpty())
			Expect(mockBus.published).To(BeEmpty())
		})

		It("rejects a missing motif", func() {
			dto := validDTO
			dto.Motif = ""

			_, err := service.Create(10, dto)

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.reservations).To(BeEmpty())
		})

		It("refuses an unreservable salle", func() {
			dto := validDTO
			dto.SalleID = 2

			_, err := service.Create(10, dto)

			Expect(err).To(Equal(internal.ErrSalleUnavailable))
		})

		Context("against an approved reservation", func() {
			BeforeEach(func() {
				first, err := service.Create(11, validDTO)
				Expect(err).ToNot(HaveOccurred())
				_, err = service.Approve(first.ID, 1)
				Expect(err).ToNot(HaveOccurred())
			})

			It("rejects an overlapping slot", func() {
				dto := validDTO
				dto.HeureDebut = "09:30"
				dto.HeureFin = "10:30"

				_, err := service.Create(10, dto)

				Expect(err).To(Equal(internal.ErrReservationConflict))
			})

			It("accepts a back-to-back slot sharing the boundary", func() {
				dto := validDTO
				dto.HeureDebut = "10:00"
				dto.HeureFin = "11:00"

				_, err := service.Create(10, dto)

				Expect(err).ToNot(HaveOccurred())
			})

			It("accepts the same slot on another date", func() {
				dto := validDTO
				dto.Date = "2026-09-16"

				_, err := service.Create(10, dto)

				Expect(err).ToNot(HaveOccurred())
			})
		})

		It("allows overlapping pending requests to coexist", func() {
			_, err := service.Create(10, validDTO)
			Expect(err).ToNot(HaveOccurred())

			dto := validDTO
			dto.HeureDebut = "09:30"
			dto.HeureFin = "10:30"
			_, err = service.Create(11, dto)

			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Approve", func() {
		It("moves a pending reservation to approuvee and records the decider", func() {
			res, _ := service.Create(10, validDTO)

			approved, err := service.Approve(res.ID, 2)

			Expect(err).ToNot(HaveOccurred())
			Expect(approved.Statut).To(Equal(reservation.StatutApprouvee))
			Expect(*approved.DecidedBy).To(Equal(int64(2)))
			Expect(mockBus.typesPublished()).To(ContainElement(events.EventTypeReservationApprouve))
		})

		It("refuses to approve twice", func() {
			res, _ := service.Create(10, validDTO)
			_, err := service.Approve(res.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(res.ID, 2)

			Expect(err).To(Equal(internal.ErrStatutTransition))
		})

		It("re-checks conflicts at decision time", func() {
			first, _ := service.Create(10, validDTO)
			second, _ := service.Create(11, validDTO)
			_, err := service.Approve(first.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Approve(second.ID, 2)

			Expect(err).To(Equal(internal.ErrReservationConflict))
		})
	})

	Describe("Reject", func() {
		It("requires a motif", func() {
			res, _ := service.Create(10, validDTO)

			_, err := service.Reject(res.ID, 2, reservation.RejectDTO{})

			Expect(err).To(HaveOccurred())
		})

		It("stores the refusal motif and publishes the decision", func() {
			res, _ := service.Create(10, validDTO)

			rejected, err := service.Reject(res.ID, 2, reservation.RejectDTO{MotifRefus: "Salle réservée pour maintenance"})

			Expect(err).ToNot(HaveOccurred())
			Expect(rejected.Statut).To(Equal(reservation.StatutRefusee))
			Expect(rejected.MotifRefus).To(Equal("Salle réservée pour maintenance"))
			Expect(mockBus.typesPublished()).To(ContainElement(events.EventTypeReservationRefuse))
		})
	})

	Describe("Cancel", func() {
		It("lets the owner cancel while pending", func() {
			res, _ := service.Create(10, validDTO)

			cancelled, err := service.Cancel(res.ID, 10, false)

			Expect(err).ToNot(HaveOccurred())
			Expect(cancelled.Statut).To(Equal(reservation.StatutAnnulee))
		})

		It("refuses the owner once approved", func() {
			res, _ := service.Create(10, validDTO)
			_, err := service.Approve(res.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Cancel(res.ID, 10, false)

			Expect(err).To(Equal(internal.ErrStatutTransition))
		})

		It("refuses another collaborateur entirely", func() {
			res, _ := service.Create(10, validDTO)

			_, err := service.Cancel(res.ID, 11, false)

			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("lets a decider cancel an approved reservation", func() {
			res, _ := service.Create(10, validDTO)
			_, err := service.Approve(res.ID, 2)
			Expect(err).ToNot(HaveOccurred())

			cancelled, err := service.Cancel(res.ID, 2, true)

			Expect(err).ToNot(HaveOccurred())
			Expect(cancelled.Statut).To(Equal(reservation.StatutAnnulee))
		})
	})

	Describe("UpdateStatut", func() {
		It("folds legacy spellings into canonical transitions", func() {
			res, _ := service.Create(10, validDTO)

			updated, err := service.UpdateStatut(res.ID, 2, reservation.UpdateStatutDTO{Statut: "confirmé"})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Statut).To(Equal(reservation.StatutApprouvee))
		})

		It("rejects an unknown statut", func() {
			res, _ := service.Create(10, validDTO)

			_, err := service.UpdateStatut(res.ID, 2, reservation.UpdateStatutDTO{Statut: "peut-etre"})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("hides other users' reservations from a collaborateur", func() {
			res, _ := service.Create(10, validDTO)

			_, err := service.GetByID(res.ID, 11, false)

			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("shows everything to a decider", func() {
			res, _ := service.Create(10, validDTO)

			got, err := service.GetByID(res.ID, 99, true)

			Expect(err).ToNot(HaveOccurred())
			Expect(got.ID).To(Equal(res.ID))
		})
	})

	Describe("ListMine", func() {
		It("returns an empty slice, not nil, for a user without reservations", func() {
			rows, err := service.ListMine(77, 50, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(rows).ToNot(BeNil())
			Expect(rows).To(BeEmpty())
		})
	})
})

var _ = Describe("ParseStatut", func() {
	It("accepts canonical values", func() {
		for _, s := range []string{"en_attente", "approuvee", "refusee", "annulee"} {
			canonical, ok := reservation.ParseStatut(s)
			Expect(ok).To(BeTrue())
			Expect(canonical).To(Equal(s))
		}
	})

	It("folds legacy vocabulary", func() {
		for legacy, want := range map[string]string{
			"accepté":  reservation.StatutApprouvee,
			"confirmé": reservation.StatutApprouvee,
			"acceptee": reservation.StatutApprouvee,
			"Refusée":  reservation.StatutRefusee,
			"ANNULE":   reservation.StatutAnnulee,
			"pending":  reservation.StatutEnAttente,
		} {
			canonical, ok := reservation.ParseStatut(legacy)
			Expect(ok).To(BeTrue(), "expected %q to parse", legacy)
			Expect(canonical).To(Equal(want))
		}
	})

	It("rejects anything else", func() {
		_, ok := reservation.ParseStatut("terminee")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Overlaps", func() {
	at := func(h, m int) time.Time {
		return time.Date(2026, 9, 15, h, m, 0, 0, time.UTC)
	}

	It("detects a straddling slot", func() {
		Expect(reservation.Overlaps(at(9, 0), at(10, 0), at(9, 30), at(10, 30))).To(BeTrue())
	})

	It("detects containment", func() {
		Expect(reservation.Overlaps(at(9, 0), at(12, 0), at(10, 0), at(11, 0))).To(BeTrue())
	})

	It("treats shared boundaries as free", func() {
		Expect(reservation.Overlaps(at(9, 0), at(10, 0), at(10, 0), at(11, 0))).To(BeFalse())
		Expect(reservation.Overlaps(at(10, 0), at(11, 0), at(9, 0), at(10, 0))).To(BeFalse())
	})

	It("ignores disjoint slots", func() {
		Expect(reservation.Overlaps(at(9, 0), at(10, 0), at(14, 0), at(15, 0))).To(BeFalse())
	})
})
