package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	"github.com/nmissi-nadia/liqaaspace/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users  map[int64]*user.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*user.User), nextID: 1}
}

func (m *mockUserRepository) GetByID(userID int64) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepository) GetAll(limit, offset int) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) EmailExists(email string, excludeID int64) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Delete(userID int64) error {
	delete(m.users, userID)
	return nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, logger, bcrypt.MinCost)
	})

	validDTO := user.CreateUserDTO{
		Name:     "Rachid",
		Email:    "rachid@example.com",
		Password: "longenough",
		Role:     "responsable",
	}

	Describe("Create", func() {
		It("stores the user with the requested role and a hashed password", func() {
			u, err := service.Create(validDTO)

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Role).To(Equal(auth.RoleResponsable))
			Expect(u.PasswordHash).ToNot(Equal("longenough"))
			Expect(u.IsActive).To(BeTrue())
		})

		It("rejects an unknown role", func() {
			dto := validDTO
			dto.Role = "directeur"

			_, err := service.Create(dto)

			Expect(err).To(HaveOccurred())
		})

		It("rejects a taken email", func() {
			_, err := service.Create(validDTO)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(validDTO)

			Expect(err).To(Equal(internal.ErrEmailTaken))
		})
	})

	Describe("Update", func() {
		It("applies only the provided fields", func() {
			u, _ := service.Create(validDTO)
			name := "Rachid B."

			updated, err := service.Update(u.ID, user.UpdateUserDTO{Name: &name})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("Rachid B."))
			Expect(updated.Email).To(Equal("rachid@example.com"))
			Expect(updated.Role).To(Equal(auth.RoleResponsable))
		})

		It("refuses a role outside the known set", func() {
			u, _ := service.Create(validDTO)
			role := "superviseur"

			_, err := service.Update(u.ID, user.UpdateUserDTO{Role: &role})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("refuses self-deletion", func() {
			u, _ := service.Create(validDTO)

			err := service.Delete(u.ID, u.ID)

			Expect(err).To(Equal(internal.ErrSelfDelete))
			Expect(mockRepo.users).To(HaveKey(u.ID))
		})

		It("deletes another account", func() {
			u, _ := service.Create(validDTO)

			Expect(service.Delete(u.ID, u.ID+100)).To(Succeed())
			Expect(mockRepo.users).ToNot(HaveKey(u.ID))
		})
	})

	Describe("GetAll", func() {
		It("returns an empty slice, not nil", func() {
			users, err := service.GetAll(50, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(users).ToNot(BeNil())
			Expect(users).To(BeEmpty())
		})
	})
})
