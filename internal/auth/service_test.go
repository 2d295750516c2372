package auth_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	users        map[int64]*auth.User
	credentials  map[string]*auth.Credentials
	nextID       int64
	createError  error
	existsError  error
	createdRoles []auth.Role
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:       make(map[int64]*auth.User),
		credentials: make(map[string]*auth.Credentials),
		nextID:      1,
	}
}

func (m *mockUserRepository) addUser(email, password string, role auth.Role, active bool) *auth.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &auth.User{
		ID:       m.nextID,
		Email:    email,
		Name:     "User " + email,
		Role:     role,
		IsActive: active,
	}
	m.users[u.ID] = u
	m.credentials[email] = &auth.Credentials{
		UserID:       u.ID,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	m.nextID++
	return u
}

func (m *mockUserRepository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	creds, ok := m.credentials[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return creds, nil
}

func (m *mockUserRepository) GetByID(userID int64) (*auth.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	if m.existsError != nil {
		return false, m.existsError
	}
	_, ok := m.credentials[email]
	return ok, nil
}

func (m *mockUserRepository) Create(name, email, passwordHash string, role auth.Role) (*auth.User, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	u := &auth.User{
		ID:       m.nextID,
		Email:    email,
		Name:     name,
		Role:     role,
		IsActive: true,
	}
	m.users[u.ID] = u
	m.credentials[email] = &auth.Credentials{UserID: u.ID, PasswordHash: passwordHash, IsActive: true}
	m.nextID++
	m.createdRoles = append(m.createdRoles, role)
	return u, nil
}

// Mock session repository for testing
type mockSessionRepository struct {
	sessions    map[string]*auth.Session
	createError error
	deleted     []string
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[string]*auth.Session)}
}

func (m *mockSessionRepository) Create(session *auth.Session) error {
	if m.createError != nil {
		return m.createError
	}
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionRepository) GetByToken(token string) (*auth.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (m *mockSessionRepository) AttachUser(token string, userID int64, expiresAt time.Time) error {
	s, ok := m.sessions[token]
	if !ok {
		return errors.New("not found")
	}
	s.UserID = &userID
	s.ExpiresAt = expiresAt
	return nil
}

func (m *mockSessionRepository) Delete(token string) error {
	m.deleted = append(m.deleted, token)
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepository) DeleteExpired(before time.Time) error {
	for token, s := range m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(m.sessions, token)
		}
	}
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service      *auth.Service
		mockUsers    *mockUserRepository
		mockSessions *mockSessionRepository
		logger       *slog.Logger
	)

	securityConfig := internal.SecurityConfig{
		SessionTTL:   time.Hour,
		BCryptCost:   bcrypt.MinCost,
		BroadcastKey: "test-broadcast-key-0123456789-0123456789",
		BroadcastTTL: 10 * time.Minute,
	}

	BeforeEach(func() {
		mockUsers = newMockUserRepository()
		mockSessions = newMockSessionRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockUsers, mockSessions, logger, securityConfig)
	})

	startSession := func() *auth.Session {
		session, err := service.StartSession()
		Expect(err).ToNot(HaveOccurred())
		return session
	}

	Describe("StartSession", func() {
		It("mints a pre-session with distinct session and CSRF tokens", func() {
			session := startSession()

			Expect(session.Token).ToNot(BeEmpty())
			Expect(session.CSRFToken).ToNot(BeEmpty())
			Expect(session.Token).ToNot(Equal(session.CSRFToken))
			Expect(session.Authenticated()).To(BeFalse())
		})
	})

	Describe("Login", func() {
		var session *auth.Session

		BeforeEach(func() {
			mockUsers.addUser("sara@example.com", "s3cretpass", auth.RoleCollaborateur, true)
			session = startSession()
		})

		Context("with the CSRF token from the handshake", func() {
			It("authenticates the session", func() {
				user, err := service.Login(session.Token, session.CSRFToken, auth.LoginDTO{
					Email:    "sara@example.com",
					Password: "s3cretpass",
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(user.Email).To(Equal("sara@example.com"))
				Expect(session.UserID).ToNot(BeNil())
			})
		})

		Context("without a CSRF token", func() {
			It("fails with a CSRF error before touching credentials", func() {
				_, err := service.Login(session.Token, "", auth.LoginDTO{
					Email:    "sara@example.com",
					Password: "s3cretpass",
				})

				Expect(err).To(Equal(internal.ErrCSRFMismatch))
			})
		})

		Context("with a CSRF token from another session", func() {
			It("fails with a CSRF error", func() {
				other := startSession()

				_, err := service.Login(session.Token, other.CSRFToken, auth.LoginDTO{
					Email:    "sara@example.com",
					Password: "s3cretpass",
				})

				Expect(err).To(Equal(internal.ErrCSRFMismatch))
			})
		})

		Context("with a wrong password", func() {
			It("returns the same error as an unknown email", func() {
				_, wrongPass := service.Login(session.Token, session.CSRFToken, auth.LoginDTO{
					Email:    "sara@example.com",
					Password: "wrong",
				})
				_, unknownEmail := service.Login(session.Token, session.CSRFToken, auth.LoginDTO{
					Email:    "nobody@example.com",
					Password: "whatever",
				})

				Expect(wrongPass).To(Equal(internal.ErrInvalidCredentials))
				Expect(unknownEmail).To(Equal(internal.ErrInvalidCredentials))
			})
		})

		Context("with an inactive account", func() {
			It("refuses the login", func() {
				mockUsers.addUser("off@example.com", "s3cretpass", auth.RoleCollaborateur, false)

				_, err := service.Login(session.Token, session.CSRFToken, auth.LoginDTO{
					Email:    "off@example.com",
					Password: "s3cretpass",
				})

				Expect(err).To(Equal(internal.ErrUserInactive))
			})
		})

		Context("with an expired session", func() {
			It("fails as an expired session", func() {
				session.ExpiresAt = time.Now().Add(-time.Minute)

				_, err := service.Login(session.Token, session.CSRFToken, auth.LoginDTO{
					Email:    "sara@example.com",
					Password: "s3cretpass",
				})

				Expect(err).To(Equal(internal.ErrSessionExpired))
			})
		})
	})

	Describe("Register", func() {
		var session *auth.Session

		BeforeEach(func() {
			session = startSession()
		})

		It("creates a collaborateur and signs the session in", func() {
			user, err := service.Register(session.Token, session.CSRFToken, auth.RegisterDTO{
				Name:                 "Nadia",
				Email:                "nadia@example.com",
				Password:             "longenough",
				PasswordConfirmation: "longenough",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(user.Role).To(Equal(auth.RoleCollaborateur))
			Expect(mockUsers.createdRoles).To(ConsistOf(auth.RoleCollaborateur))
			Expect(session.Authenticated()).To(BeTrue())
		})

		It("rejects a seven-character password before touching the store", func() {
			_, err := service.Register(session.Token, session.CSRFToken, auth.RegisterDTO{
				Name:                 "Nadia",
				Email:                "nadia@example.com",
				Password:             "short12",
				PasswordConfirmation: "short12",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(mockUsers.createdRoles).To(BeEmpty())
		})

		It("accepts an eight-character password", func() {
			user, err := service.Register(session.Token, session.CSRFToken, auth.RegisterDTO{
				Name:                 "Nadia",
				Email:                "nadia@example.com",
				Password:             "exactly8",
				PasswordConfirmation: "exactly8",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(user.ID).To(BeNumerically(">", 0))
		})

		It("rejects a taken email", func() {
			mockUsers.addUser("nadia@example.com", "whatever1", auth.RoleCollaborateur, true)

			_, err := service.Register(session.Token, session.CSRFToken, auth.RegisterDTO{
				Name:                 "Nadia",
				Email:                "nadia@example.com",
				Password:             "longenough",
				PasswordConfirmation: "longenough",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects a mismatched confirmation", func() {
			_, err := service.Register(session.Token, session.CSRFToken, auth.RegisterDTO{
				Name:                 "Nadia",
				Email:                "nadia@example.com",
				Password:             "longenough",
				PasswordConfirmation: "different1",
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Logout", func() {
		It("drops the session and tolerates a second call", func() {
			session := startSession()

			Expect(service.Logout(session.Token, session.CSRFToken)).To(Succeed())
			Expect(service.Logout(session.Token, session.CSRFToken)).To(Succeed())
			Expect(service.Logout("", "")).To(Succeed())
		})

		It("refuses a live session without the anti-forgery token", func() {
			session := startSession()

			err := service.Logout(session.Token, "")
			Expect(err).To(Equal(internal.ErrCSRFMismatch))

			err = service.Logout(session.Token, "forged")
			Expect(err).To(Equal(internal.ErrCSRFMismatch))

			// the session survived both attempts
			_, err = mockSessions.GetByToken(session.Token)
			Expect(err).ToNot(HaveOccurred())
		})

		It("drops an expired session without demanding the token", func() {
			session := startSession()
			session.ExpiresAt = time.Now().Add(-time.Minute)

			Expect(service.Logout(session.Token, "")).To(Succeed())
			Expect(mockSessions.deleted).To(ContainElement(session.Token))
		})
	})

	Describe("CurrentUser", func() {
		It("rejects a pre-session that never logged in", func() {
			session := startSession()

			_, err := service.CurrentUser(session.Token)

			Expect(err).To(Equal(internal.ErrSessionExpired))
		})

		It("returns the user behind an authenticated session", func() {
			u := mockUsers.addUser("sara@example.com", "s3cretpass", auth.RoleResponsable, true)
			session := startSession()
			_, err := service.Login(session.Token, session.CSRFToken, auth.LoginDTO{
				Email:    "sara@example.com",
				Password: "s3cretpass",
			})
			Expect(err).ToNot(HaveOccurred())

			current, err := service.CurrentUser(session.Token)

			Expect(err).ToNot(HaveOccurred())
			Expect(current.ID).To(Equal(u.ID))
			Expect(current.Role).To(Equal(auth.RoleResponsable))
		})
	})

	Describe("Channel tokens", func() {
		var collaborateur, admin *auth.User

		BeforeEach(func() {
			collaborateur = &auth.User{ID: 7, Role: auth.RoleCollaborateur, IsActive: true}
			admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsActive: true}
		})

		It("grants anyone the chat channel", func() {
			token, err := service.ChannelToken(collaborateur, "chat")

			Expect(err).ToNot(HaveOccurred())
			claims, err := service.ValidateChannelToken(token, "chat")
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(int64(7)))
		})

		It("grants the owner their notification channel", func() {
			token, err := service.ChannelToken(collaborateur, "notifications.7")

			Expect(err).ToNot(HaveOccurred())
			Expect(token).ToNot(BeEmpty())
		})

		It("refuses another user's notification channel", func() {
			_, err := service.ChannelToken(collaborateur, "notifications.8")

			Expect(err).To(Equal(internal.ErrChannelForbidden))
		})

		It("lets an admin open any notification channel", func() {
			_, err := service.ChannelToken(admin, "notifications.8")

			Expect(err).ToNot(HaveOccurred())
		})

		It("refuses a token on a channel it was not minted for", func() {
			token, err := service.ChannelToken(collaborateur, "chat")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateChannelToken(token, "notifications.7")

			Expect(err).To(Equal(internal.ErrChannelForbidden))
		})

		It("refuses a token signed with another key", func() {
			otherCfg := securityConfig
			otherCfg.BroadcastKey = "another-broadcast-key-9876543210-987654"
			otherService := auth.NewService(mockUsers, mockSessions, logger, otherCfg)
			token, err := otherService.ChannelToken(collaborateur, "chat")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateChannelToken(token, "chat")

			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})
})
