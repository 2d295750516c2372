package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nmissi-nadia/liqaaspace/internal"
)

// Credentials is what the repository hands back for a login attempt.
type Credentials struct {
	UserID       int64
	PasswordHash string
	IsActive     bool
}

type UserRepository interface {
	GetCredentialsByEmail(email string) (*Credentials, error)
	GetByID(userID int64) (*User, error)
	EmailExists(email string) (bool, error)
	Create(name, email, passwordHash string, role Role) (*User, error)
}

type SessionRepository interface {
	Create(session *Session) error
	GetByToken(token string) (*Session, error)
	AttachUser(token string, userID int64, expiresAt time.Time) error
	Delete(token string) error
	DeleteExpired(before time.Time) error
}

// Service owns the session lifecycle: the CSRF handshake, login, register,
// logout and the broadcast channel-auth tokens.
type Service struct {
	users        UserRepository
	sessions     SessionRepository
	logger       *slog.Logger
	sessionTTL   time.Duration
	bcryptCost   int
	broadcastKey []byte
	broadcastTTL time.Duration
}

func NewService(users UserRepository, sessions SessionRepository, logger *slog.Logger, cfg internal.SecurityConfig) *Service {
	return &Service{
		users:        users,
		sessions:     sessions,
		logger:       logger,
		sessionTTL:   cfg.SessionTTL,
		bcryptCost:   cfg.BCryptCost,
		broadcastKey: []byte(cfg.BroadcastKey),
		broadcastTTL: cfg.BroadcastTTL,
	}
}

// GenerateRandomToken generates a cryptographically secure random token.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// StartSession mints the pre-session anchoring the CSRF token: step one of
// the two-step login handshake.
func (s *Service) StartSession() (*Session, error) {
	token, err := GenerateRandomToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate session token", err)
	}
	csrf, err := GenerateRandomToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate csrf token", err)
	}

	session := &Session{
		Token:     token,
		CSRFToken: csrf,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, internal.NewInternalError("failed to persist session", err)
	}
	return session, nil
}

// resolveSession loads and checks the session behind the cookie.
func (s *Service) resolveSession(sessionToken string) (*Session, error) {
	if sessionToken == "" {
		return nil, internal.ErrSessionExpired
	}
	session, err := s.sessions.GetByToken(sessionToken)
	if err != nil {
		return nil, internal.ErrSessionExpired
	}
	if session.Expired(time.Now()) {
		return nil, internal.ErrSessionExpired
	}
	return session, nil
}

func (s *Service) checkCSRF(session *Session, csrfToken string) error {
	if csrfToken == "" ||
		subtle.ConstantTimeCompare([]byte(session.CSRFToken), []byte(csrfToken)) != 1 {
		return internal.ErrCSRFMismatch
	}
	return nil
}

// Login is step two of the handshake: the credential POST carrying the CSRF
// token minted by StartSession. On success the pre-session becomes an
// authenticated one.
func (s *Service) Login(sessionToken, csrfToken string, dto LoginDTO) (*User, error) {
	session, err := s.resolveSession(sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkCSRF(session, csrfToken); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.users.GetCredentialsByEmail(dto.Email)
	if err != nil {
		// same answer as a wrong password: never reveal which half failed
		return nil, internal.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)) != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return nil, internal.ErrUserInactive
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.AttachUser(session.Token, creds.UserID, expiresAt); err != nil {
		return nil, internal.NewInternalError("failed to attach user to session", err)
	}

	user, err := s.users.GetByID(creds.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user after login", err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Register creates a collaborateur account and performs the implicit login
// through the same code path the explicit one uses.
func (s *Service) Register(sessionToken, csrfToken string, dto RegisterDTO) (*User, error) {
	session, err := s.resolveSession(sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkCSRF(session, csrfToken); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailExists(dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email uniqueness", err)
	}
	if taken {
		return nil, internal.NewValidationFieldError("email", "email address is already registered", internal.ErrCodeEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	user, err := s.users.Create(dto.Name, dto.Email, string(hash), RoleCollaborateur)
	if err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.sessions.AttachUser(session.Token, user.ID, expiresAt); err != nil {
		return nil, internal.NewInternalError("failed to attach user to session", err)
	}

	s.logger.Info("registration succeeded", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Logout drops the session. A dead or missing session is not an error: the
// client ends up logged out either way. A live session is a mutating target,
// so the CSRF token is checked before the row is deleted.
func (s *Service) Logout(sessionToken, csrfToken string) error {
	if sessionToken == "" {
		return nil
	}
	session, err := s.sessions.GetByToken(sessionToken)
	if err != nil {
		return nil
	}
	if !session.Expired(time.Now()) {
		if err := s.checkCSRF(session, csrfToken); err != nil {
			return err
		}
	}
	if err := s.sessions.Delete(sessionToken); err != nil {
		s.logger.Warn("logout: session delete failed", "error", err)
	}
	return nil
}

// CurrentUser is the "who am I" probe behind checkAuth.
func (s *Service) CurrentUser(sessionToken string) (*User, error) {
	session, err := s.resolveSession(sessionToken)
	if err != nil {
		return nil, err
	}
	if !session.Authenticated() {
		return nil, internal.ErrSessionExpired
	}
	user, err := s.users.GetByID(*session.UserID)
	if err != nil {
		return nil, internal.ErrSessionExpired
	}
	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}
	if !user.Role.Known() {
		// a row with an unknown role never authenticates
		return nil, internal.ErrUnauthorizedAccess
	}
	return user, nil
}

// ---- broadcast channel auth ----

// ChannelClaims authorize a realtime subscription: the token names exactly
// the channels its bearer may open.
type ChannelClaims struct {
	UserID   int64    `json:"user_id"`
	Channels []string `json:"channels"`
	jwt.RegisteredClaims
}

// ChannelAllowed reports whether the user may subscribe to the channel:
// "chat" for anyone authenticated, "notifications.{id}" only for the owner
// or an admin.
func ChannelAllowed(u *User, channel string) bool {
	if channel == "chat" {
		return true
	}
	if owner, ok := strings.CutPrefix(channel, "notifications."); ok {
		if u.IsAdmin() {
			return true
		}
		return owner == fmt.Sprintf("%d", u.ID)
	}
	return false
}

// ChannelToken signs a short-lived JWT for one channel subscription.
func (s *Service) ChannelToken(u *User, channel string) (string, error) {
	if !ChannelAllowed(u, channel) {
		return "", internal.ErrChannelForbidden
	}

	now := time.Now()
	claims := &ChannelClaims{
		UserID:   u.ID,
		Channels: []string{channel},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.broadcastTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", u.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.broadcastKey)
	if err != nil {
		return "", internal.NewInternalError("failed to sign channel token", err)
	}
	return signed, nil
}

// ValidateChannelToken checks the bearer token presented on the SSE
// endpoint against the requested channel.
func (s *Service) ValidateChannelToken(tokenString, channel string) (*ChannelClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ChannelClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.broadcastKey, nil
	})
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*ChannelClaims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}

	for _, c := range claims.Channels {
		if c == channel {
			return claims, nil
		}
	}
	return nil, internal.ErrChannelForbidden
}

func (s *Service) BroadcastTokenTTL() time.Duration {
	return s.broadcastTTL
}
