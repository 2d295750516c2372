package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	userDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetCredentialsByEmail(email string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

func (r *UserRepository) GetByID(userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     auth.Role(u.Role),
		IsActive: u.IsActive,
	}, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(name, email, passwordHash string, role auth.Role) (*auth.User, error) {
	u := &userDatamodel.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         string(role),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := r.db.Create(u).Error; err != nil {
		return nil, err
	}
	return &auth.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     role,
		IsActive: true,
	}, nil
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *auth.Session) error {
	row := &userDatamodel.Session{
		Token:     session.Token,
		CSRFToken: session.CSRFToken,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: time.Now(),
	}
	return r.db.Create(row).Error
}

func (r *SessionRepository) GetByToken(token string) (*auth.Session, error) {
	var row userDatamodel.Session
	err := r.db.Where("token = ?", token).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrSessionExpired
		}
		return nil, err
	}
	return &auth.Session{
		Token:     row.Token,
		CSRFToken: row.CSRFToken,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *SessionRepository) AttachUser(token string, userID int64, expiresAt time.Time) error {
	return r.db.Model(&userDatamodel.Session{}).
		Where("token = ?", token).
		Updates(map[string]interface{}{
			"user_id":    userID,
			"expires_at": expiresAt,
		}).Error
}

func (r *SessionRepository) Delete(token string) error {
	return r.db.Where("token = ?", token).Delete(&userDatamodel.Session{}).Error
}

// DeleteExpired is run periodically by the server command.
func (r *SessionRepository) DeleteExpired(before time.Time) error {
	return r.db.Where("expires_at < ?", before).Delete(&userDatamodel.Session{}).Error
}
