package user

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/auth"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetAll(limit, offset int) ([]*User, error)
	EmailExists(email string, excludeID int64) (bool, error)
	Create(u *User) error
	Update(u *User) error
	Delete(userID int64) error
}

// Service covers the admin user-management screens plus the /users/me
// probe.
type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, logger *slog.Logger, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetAll(limit, offset int) ([]*User, error) {
	users, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}

func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email, 0)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email uniqueness", err)
	}
	if taken {
		return nil, internal.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: string(hash),
		Role:         auth.Role(dto.Role),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) Update(userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Email != nil && *dto.Email != u.Email {
		taken, err := s.repo.EmailExists(*dto.Email, userID)
		if err != nil {
			return nil, internal.NewInternalError("failed to check email uniqueness", err)
		}
		if taken {
			return nil, internal.ErrEmailTaken
		}
		u.Email = *dto.Email
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Role != nil {
		u.Role = auth.Role(*dto.Role)
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, err
	}

	return u, nil
}

// Delete refuses to remove the requesting admin's own account.
func (s *Service) Delete(userID, requesterID int64) error {
	if userID == requesterID {
		return internal.ErrSelfDelete
	}

	if _, err := s.repo.GetByID(userID); err != nil {
		return internal.ErrUserNotFound
	}

	if err := s.repo.Delete(userID); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user deleted", "user_id", userID, "deleted_by", requesterID)
	return nil
}
