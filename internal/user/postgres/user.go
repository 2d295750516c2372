package postgres

import (
	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	userDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/user"
	"github.com/nmissi-nadia/liqaaspace/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetAll(limit, offset int) ([]*user.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(users), nil
}

func (r *UserRepository) EmailExists(email string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.Model(&userDatamodel.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	return nil
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(user.ToDataModel(u)).Error
}

func (r *UserRepository) Delete(userID int64) error {
	return r.db.Where("id = ?", userID).Delete(&userDatamodel.User{}).Error
}
