package postgres

import (
	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal/auth"
	userDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/user"
	"github.com/nmissi-nadia/liqaaspace/internal/notification"
)

// DeciderRepository resolves who gets notified when a reservation needs
// a decision: the active admins and responsables.
type DeciderRepository struct {
	db *gorm.DB
}

func NewDeciderRepository(db *gorm.DB) notification.DeciderDirectory {
	return &DeciderRepository{db: db}
}

func (r *DeciderRepository) DeciderIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("role IN ? AND is_active = ?", []string{string(auth.RoleAdmin), string(auth.RoleResponsable)}, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
