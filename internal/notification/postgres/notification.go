package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal"
	notificationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/notification"
	"github.com/nmissi-nadia/liqaaspace/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	row, err := notification.ToDataModel(n)
	if err != nil {
		return err
	}
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	n.ID = row.ID
	return nil
}

func (r *NotificationRepository) GetByUser(userID int64, limit, offset int) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *NotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	var row notificationDatamodel.Notification
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrNotificationNotFound
		}
		return nil, err
	}
	return notification.FromDataModel(&row), nil
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id int64, at time.Time) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Update("read_at", at).Error
}

func (r *NotificationRepository) MarkAllRead(userID int64, at time.Time) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at).Error
}
