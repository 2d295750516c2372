package notification

import "time"

// Notification rows are written by the reservation event subscriber; Data
// holds the JSON payload delivered verbatim on the realtime channel.
type Notification struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	Data      string     `gorm:"column:data;not null"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;default:now()"`
}

func (Notification) TableName() string {
	return "notifications"
}
