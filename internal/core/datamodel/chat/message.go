package chat

import "time"

type Message struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	FilePath  *string   `gorm:"column:file_path"`
	FileName  *string   `gorm:"column:file_name"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Message) TableName() string {
	return "messages"
}
