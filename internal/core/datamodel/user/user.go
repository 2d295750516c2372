package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:collaborateur"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

// Session is a server-side login session bound to the HttpOnly cookie.
type Session struct {
	ID        int64     `gorm:"primaryKey"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	CSRFToken string    `gorm:"column:csrf_token;not null"`
	UserID    *int64    `gorm:"column:user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Session) TableName() string {
	return "sessions"
}
