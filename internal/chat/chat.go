package chat

import (
	"time"

	chatDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/chat"
)

// Message is one entry of the shared team chat. FileURL is a presigned
// link to the attachment, set on the way out when FilePath is present.
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	FilePath  *string   `json:"-"`
	FileName  *string   `json:"file_name,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) HasAttachment() bool {
	return m.FilePath != nil && *m.FilePath != ""
}

func ToDataModel(m *Message) *chatDatamodel.Message {
	return &chatDatamodel.Message{
		ID:        m.ID,
		UserID:    m.UserID,
		Message:   m.Message,
		FilePath:  m.FilePath,
		FileName:  m.FileName,
		CreatedAt: m.CreatedAt,
	}
}

func FromDataModel(m *chatDatamodel.Message) *Message {
	return &Message{
		ID:        m.ID,
		UserID:    m.UserID,
		Message:   m.Message,
		FilePath:  m.FilePath,
		FileName:  m.FileName,
		CreatedAt: m.CreatedAt,
	}
}
