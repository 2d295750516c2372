package postgres

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/nmissi-nadia/liqaaspace/internal/chat"
	chatDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/chat"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) chat.Repository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(m *chat.Message) error {
	row := chat.ToDataModel(m)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	m.ID = row.ID
	return nil
}

// messageRow joins each message with its author's display name.
type messageRow struct {
	ID        int64
	UserID    int64
	UserName  string
	Message   string
	FilePath  *string
	FileName  *string
	CreatedAt time.Time
}

// GetRecent fetches the newest messages and hands them back oldest
// first, the order the chat pane renders them in.
func (r *ChatRepository) GetRecent(limit int) ([]*chat.Message, error) {
	var rows []messageRow
	err := r.db.Model(&chatDatamodel.Message{}).
		Select("messages.id, messages.user_id, users.name AS user_name, messages.message, messages.file_path, messages.file_name, messages.created_at").
		Joins("JOIN users ON users.id = messages.user_id").
		Order("messages.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*chat.Message, len(rows))
	for i, row := range rows {
		messages[i] = &chat.Message{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Message:   row.Message,
			FilePath:  row.FilePath,
			FileName:  row.FileName,
			CreatedAt: row.CreatedAt,
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}
