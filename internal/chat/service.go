package chat

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/nmissi-nadia/liqaaspace/internal"
	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
)

type Repository interface {
	Create(m *Message) error
	GetRecent(limit int) ([]*Message, error)
}

type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	PresignGet(ctx context.Context, key string) (string, error)
	NewObjectKey(fileName string) string
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Attachment is an optional file riding on a chat message.
type Attachment struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type Service struct {
	repo    Repository
	storage ObjectStorage
	bus     EventPublisher
	logger  *slog.Logger
}

func NewService(repo Repository, storage ObjectStorage, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: storage,
		bus:     bus,
		logger:  logger,
	}
}

// History returns the last messages in chronological order, oldest
// first, ready to render top-down.
func (s *Service) History(ctx context.Context, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	messages, err := s.repo.GetRecent(limit)
	if err != nil {
		s.logger.Error("failed to load chat history", "error", err)
		return nil, err
	}
	if messages == nil {
		messages = []*Message{}
	}
	for _, m := range messages {
		s.attachFileURL(ctx, m)
	}
	return messages, nil
}

// Send persists the message, storing the attachment first when one is
// present, then announces it on the bus. The row exists before anyone
// hears about it.
func (s *Service) Send(ctx context.Context, userID int64, userName string, dto SendMessageDTO, att *Attachment) (*Message, error) {
	if err := dto.Validate(att != nil); err != nil {
		return nil, err
	}

	msg := &Message{
		UserID:    userID,
		UserName:  userName,
		Message:   dto.Message,
		CreatedAt: time.Now(),
	}

	if att != nil {
		key := s.storage.NewObjectKey(att.FileName)
		if err := s.storage.Upload(ctx, key, att.ContentType, att.Body); err != nil {
			s.logger.Error("chat attachment upload failed", "error", err, "user_id", userID)
			return nil, internal.NewInternalError("failed to store attachment", err)
		}
		msg.FilePath = &key
		msg.FileName = &att.FileName
	}

	if err := s.repo.Create(msg); err != nil {
		s.logger.Error("failed to persist chat message", "error", err, "user_id", userID)
		return nil, err
	}

	s.attachFileURL(ctx, msg)

	_ = s.bus.Publish(context.Background(), events.NewMessageSentEvent(
		msg.ID, msg.UserID, msg.UserName, msg.Message, msg.FilePath,
	))

	s.logger.Info("chat message sent", "message_id", msg.ID, "user_id", userID, "has_attachment", msg.HasAttachment())
	return msg, nil
}

func (s *Service) attachFileURL(ctx context.Context, m *Message) {
	if !m.HasAttachment() {
		return
	}
	url, err := s.storage.PresignGet(ctx, *m.FilePath)
	if err != nil {
		s.logger.Warn("failed to presign chat attachment", "message_id", m.ID, "error", err)
		return
	}
	m.FileURL = url
}
