package notification

import (
	"encoding/json"
	"time"

	notificationDatamodel "github.com/nmissi-nadia/liqaaspace/internal/core/datamodel/notification"
)

// Notification is one persisted entry of a user's notification feed.
// Data carries the event payload as-is so the client can render any
// event shape without a schema change here.
type Notification struct {
	ID        int64                  `json:"id"`
	UserID    int64                  `json:"user_id"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func (n *Notification) Read() bool {
	return n.ReadAt != nil
}

type payload struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func ToDataModel(n *Notification) (*notificationDatamodel.Notification, error) {
	raw, err := json.Marshal(payload{Type: n.Type, Data: n.Data})
	if err != nil {
		return nil, err
	}
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Data:      string(raw),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}, nil
}

func FromDataModel(row *notificationDatamodel.Notification) *Notification {
	var p payload
	// a row that fails to decode still surfaces, with an empty body
	_ = json.Unmarshal([]byte(row.Data), &p)
	return &Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Type:      p.Type,
		Data:      p.Data,
		ReadAt:    row.ReadAt,
		CreatedAt: row.CreatedAt,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
