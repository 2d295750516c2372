package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeReservationCreated  = "reservation.created"
	EventTypeReservationApprouve = "reservation.approuvee"
	EventTypeReservationRefuse   = "reservation.refusee"
	EventTypeReservationAnnule   = "reservation.annulee"
	EventTypeMessageSent         = "message.sent"
)

type ReservationEvent struct {
	BaseEvent
	ReservationID int64  `json:"reservation_id"`
	SalleID       int64  `json:"salle_id"`
	SalleNom      string `json:"salle_nom"`
	UserID        int64  `json:"user_id"`
	Statut        string `json:"statut"`
	Motif         string `json:"motif"`
}

func NewReservationEvent(eventType string, reservationID, salleID, userID int64, salleNom, statut, motif string) *ReservationEvent {
	return &ReservationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"reservation_id": reservationID,
				"salle_id":       salleID,
				"salle_nom":      salleNom,
				"user_id":        userID,
				"statut":         statut,
				"motif":          motif,
			},
		},
		ReservationID: reservationID,
		SalleID:       salleID,
		SalleNom:      salleNom,
		UserID:        userID,
		Statut:        statut,
		Motif:         motif,
	}
}

type MessageSentEvent struct {
	BaseEvent
	MessageID int64   `json:"message_id"`
	UserID    int64   `json:"user_id"`
	UserName  string  `json:"user_name"`
	Message   string  `json:"message"`
	FilePath  *string `json:"file_path,omitempty"`
}

func NewMessageSentEvent(messageID, userID int64, userName, message string, filePath *string) *MessageSentEvent {
	data := map[string]interface{}{
		"message_id": messageID,
		"user_id":    userID,
		"user_name":  userName,
		"message":    message,
	}
	if filePath != nil {
		data["file_path"] = *filePath
	}
	return &MessageSentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMessageSent,
			Timestamp: time.Now(),
			Data:      data,
		},
		MessageID: messageID,
		UserID:    userID,
		UserName:  userName,
		Message:   message,
		FilePath:  filePath,
	}
}
