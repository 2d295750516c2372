package realtime

import (
	"context"
	"fmt"

	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
)

// DeciderDirectory lists the users whose feeds receive new pending
// reservations.
type DeciderDirectory interface {
	DeciderIDs() ([]int64, error)
}

// AttachBridge routes domain events from the bus onto broadcast
// channels: chat messages to everyone on "chat", new pending
// reservations to the deciders' private feeds, decisions to the owner's
// "notifications.{id}" feed.
func AttachBridge(bus *events.EventBus, hub *Hub, deciders DeciderDirectory) {
	bus.Subscribe(events.EventTypeMessageSent, func(ctx context.Context, event events.Event) error {
		hub.Publish("chat", envelopeFrom(event))
		return nil
	})

	bus.Subscribe(events.EventTypeReservationCreated, func(ctx context.Context, event events.Event) error {
		re, ok := event.(*events.ReservationEvent)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.EventType())
		}
		deciderIDs, err := deciders.DeciderIDs()
		if err != nil {
			return fmt.Errorf("list deciders: %w", err)
		}
		for _, deciderID := range deciderIDs {
			if deciderID == re.UserID {
				continue
			}
			hub.Publish(fmt.Sprintf("notifications.%d", deciderID), envelopeFrom(event))
		}
		return nil
	})

	for _, eventType := range []string{
		events.EventTypeReservationApprouve,
		events.EventTypeReservationRefuse,
		events.EventTypeReservationAnnule,
	} {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			re, ok := event.(*events.ReservationEvent)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", event.EventType())
			}
			hub.Publish(fmt.Sprintf("notifications.%d", re.UserID), envelopeFrom(event))
			return nil
		})
	}
}

func envelopeFrom(event events.Event) Envelope {
	data, _ := event.Payload().(map[string]interface{})
	return Envelope{
		ID:     event.EventID(),
		Event:  event.EventType(),
		Data:   data,
		SentAt: event.OccurredAt(),
	}
}
