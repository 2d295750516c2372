package realtime_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nmissi-nadia/liqaaspace/internal/core/events"
	"github.com/nmissi-nadia/liqaaspace/internal/realtime"
)

func TestRealtime(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Realtime Suite")
}

var _ = Describe("Hub", func() {
	var hub *realtime.Hub

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		hub = realtime.NewHub(4, logger)
	})

	It("delivers an envelope to every subscriber of the channel", func() {
		feedA, cancelA := hub.Subscribe("chat")
		defer cancelA()
		feedB, cancelB := hub.Subscribe("chat")
		defer cancelB()

		hub.Publish("chat", realtime.Envelope{ID: "e1", Event: "message.sent"})

		Eventually(feedA).Should(Receive(WithTransform(func(e realtime.Envelope) string { return e.ID }, Equal("e1"))))
		Eventually(feedB).Should(Receive())
	})

	It("keeps channels isolated", func() {
		chat, cancelChat := hub.Subscribe("chat")
		defer cancelChat()
		notif, cancelNotif := hub.Subscribe("notifications.7")
		defer cancelNotif()

		hub.Publish("notifications.7", realtime.Envelope{ID: "n1"})

		Eventually(notif).Should(Receive())
		Consistently(chat, 50*time.Millisecond).ShouldNot(Receive())
	})

	It("stamps the channel on the envelope", func() {
		feed, cancel := hub.Subscribe("notifications.7")
		defer cancel()

		hub.Publish("notifications.7", realtime.Envelope{ID: "n1"})

		var env realtime.Envelope
		Eventually(feed).Should(Receive(&env))
		Expect(env.Channel).To(Equal("notifications.7"))
	})

	It("drops events for a full subscriber instead of blocking", func() {
		_, cancel := hub.Subscribe("chat")
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 50; i++ {
				hub.Publish("chat", realtime.Envelope{ID: "flood"})
			}
		}()

		Eventually(done).Should(BeClosed())
	})

	It("closes the feed on cancel and tolerates a double cancel", func() {
		feed, cancel := hub.Subscribe("chat")

		cancel()
		cancel()

		Eventually(feed).Should(BeClosed())
		Expect(hub.SubscriberCount("chat")).To(BeZero())
	})
})

// Mock decider directory for testing
type mockDeciderDirectory struct {
	ids []int64
}

func (m *mockDeciderDirectory) DeciderIDs() ([]int64, error) {
	return m.ids, nil
}

var _ = Describe("Bridge", func() {
	var (
		hub *realtime.Hub
		bus *events.EventBus
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		hub = realtime.NewHub(4, logger)
		bus = events.NewEventBus(logger)
		realtime.AttachBridge(bus, hub, &mockDeciderDirectory{ids: []int64{1, 2}})
	})

	It("routes chat events to the chat channel", func() {
		feed, cancel := hub.Subscribe("chat")
		defer cancel()

		event := events.NewMessageSentEvent(1, 7, "Sara", "salut", nil)
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		var env realtime.Envelope
		Eventually(feed).Should(Receive(&env))
		Expect(env.Event).To(Equal(events.EventTypeMessageSent))
	})

	It("routes a new pending reservation to every decider's channel", func() {
		admin, cancelAdmin := hub.Subscribe("notifications.1")
		defer cancelAdmin()
		responsable, cancelResp := hub.Subscribe("notifications.2")
		defer cancelResp()
		owner, cancelOwner := hub.Subscribe("notifications.10")
		defer cancelOwner()

		event := events.NewReservationEvent(events.EventTypeReservationCreated, 3, 1, 10, "Salle Atlas", "en_attente", "Sprint planning")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Eventually(admin).Should(Receive())
		Eventually(responsable).Should(Receive())
		Consistently(owner, 50*time.Millisecond).ShouldNot(Receive())
	})

	It("does not echo a decider's own reservation back to them", func() {
		responsable, cancel := hub.Subscribe("notifications.2")
		defer cancel()

		event := events.NewReservationEvent(events.EventTypeReservationCreated, 3, 1, 2, "Salle Atlas", "en_attente", "Revue")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Consistently(responsable, 50*time.Millisecond).ShouldNot(Receive())
	})

	It("routes reservation decisions to the owner's private channel", func() {
		mine, cancelMine := hub.Subscribe("notifications.10")
		defer cancelMine()
		theirs, cancelTheirs := hub.Subscribe("notifications.11")
		defer cancelTheirs()

		event := events.NewReservationEvent(events.EventTypeReservationApprouve, 3, 1, 10, "Salle Atlas", "approuvee", "")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Eventually(mine).Should(Receive())
		Consistently(theirs, 50*time.Millisecond).ShouldNot(Receive())
	})
})
