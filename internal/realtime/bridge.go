package realtime

import (
	"context"
	"time"

	"github.com/familyone/factory-ops/internal/core/events"
)

func newHeartbeat() *time.Ticker {
	return time.NewTicker(heartbeatInterval)
}

// Bridge subscribes the hub to the event bus: every domain event becomes an
// SSE broadcast to all connected clients.
func Bridge(bus *events.EventBus, hub *Hub) {
	forward := func(ctx context.Context, event events.Event) error {
		hub.Broadcast(Message{Event: event.EventType(), Data: event.Payload()})
		return nil
	}

	for _, eventType := range []string{
		events.ReportNew,
		events.ReportUpdated,
		events.RequestNew,
		events.RequestApproved,
		events.RequestRejected,
		events.AnnouncementNew,
		events.AnnouncementRead,
		events.LeaveNew,
		events.LeaveApproved,
		events.LeaveRejected,
		events.ChecklistSubmitted,
	} {
		bus.Subscribe(eventType, forward)
	}
}
