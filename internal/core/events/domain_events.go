package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event vocabulary emitted on state-changing writes. Connected clients
// receive every event and filter on their side.
const (
	ReportNew          = "report:new"
	ReportUpdated      = "report:updated"
	RequestNew         = "request:new"
	RequestApproved    = "request:approved"
	RequestRejected    = "request:rejected"
	AnnouncementNew    = "announcement:new"
	AnnouncementRead   = "announcement:read"
	LeaveNew           = "leave:new"
	LeaveApproved      = "leave:approved"
	LeaveRejected      = "leave:rejected"
	ChecklistSubmitted = "checklist:submitted"
)

// Publisher is the narrow interface domain services emit through, so tests
// can assert emitted events without a live bus or sockets.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NewDomainEvent wraps a payload in a BaseEvent with a fresh id.
func NewDomainEvent(eventType string, payload interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      payload,
	}
}
