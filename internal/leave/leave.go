package leave

import (
	"context"
	"errors"
	"time"
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

// CancelState tracks the cancel-request flow on approved leaves.
type CancelState string

const CancelRequested CancelState = "requested"

// Request is a leave application. Dates are inclusive YYYY-MM-DD strings;
// a one-day leave has startDate == endDate.
type Request struct {
	ID              string       `json:"id" gorm:"primaryKey"`
	UserID          string       `json:"userId" gorm:"index;not null"`
	StartDate       string       `json:"startDate" gorm:"not null"`
	EndDate         string       `json:"endDate" gorm:"not null"`
	Reason          *string      `json:"reason,omitempty"`
	Signature       *string      `json:"signature,omitempty"`
	State           State        `json:"state" gorm:"not null;default:pending"`
	ReviewerID      *string      `json:"reviewerId,omitempty"`
	ReviewedAt      *time.Time   `json:"reviewedAt,omitempty"`
	RejectionReason *string      `json:"rejectionReason,omitempty"`
	CancelState     *CancelState `json:"cancelState,omitempty"`
	CancelReason    *string      `json:"cancelReason,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

func (Request) TableName() string {
	return "leave_requests"
}

// Allocation is the per-user yearly leave budget.
type Allocation struct {
	UserID    string `json:"userId" gorm:"primaryKey"`
	Year      int    `json:"year" gorm:"primaryKey"`
	TotalDays int    `json:"totalDays" gorm:"not null"`
}

func (Allocation) TableName() string {
	return "leave_allocations"
}

var ErrLeaveNotFound = errors.New("leave request not found")

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	List(ctx context.Context, userID string) ([]*Request, error)
	ListApprovedByUser(ctx context.Context, userID string) ([]*Request, error)
	SetState(ctx context.Context, id string, state State, reviewerID string, reviewedAt time.Time, rejectionReason *string) error
	SetCancelRequested(ctx context.Context, id string, reason *string) error
	Delete(ctx context.Context, id string) error
	GetAllocation(ctx context.Context, userID string, year int) (*Allocation, error)
	UpsertAllocation(ctx context.Context, alloc *Allocation) error
	ListAllocations(ctx context.Context, year int) ([]*Allocation, error)
}

// UserNames resolves user ids to display names for listings.
type UserNames interface {
	NameOf(ctx context.Context, userID string) string
}

// dayCount returns the inclusive day count of [start, end] clipped to the
// calendar year. Ranges disjoint from the year contribute 0.
func dayCount(start, end string, year int) int {
	s, err1 := time.Parse("2006-01-02", start)
	e, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil || e.Before(s) {
		return 0
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	if s.Before(yearStart) {
		s = yearStart
	}
	if e.After(yearEnd) {
		e = yearEnd
	}
	if e.Before(s) {
		return 0
	}

	return int(e.Sub(s).Hours()/24) + 1
}
