package request

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

type Kind string

const (
	KindMoldChange  Kind = "mold_change"
	KindMaterialAdd Kind = "material_add"
	KindMaintenance Kind = "maintenance"
	KindOther       Kind = "other"
)

// Item is an e-approval request. It is decided exactly once; a decision
// permanently records who reviewed it and when.
type Item struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	Kind       Kind       `json:"kind" gorm:"not null"`
	Details    string     `json:"details" gorm:"not null"`
	State      State      `json:"state" gorm:"not null;default:pending"`
	ReviewerID *string    `json:"reviewerId,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	CreatedBy  string     `json:"createdBy" gorm:"index;not null"`
	Site       string     `json:"site,omitempty" gorm:"index"`
	Team       string     `json:"team,omitempty"`
	TeamDetail *string    `json:"teamDetail,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (Item) TableName() string {
	return "requests"
}

var ErrRequestNotFound = errors.New("request not found")

// ScopeFilter narrows request listings; empty fields match everything.
type ScopeFilter struct {
	Site       string
	Team       string
	TeamDetail string
}

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, filter ScopeFilter) ([]*Item, error)
	SetState(ctx context.Context, id string, state State, reviewerID string, reviewedAt time.Time) error
}
