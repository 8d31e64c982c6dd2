package announcement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Announcement is a notice to a site, a team, or everyone. readBy is a
// grow-only set of user ids; marking read twice is a no-op.
type Announcement struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"not null"`
	Body          string         `json:"body" gorm:"not null"`
	MustRead      bool           `json:"mustRead"`
	AttachmentURL *string        `json:"attachmentUrl,omitempty"`
	ReadBy        datatypes.JSON `json:"readBy" gorm:"column:read_by_json"`
	CreatedBy     string         `json:"createdBy" gorm:"not null"`
	Site          string         `json:"site,omitempty" gorm:"index"`
	Team          string         `json:"team,omitempty"`
	TeamDetail    *string        `json:"teamDetail,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// ReadByList decodes the readBy column.
func (a *Announcement) ReadByList() []string {
	if len(a.ReadBy) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(a.ReadBy, &ids); err != nil {
		return []string{}
	}
	return ids
}

func readByColumn(ids []string) datatypes.JSON {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}

var ErrAnnouncementNotFound = errors.New("announcement not found")

// ScopeFilter narrows announcement listings; empty fields match everything.
type ScopeFilter struct {
	Site       string
	Team       string
	TeamDetail string
}

// UserRef is a directory entry used for the unread roster.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Repository interface {
	Create(ctx context.Context, ann *Announcement) error
	GetByID(ctx context.Context, id string) (*Announcement, error)
	List(ctx context.Context, filter ScopeFilter) ([]*Announcement, error)
	UpdateReadBy(ctx context.Context, id string, readBy datatypes.JSON) error
	ListBlobURLs(ctx context.Context) ([]string, error)
}

// Directory lists users in the announcement's audience. Empty site/team
// mean no constraint on that axis.
type Directory interface {
	ListUsers(ctx context.Context, site, team string) ([]UserRef, error)
}
