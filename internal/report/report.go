package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusAck      Status = "ack"
	StatusResolved Status = "resolved"
)

type Type string

const (
	TypeMachineFault     Type = "machine_fault"
	TypeMaterialShortage Type = "material_shortage"
	TypeDefect           Type = "defect"
	TypeOther            Type = "other"
)

// Report is an incident raised on the floor. Scope columns are copied from
// the creator at creation time and never recomputed.
type Report struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	Type       Type           `json:"type" gorm:"not null"`
	Message    string         `json:"message" gorm:"not null"`
	Images     datatypes.JSON `json:"images" gorm:"column:images_json"`
	Status     Status         `json:"status" gorm:"not null;default:new"`
	CreatedBy  string         `json:"createdBy" gorm:"index;not null"`
	Site       string         `json:"site,omitempty" gorm:"index"`
	Team       string         `json:"team,omitempty"`
	TeamDetail *string        `json:"teamDetail,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (Report) TableName() string {
	return "reports"
}

// ImageList decodes the images column; null means no images.
func (r *Report) ImageList() []string {
	if len(r.Images) == 0 {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal(r.Images, &images); err != nil {
		return []string{}
	}
	return images
}

func imagesColumn(images []string) datatypes.JSON {
	if images == nil {
		images = []string{}
	}
	raw, _ := json.Marshal(images)
	return datatypes.JSON(raw)
}

// Reply is an append-only comment on a report.
type Reply struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ReportID  string    `json:"reportId" gorm:"index;not null"`
	AuthorID  string    `json:"authorId" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Reply) TableName() string {
	return "report_replies"
}

var ErrReportNotFound = errors.New("report not found")

// ScopeFilter narrows report listings; empty fields match everything.
type ScopeFilter struct {
	Site       string
	Team       string
	TeamDetail string
}

type Repository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, filter ScopeFilter) ([]*Report, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateMessage(ctx context.Context, id string, message string) error
	UpdateImages(ctx context.Context, id string, images datatypes.JSON) error
	Delete(ctx context.Context, id string) error
	CreateReply(ctx context.Context, reply *Reply) error
	ListReplies(ctx context.Context, reportID string) ([]*Reply, error)
	ListImageURLs(ctx context.Context) ([]string, error)
}
