package checklist

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategorySafety  Category = "safety"
	CategoryQuality Category = "quality"
)

func (c Category) Valid() bool {
	return c == CategorySafety || c == CategoryQuality
}

// Template is a seeded checklist item definition.
type Template struct {
	ID       string   `json:"id" gorm:"primaryKey"`
	Category Category `json:"category" gorm:"index;not null"`
	Title    string   `json:"title" gorm:"not null"`
}

func (Template) TableName() string {
	return "checklist_templates"
}

// Item is one checked-off entry inside a submission.
type Item struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Checked  bool     `json:"checked"`
}

// Submission is a completed daily checklist. Create-only.
type Submission struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Date      string         `json:"date" gorm:"index;not null"`
	UserID    string         `json:"userId" gorm:"index;not null"`
	Category  Category       `json:"category" gorm:"not null"`
	Items     datatypes.JSON `json:"items" gorm:"column:items_json"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (Submission) TableName() string {
	return "checklist_submissions"
}

func (s *Submission) ItemList() []Item {
	if len(s.Items) == 0 {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(s.Items, &items); err != nil {
		return []Item{}
	}
	return items
}

func itemsColumn(items []Item) datatypes.JSON {
	if items == nil {
		items = []Item{}
	}
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}

type Repository interface {
	ListTemplates(ctx context.Context, category Category) ([]*Template, error)
	CreateSubmission(ctx context.Context, sub *Submission) error
	ListSubmissions(ctx context.Context, date string) ([]*Submission, error)
}
