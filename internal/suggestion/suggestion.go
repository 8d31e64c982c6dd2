package suggestion

import (
	"context"
	"time"

	"github.com/familyone/factory-ops/internal/core/common/validation"
)

// Suggestion is an anonymous-by-default improvement idea. Create-only.
type Suggestion struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"not null"`
	Anonymous bool      `json:"anonymous"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Suggestion) TableName() string {
	return "suggestions"
}

type CreateSuggestionDTO struct {
	Text      string  `json:"text"`
	Anonymous *bool   `json:"anonymous,omitempty"`
	CreatedBy *string `json:"createdBy,omitempty"`
}

func (d CreateSuggestionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("text", d.Text).Required().MinLength(1)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, sug *Suggestion) error
	List(ctx context.Context) ([]*Suggestion, error)
}
