package announcement

import (
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type CreateAnnouncementDTO struct {
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	CreatedBy     string  `json:"createdBy"`
	MustRead      bool    `json:"mustRead,omitempty"`
	AttachmentURL *string `json:"attachmentUrl,omitempty"`
}

func (d CreateAnnouncementDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MinLength(1)
	v.Field("body", d.Body).Required().MinLength(1)
	v.Field("createdBy", d.CreatedBy).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type MarkReadDTO struct {
	UserID string `json:"userId"`
}

func (d MarkReadDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", d.UserID).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
