package schedule

import (
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type CreateShiftDTO struct {
	Date   string `json:"date"`
	UserID string `json:"userId"`
	Shift  string `json:"shift"`
}

func (d CreateShiftDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().MinLength(8)
	v.Field("userId", d.UserID).Required()
	v.Field("shift", d.Shift).Required().MinLength(1)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateShiftDTO is a partial patch; at least one field must be present.
type UpdateShiftDTO struct {
	Date   *string `json:"date,omitempty"`
	UserID *string `json:"userId,omitempty"`
	Shift  *string `json:"shift,omitempty"`
}

func (d UpdateShiftDTO) Empty() bool {
	return d.Date == nil && d.UserID == nil && d.Shift == nil
}
