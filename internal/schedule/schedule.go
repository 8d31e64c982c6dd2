package schedule

import (
	"context"
	"errors"
)

// Shift assigns one user to a named shift on a date. Dates are YYYY-MM-DD.
type Shift struct {
	ID     string `json:"id" gorm:"primaryKey"`
	Date   string `json:"date" gorm:"index;not null"`
	UserID string `json:"userId" gorm:"index;not null"`
	Shift  string `json:"shift" gorm:"not null"`
}

func (Shift) TableName() string {
	return "shifts"
}

var ErrShiftNotFound = errors.New("shift not found")

// Filter narrows shift listings. Team filtering joins through the users
// table since shifts only carry a user id.
type Filter struct {
	Team   string
	UserID string
}

type Repository interface {
	Create(ctx context.Context, shift *Shift) error
	GetByID(ctx context.Context, id string) (*Shift, error)
	List(ctx context.Context, filter Filter) ([]*Shift, error)
	Update(ctx context.Context, shift *Shift) error
	Delete(ctx context.Context, id string) error
}
