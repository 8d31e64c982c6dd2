package production

import (
	"context"
)

// Production names a production run scheduled on a date.
type Production struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Date string `json:"date" gorm:"index;not null"`
	Name string `json:"name" gorm:"not null"`
}

func (Production) TableName() string {
	return "productions"
}

type Repository interface {
	ListByDate(ctx context.Context, date string) ([]*Production, error)
	Create(ctx context.Context, prod *Production) error
}
