package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/schedule"
)

// ShiftRepository implements the schedule.Repository interface using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) schedule.Repository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, shift *schedule.Shift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *ShiftRepository) GetByID(ctx context.Context, id string) (*schedule.Shift, error) {
	var shift schedule.Shift
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&shift).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, schedule.ErrShiftNotFound
		}
		return nil, err
	}
	return &shift, nil
}

func (r *ShiftRepository) List(ctx context.Context, filter schedule.Filter) ([]*schedule.Shift, error) {
	var shifts []*schedule.Shift
	q := r.db.WithContext(ctx).Order("date DESC")
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Team != "" {
		q = q.Where("user_id IN (?)",
			r.db.Table("users").Select("id").Where("team = ?", filter.Team))
	}
	err := q.Find(&shifts).Error
	return shifts, err
}

func (r *ShiftRepository) Update(ctx context.Context, shift *schedule.Shift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&schedule.Shift{}).Error
}
