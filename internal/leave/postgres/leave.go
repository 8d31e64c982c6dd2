package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/familyone/factory-ops/internal/leave"
)

// LeaveRepository implements the leave.Repository interface using GORM
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, req *leave.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*leave.Request, error) {
	var req leave.Request
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, leave.ErrLeaveNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *LeaveRepository) List(ctx context.Context, userID string) ([]*leave.Request, error) {
	var reqs []*leave.Request
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *LeaveRepository) ListApprovedByUser(ctx context.Context, userID string) ([]*leave.Request, error) {
	var reqs []*leave.Request
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, leave.StateApproved).
		Find(&reqs).Error
	return reqs, err
}

func (r *LeaveRepository) SetState(ctx context.Context, id string, state leave.State, reviewerID string, reviewedAt time.Time, rejectionReason *string) error {
	updates := map[string]interface{}{
		"state":       state,
		"reviewer_id": reviewerID,
		"reviewed_at": reviewedAt,
	}
	if rejectionReason != nil {
		updates["rejection_reason"] = *rejectionReason
	}
	return r.db.WithContext(ctx).Model(&leave.Request{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *LeaveRepository) SetCancelRequested(ctx context.Context, id string, reason *string) error {
	updates := map[string]interface{}{
		"cancel_state": leave.CancelRequested,
	}
	if reason != nil {
		updates["cancel_reason"] = *reason
	}
	return r.db.WithContext(ctx).Model(&leave.Request{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *LeaveRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&leave.Request{}).Error
}

// GetAllocation returns nil without error when no allocation exists; the
// caller treats that as a zero budget.
func (r *LeaveRepository) GetAllocation(ctx context.Context, userID string, year int) (*leave.Allocation, error) {
	var alloc leave.Allocation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ?", userID, year).
		First(&alloc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &alloc, nil
}

func (r *LeaveRepository) UpsertAllocation(ctx context.Context, alloc *leave.Allocation) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_days"}),
	}).Create(alloc).Error
}

func (r *LeaveRepository) ListAllocations(ctx context.Context, year int) ([]*leave.Allocation, error) {
	var allocs []*leave.Allocation
	q := r.db.WithContext(ctx)
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	err := q.Order("year DESC, user_id ASC").Find(&allocs).Error
	return allocs, err
}
