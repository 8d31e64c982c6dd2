package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/request"
)

// RequestRepository implements the request.Repository interface using GORM
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, item *request.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*request.Item, error) {
	var item request.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, request.ErrRequestNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *RequestRepository) List(ctx context.Context, filter request.ScopeFilter) ([]*request.Item, error) {
	var items []*request.Item
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Site != "" {
		q = q.Where("site = ?", filter.Site)
	}
	if filter.Team != "" {
		q = q.Where("team = ?", filter.Team)
	}
	if filter.TeamDetail != "" {
		q = q.Where("team_detail = ?", filter.TeamDetail)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *RequestRepository) SetState(ctx context.Context, id string, state request.State, reviewerID string, reviewedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&request.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":       state,
			"reviewer_id": reviewerID,
			"reviewed_at": reviewedAt,
		}).Error
}
