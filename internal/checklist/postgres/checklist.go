package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/checklist"
)

// ChecklistRepository implements the checklist.Repository interface using GORM
type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) checklist.Repository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) ListTemplates(ctx context.Context, category checklist.Category) ([]*checklist.Template, error) {
	var templates []*checklist.Template
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Find(&templates).Error
	return templates, err
}

func (r *ChecklistRepository) CreateSubmission(ctx context.Context, sub *checklist.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *ChecklistRepository) ListSubmissions(ctx context.Context, date string) ([]*checklist.Submission, error) {
	var subs []*checklist.Submission
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if date != "" {
		q = q.Where("date = ?", date)
	}
	err := q.Find(&subs).Error
	return subs, err
}
