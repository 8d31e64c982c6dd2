package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/training"
)

// TrainingRepository implements the training.Repository interface using GORM
type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) training.Repository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Create(ctx context.Context, t *training.Training) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TrainingRepository) ListByYear(ctx context.Context, year int) ([]*training.Training, error) {
	var trainings []*training.Training
	err := r.db.WithContext(ctx).Where("year = ?", year).Order("date ASC").Find(&trainings).Error
	return trainings, err
}

func (r *TrainingRepository) GetByID(ctx context.Context, id string) (*training.Training, error) {
	var t training.Training
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, training.ErrTrainingNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TrainingRepository) CreateCompletion(ctx context.Context, completion *training.Completion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *TrainingRepository) ListCompletionsByUser(ctx context.Context, userID string) ([]*training.Completion, error) {
	var completions []*training.Completion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&completions).Error
	return completions, err
}
