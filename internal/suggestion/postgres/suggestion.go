package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/suggestion"
)

// SuggestionRepository implements the suggestion.Repository interface using GORM
type SuggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) suggestion.Repository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) Create(ctx context.Context, sug *suggestion.Suggestion) error {
	return r.db.WithContext(ctx).Create(sug).Error
}

func (r *SuggestionRepository) List(ctx context.Context) ([]*suggestion.Suggestion, error) {
	var sugs []*suggestion.Suggestion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sugs).Error
	return sugs, err
}
