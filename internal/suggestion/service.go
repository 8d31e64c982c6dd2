package suggestion

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a suggestion. Anonymous defaults to true; a named
// suggestion keeps createdBy.
func (s *Service) Create(ctx context.Context, dto CreateSuggestionDTO) (*Suggestion, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	anonymous := true
	if dto.Anonymous != nil {
		anonymous = *dto.Anonymous
	}

	sug := &Suggestion{
		ID:        uuid.NewString(),
		Text:      dto.Text,
		Anonymous: anonymous,
		CreatedAt: time.Now(),
	}
	if !anonymous {
		sug.CreatedBy = dto.CreatedBy
	}

	if err := s.repo.Create(ctx, sug); err != nil {
		return nil, apperrors.NewInternalError("failed to create suggestion", err)
	}
	return sug, nil
}

func (s *Service) List(ctx context.Context) ([]*Suggestion, error) {
	sugs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list suggestions", err)
	}
	return sugs, nil
}
