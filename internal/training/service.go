package training

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type CompleteDTO struct {
	Signature string `json:"signature"`
}

func (d CompleteDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("signature", d.Signature).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateDTO struct {
	Year        int    `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

func (d CreateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required()
	v.Field("year", d.Year).MinInt(2000, apperrors.ErrCodeValidationFailed).MaxInt(3000, apperrors.ErrCodeValidationFailed)
	if d.Date != "" {
		v.Field("date", d.Date).DateYMD()
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, dto CreateDTO) (*Training, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	training := &Training{
		ID:          uuid.NewString(),
		Year:        dto.Year,
		Title:       dto.Title,
		Description: dto.Description,
		Date:        dto.Date,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, training); err != nil {
		return nil, apperrors.NewInternalError("failed to create training", err)
	}
	return training, nil
}

func (s *Service) ListByYear(ctx context.Context, year int) ([]*Training, error) {
	trainings, err := s.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list trainings", err)
	}
	return trainings, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Training, error) {
	training, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTrainingNotFound) {
			return nil, apperrors.NewNotFoundError("training not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load training", err)
	}
	return training, nil
}

// Complete records a signed completion for the caller.
func (s *Service) Complete(ctx context.Context, trainingID, userID string, dto CompleteDTO) (*Completion, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, trainingID); err != nil {
		return nil, err
	}

	completion := &Completion{
		ID:         uuid.NewString(),
		TrainingID: trainingID,
		UserID:     userID,
		Signature:  dto.Signature,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateCompletion(ctx, completion); err != nil {
		return nil, apperrors.NewInternalError("failed to record completion", err)
	}
	return completion, nil
}

func (s *Service) Completions(ctx context.Context, userID string) ([]*Completion, error) {
	completions, err := s.repo.ListCompletionsByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list completions", err)
	}
	return completions, nil
}
