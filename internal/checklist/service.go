package checklist

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/core/common/validation"
	"github.com/familyone/factory-ops/internal/core/events"
	"github.com/familyone/factory-ops/pkg/logger"
)

type SubmitDTO struct {
	Date     string `json:"date"`
	UserID   string `json:"userId"`
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

func (d SubmitDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().MinLength(8)
	v.Field("userId", d.UserID).Required()
	v.Field("category", d.Category).Required().OneOf(string(CategorySafety), string(CategoryQuality))

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type Service struct {
	repo   Repository
	bus    events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, bus events.Publisher) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger.LoggerWrapper(),
	}
}

// Templates returns the seeded item definitions for one category.
func (s *Service) Templates(ctx context.Context, category Category) ([]*Template, error) {
	if !category.Valid() {
		return nil, apperrors.NewNotFoundError("unknown category", apperrors.ErrCodeEntityNotFound)
	}
	templates, err := s.repo.ListTemplates(ctx, category)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list templates", err)
	}
	return templates, nil
}

func (s *Service) Submit(ctx context.Context, dto SubmitDTO) (*Submission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sub := &Submission{
		ID:        uuid.NewString(),
		Date:      dto.Date,
		UserID:    dto.UserID,
		Category:  Category(dto.Category),
		Items:     itemsColumn(dto.Items),
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		s.logger.ErrorContext(ctx, "failed to create checklist submission", "error", err)
		return nil, apperrors.NewInternalError("failed to create submission", err)
	}

	s.bus.Publish(ctx, events.NewDomainEvent(events.ChecklistSubmitted, sub))

	return sub, nil
}

func (s *Service) ListSubmissions(ctx context.Context, date string) ([]*Submission, error) {
	subs, err := s.repo.ListSubmissions(ctx, date)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list submissions", err)
	}
	return subs, nil
}
