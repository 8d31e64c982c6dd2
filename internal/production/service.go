package production

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type CreateProductionDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (d CreateProductionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().DateYMD()
	v.Field("name", d.Name).Required().MinLength(1)

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

// Today lists the runs scheduled for the current date.
func (s *Service) Today(ctx context.Context) ([]*Production, error) {
	return s.ByDate(ctx, time.Now().Format("2006-01-02"))
}

func (s *Service) ByDate(ctx context.Context, date string) ([]*Production, error) {
	prods, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list productions", err)
	}
	return prods, nil
}

func (s *Service) Create(ctx context.Context, dto CreateProductionDTO) (*Production, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	prod := &Production{
		ID:   uuid.NewString(),
		Date: dto.Date,
		Name: dto.Name,
	}
	if err := s.repo.Create(ctx, prod); err != nil {
		return nil, apperrors.NewInternalError("failed to create production", err)
	}
	return prod, nil
}
