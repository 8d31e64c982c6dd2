package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List is role-scoped: admins see everything (optionally narrowed by team),
// managers see their own team, workers see only their own shifts.
func (s *Service) List(ctx context.Context, actor *auth.Claims, teamFilter string) ([]*Shift, error) {
	var filter Filter
	switch actor.Role {
	case auth.RoleAdmin:
		filter.Team = teamFilter
	case auth.RoleManager:
		filter.Team = actor.Team
	default:
		filter.UserID = actor.UserID()
	}

	shifts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list shifts", err)
	}
	return shifts, nil
}

func (s *Service) Create(ctx context.Context, dto CreateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	shift := &Shift{
		ID:     uuid.NewString(),
		Date:   dto.Date,
		UserID: dto.UserID,
		Shift:  dto.Shift,
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, apperrors.NewInternalError("failed to create shift", err)
	}
	return shift, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateShiftDTO) (*Shift, error) {
	if dto.Empty() {
		return nil, apperrors.NewValidationError("empty patch", apperrors.ErrCodeInvalidPayload)
	}

	shift, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, apperrors.NewNotFoundError("shift not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load shift", err)
	}

	if dto.Date != nil {
		shift.Date = *dto.Date
	}
	if dto.UserID != nil {
		shift.UserID = *dto.UserID
	}
	if dto.Shift != nil {
		shift.Shift = *dto.Shift
	}

	if err := s.repo.Update(ctx, shift); err != nil {
		return nil, apperrors.NewInternalError("failed to update shift", err)
	}
	return shift, nil
}

// Delete removes the shift. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError("failed to delete shift", err)
	}
	return nil
}
