package request

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/core/events"
	"github.com/familyone/factory-ops/pkg/logger"
)

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

func (s *Service) Create(ctx context.Context, actor *auth.Claims, dto CreateRequestDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item := &Item{
		ID:         uuid.NewString(),
		Kind:       Kind(dto.Kind),
		Details:    dto.Details,
		State:      StatePending,
		CreatedBy:  actor.UserID(),
		Site:       actor.Site,
		Team:       actor.Team,
		TeamDetail: actor.TeamDetail,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to create request", "error", err)
		return nil, apperrors.NewInternalError("failed to create request", err)
	}

	s.bus.Publish(ctx, events.NewDomainEvent(events.RequestNew, item))

	return item, nil
}

func (s *Service) List(ctx context.Context, filter ScopeFilter) ([]*Item, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list requests", err)
	}
	return items, nil
}

func (s *Service) Approve(ctx context.Context, actor *auth.Claims, id string, dto DecideDTO) (*Item, error) {
	return s.decide(ctx, actor, id, StateApproved, dto)
}

func (s *Service) Reject(ctx context.Context, actor *auth.Claims, id string, dto DecideDTO) (*Item, error) {
	return s.decide(ctx, actor, id, StateRejected, dto)
}

// decide records the one allowed state transition. A request that already
// carries a decision answers 409 no matter what the new decision is.
func (s *Service) decide(ctx context.Context, actor *auth.Claims, id string, state State, dto DecideDTO) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return nil, apperrors.NewNotFoundError("request not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load request", err)
	}

	if item.Site != "" && actor.Site != "" && item.Site != actor.Site {
		return nil, apperrors.ErrCrossSite
	}

	if item.State != StatePending {
		return nil, apperrors.NewConflictError("request already decided", apperrors.ErrCodeAlreadyDecided)
	}

	now := time.Now()
	if err := s.repo.SetState(ctx, id, state, dto.ReviewerID, now); err != nil {
		return nil, apperrors.NewInternalError("failed to update request", err)
	}

	item.State = state
	item.ReviewerID = &dto.ReviewerID
	item.ReviewedAt = &now

	eventType := events.RequestApproved
	if state == StateRejected {
		eventType = events.RequestRejected
	}
	s.bus.Publish(ctx, events.NewDomainEvent(eventType, item))

	return item, nil
}
