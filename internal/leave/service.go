package leave

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
	names  UserNames
	bus    events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, names UserNames, bus events.Publisher) *Service {
	return &Service{
		repo:   repo,
		names:  names,
		bus:    bus,
		logger: logger.LoggerWrapper(),
	}
}

func (s *Service) Create(ctx context.Context, dto CreateLeaveDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := &Request{
		ID:        uuid.NewString(),
		UserID:    dto.UserID,
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
		Reason:    dto.Reason,
		Signature: dto.Signature,
		State:     StatePending,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "failed to create leave request", "error", err)
		return nil, apperrors.NewInternalError("failed to create leave request", err)
	}

	s.bus.Publish(ctx, events.NewDomainEvent(events.LeaveNew, req))

	return req, nil
}

// List returns leave requests, newest first, optionally filtered to one
// user, with user names resolved for the roster view.
func (s *Service) List(ctx context.Context, userID string) ([]*RequestView, error) {
	reqs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list leave requests", err)
	}

	views := make([]*RequestView, 0, len(reqs))
	for _, req := range reqs {
		views = append(views, &RequestView{
			Request:  req,
			UserName: s.names.NameOf(ctx, req.UserID),
		})
	}
	return views, nil
}

func (s *Service) Approve(ctx context.Context, id string, dto DecideLeaveDTO) (*Request, error) {
	return s.decide(ctx, id, StateApproved, dto)
}

func (s *Service) Reject(ctx context.Context, id string, dto DecideLeaveDTO) (*Request, error) {
	return s.decide(ctx, id, StateRejected, dto)
}

func (s *Service) decide(ctx context.Context, id string, state State, dto DecideLeaveDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.State != StatePending {
		return nil, apperrors.NewConflictError("leave request already decided", apperrors.ErrCodeAlreadyDecided)
	}

	var rejection *string
	if state == StateRejected {
		rejection = dto.RejectionReason
	}

	now := time.Now()
	if err := s.repo.SetState(ctx, id, state, dto.ReviewerID, now, rejection); err != nil {
		return nil, apperrors.NewInternalError("failed to update leave request", err)
	}

	req.State = state
	req.ReviewerID = &dto.ReviewerID
	req.ReviewedAt = &now
	req.RejectionReason = rejection

	eventType := events.LeaveApproved
	if state == StateRejected {
		eventType = events.LeaveRejected
	}
	s.bus.Publish(ctx, events.NewDomainEvent(eventType, req))

	return req, nil
}

// Delete removes a pending or rejected leave. Only the owner may delete,
// and approved leaves must go through the cancel-request flow instead.
func (s *Service) Delete(ctx context.Context, actor *auth.Claims, id string) error {
	req, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if req.UserID != actor.UserID() {
		return apperrors.ErrNotOwner
	}
	if req.State == StateApproved {
		return apperrors.NewConflictError("Approved leave cannot be directly deleted", apperrors.ErrCodeApprovedLeave)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError("failed to delete leave request", err)
	}
	return nil
}

// RequestCancel marks an approved leave as cancel-requested. The owner is
// the only one who can ask, and only an approved leave qualifies.
func (s *Service) RequestCancel(ctx context.Context, actor *auth.Claims, id string, dto CancelRequestDTO) (*Request, error) {
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != actor.UserID() {
		return nil, apperrors.ErrNotOwner
	}
	if req.State != StateApproved || req.CancelState != nil {
		return nil, apperrors.NewConflictError("Not allowed", apperrors.ErrCodeCancelNotAllowed)
	}

	if err := s.repo.SetCancelRequested(ctx, id, dto.Reason); err != nil {
		return nil, apperrors.NewInternalError("failed to update leave request", err)
	}

	requested := CancelRequested
	req.CancelState = &requested
	req.CancelReason = dto.Reason

	return req, nil
}

// Summary computes the leave balance for one user and year. Approved leaves
// are clipped to the year before counting, so a leave spanning New Year
// charges each year only for its own days. A missing allocation reads as a
// zero budget, not an error.
func (s *Service) Summary(ctx context.Context, userID string, year int) (*Summary, error) {
	totalDays := 0
	alloc, err := s.repo.GetAllocation(ctx, userID, year)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load allocation", err)
	}
	if alloc != nil {
		totalDays = alloc.TotalDays
	}

	approved, err := s.repo.ListApprovedByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list approved leaves", err)
	}

	usedDays := 0
	for _, req := range approved {
		usedDays += dayCount(req.StartDate, req.EndDate, year)
	}

	remaining := totalDays - usedDays
	if remaining < 0 {
		remaining = 0
	}

	return &Summary{
		Year:          year,
		UserID:        userID,
		TotalDays:     totalDays,
		UsedDays:      usedDays,
		RemainingDays: remaining,
	}, nil
}

func (s *Service) UpsertAllocation(ctx context.Context, dto AllocationDTO) (*Allocation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	alloc := &Allocation{
		UserID:    dto.UserID,
		Year:      dto.Year,
		TotalDays: dto.TotalDays,
	}
	if err := s.repo.UpsertAllocation(ctx, alloc); err != nil {
		return nil, apperrors.NewInternalError("failed to upsert allocation", err)
	}
	return alloc, nil
}

func (s *Service) ListAllocations(ctx context.Context, year int) ([]*Allocation, error) {
	allocs, err := s.repo.ListAllocations(ctx, year)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list allocations", err)
	}
	return allocs, nil
}

func (s *Service) get(ctx context.Context, id string) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrLeaveNotFound) {
			return nil, apperrors.NewNotFoundError("leave request not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load leave request", err)
	}
	return req, nil
}
