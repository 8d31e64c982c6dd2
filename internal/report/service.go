package report

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

// BlobDeleter removes uploaded blobs referenced by image urls. Deletion is
// best-effort; the caller never fails a request over a missing file.
type BlobDeleter interface {
	DeleteByURL(url string)
}

type Service struct {
	repo   Repository
	blobs  BlobDeleter
	bus    events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, blobs BlobDeleter, bus events.Publisher) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		bus:    bus,
		logger: logger.LoggerWrapper(),
	}
}

func (s *Service) Create(ctx context.Context, actor *auth.Claims, dto CreateReportDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:         uuid.NewString(),
		Type:       Type(dto.Type),
		Message:    dto.Message,
		Images:     imagesColumn(dto.Images),
		Status:     StatusNew,
		CreatedBy:  actor.UserID(),
		Site:       actor.Site,
		Team:       actor.Team,
		TeamDetail: actor.TeamDetail,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, report); err != nil {
		s.logger.ErrorContext(ctx, "failed to create report", "error", err)
		return nil, apperrors.NewInternalError("failed to create report", err)
	}

	s.bus.Publish(ctx, events.NewDomainEvent(events.ReportNew, report))

	return report, nil
}

func (s *Service) List(ctx context.Context, filter ScopeFilter) ([]*Report, error) {
	reports, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reports", err)
	}
	return reports, nil
}

// Moderate applies a manager/admin patch: status change or image edits.
// Cross-site moderation is refused outright.
func (s *Service) Moderate(ctx context.Context, actor *auth.Claims, id string, op *PatchOp) (*Report, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Site != "" && actor.Site != "" && existing.Site != actor.Site {
		return nil, apperrors.ErrCrossSite
	}

	updated, err := s.apply(ctx, existing, op)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NewDomainEvent(events.ReportUpdated, updated))

	return updated, nil
}

// SelfUpdate applies an owner patch: message change or image edits.
func (s *Service) SelfUpdate(ctx context.Context, actor *auth.Claims, id string, op *PatchOp) (*Report, error) {
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.CreatedBy != actor.UserID() {
		return nil, apperrors.ErrNotOwner
	}

	if op.Message != nil {
		if err := s.repo.UpdateMessage(ctx, id, *op.Message); err != nil {
			return nil, apperrors.NewInternalError("failed to update report", err)
		}
		existing.Message = *op.Message
		return existing, nil
	}

	return s.apply(ctx, existing, op)
}

// Delete removes the report and cascades to its uploaded blobs. Owner,
// manager, or admin only.
func (s *Service) Delete(ctx context.Context, actor *auth.Claims, id string) error {
	existing, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	can := existing.CreatedBy == actor.UserID() ||
		actor.Role == auth.RoleAdmin || actor.Role == auth.RoleManager
	if !can {
		return apperrors.ErrNotOwner
	}

	images := existing.ImageList()

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError("failed to delete report", err)
	}

	for _, url := range images {
		s.blobs.DeleteByURL(url)
	}

	return nil
}

func (s *Service) CreateReply(ctx context.Context, actor *auth.Claims, reportID string, dto CreateReplyDTO) (*ReplyResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	reply := &Reply{
		ID:        uuid.NewString(),
		ReportID:  reportID,
		AuthorID:  actor.UserID(),
		Content:   dto.Content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, apperrors.NewInternalError("failed to create reply", err)
	}

	// replies re-broadcast the report so open detail views refresh
	s.bus.Publish(ctx, events.NewDomainEvent(events.ReportUpdated, existing))

	return &ReplyResponse{Reply: reply, Report: existing}, nil
}

func (s *Service) ListReplies(ctx context.Context, reportID string) ([]*Reply, error) {
	replies, err := s.repo.ListReplies(ctx, reportID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list replies", err)
	}
	return replies, nil
}

func (s *Service) get(ctx context.Context, id string) (*Report, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, apperrors.NewNotFoundError("report not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load report", err)
	}
	return existing, nil
}

// apply handles the image/status arms shared by moderator and owner patches.
func (s *Service) apply(ctx context.Context, existing *Report, op *PatchOp) (*Report, error) {
	switch {
	case op.Status != nil:
		status := Status(*op.Status)
		if err := s.repo.UpdateStatus(ctx, existing.ID, status); err != nil {
			return nil, apperrors.NewInternalError("failed to update report", err)
		}
		existing.Status = status
		return existing, nil

	case len(op.AddImages) > 0:
		images := append(existing.ImageList(), op.AddImages...)
		if err := s.repo.UpdateImages(ctx, existing.ID, imagesColumn(images)); err != nil {
			return nil, apperrors.NewInternalError("failed to update report", err)
		}
		existing.Images = imagesColumn(images)
		return existing, nil

	case len(op.RemoveImages) > 0:
		remove := make(map[string]bool, len(op.RemoveImages))
		for _, url := range op.RemoveImages {
			remove[url] = true
		}
		var kept []string
		for _, url := range existing.ImageList() {
			if !remove[url] {
				kept = append(kept, url)
			}
		}
		if err := s.repo.UpdateImages(ctx, existing.ID, imagesColumn(kept)); err != nil {
			return nil, apperrors.NewInternalError("failed to update report", err)
		}
		existing.Images = imagesColumn(kept)

		for _, url := range op.RemoveImages {
			s.blobs.DeleteByURL(url)
		}
		return existing, nil
	}

	return nil, apperrors.NewValidationError("Invalid payload", apperrors.ErrCodeInvalidPayload)
}
