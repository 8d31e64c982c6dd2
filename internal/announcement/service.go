package announcement

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
	repo      Repository
	directory Directory
	bus       events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, directory Directory, bus events.Publisher) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		bus:       bus,
		logger:    logger.LoggerWrapper(),
	}
}

// Create publishes an announcement scoped to the creator's site and team.
func (s *Service) Create(ctx context.Context, actor *auth.Claims, dto CreateAnnouncementDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ann := &Announcement{
		ID:            uuid.NewString(),
		Title:         dto.Title,
		Body:          dto.Body,
		MustRead:      dto.MustRead,
		AttachmentURL: dto.AttachmentURL,
		ReadBy:        readByColumn(nil),
		CreatedBy:     dto.CreatedBy,
		Site:          actor.Site,
		Team:          actor.Team,
		TeamDetail:    actor.TeamDetail,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, ann); err != nil {
		s.logger.ErrorContext(ctx, "failed to create announcement", "error", err)
		return nil, apperrors.NewInternalError("failed to create announcement", err)
	}

	s.bus.Publish(ctx, events.NewDomainEvent(events.AnnouncementNew, ann))

	return ann, nil
}

func (s *Service) List(ctx context.Context, filter ScopeFilter) ([]*Announcement, error) {
	anns, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list announcements", err)
	}
	return anns, nil
}

// MarkRead adds the user to readBy. Marking an already-read announcement
// returns it unchanged.
func (s *Service) MarkRead(ctx context.Context, id string, dto MarkReadDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ann, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	readBy := ann.ReadByList()
	for _, uid := range readBy {
		if uid == dto.UserID {
			return ann, nil
		}
	}

	readBy = append(readBy, dto.UserID)
	column := readByColumn(readBy)
	if err := s.repo.UpdateReadBy(ctx, id, column); err != nil {
		return nil, apperrors.NewInternalError("failed to update announcement", err)
	}
	ann.ReadBy = column

	s.bus.Publish(ctx, events.NewDomainEvent(events.AnnouncementRead, ann))

	return ann, nil
}

// UnreadUsers computes the must-read roster at query time: the audience is
// the team when the announcement has site+team, the whole site when only
// site is set, and everyone otherwise; readers are then subtracted.
func (s *Service) UnreadUsers(ctx context.Context, id string) ([]UserRef, error) {
	ann, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	site, team := "", ""
	switch {
	case ann.Site != "" && ann.Team != "":
		site, team = ann.Site, ann.Team
	case ann.Site != "":
		site = ann.Site
	}

	audience, err := s.directory.ListUsers(ctx, site, team)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list audience", err)
	}

	read := make(map[string]bool)
	for _, uid := range ann.ReadByList() {
		read[uid] = true
	}

	unread := make([]UserRef, 0)
	for _, user := range audience {
		if !read[user.ID] {
			unread = append(unread, user)
		}
	}
	return unread, nil
}

func (s *Service) get(ctx context.Context, id string) (*Announcement, error) {
	ann, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAnnouncementNotFound) {
			return nil, apperrors.NewNotFoundError("announcement not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load announcement", err)
	}
	return ann, nil
}
