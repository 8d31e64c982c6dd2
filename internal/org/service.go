package org

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/pkg/logger"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		logger: logger.LoggerWrapper(),
	}
}

// ListTeams returns the public team directory, optionally narrowed to one
// site. Used by the signup screen before any token exists.
func (s *Service) ListTeams(ctx context.Context, site string) ([]TeamView, error) {
	teams, err := s.repo.ListTeams(ctx, site)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list teams", err)
	}
	out := make([]TeamView, 0, len(teams))
	for i := range teams {
		out = append(out, teamView(&teams[i]))
	}
	return out, nil
}

// GetDirectory returns sites plus teams grouped by site for the admin view.
// Every seeded site appears even when it has no teams yet.
func (s *Service) GetDirectory(ctx context.Context) (*Directory, error) {
	sites, err := s.repo.ListSites(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list sites", err)
	}
	teams, err := s.repo.ListTeams(ctx, "")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list teams", err)
	}

	grouped := make(map[string][]TeamView)
	for _, site := range sites {
		grouped[site.Site] = []TeamView{}
	}
	for i := range teams {
		t := &teams[i]
		grouped[t.Site] = append(grouped[t.Site], TeamView{
			ID:      t.ID,
			Team:    t.Team,
			Details: t.DetailsList(),
		})
	}

	return &Directory{Sites: sites, Teams: grouped}, nil
}

func (s *Service) CreateTeam(ctx context.Context, dto CreateTeamDTO) (*TeamView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	details, err := detailsColumn(dto.Details)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode details", err)
	}

	team := &SiteTeam{
		ID:      uuid.NewString(),
		Site:    dto.Site,
		Team:    dto.Team,
		Details: details,
	}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		s.logger.ErrorContext(ctx, "failed to create team", "error", err)
		return nil, apperrors.NewInternalError("failed to create team", err)
	}

	view := teamView(team)
	return &view, nil
}

func (s *Service) UpdateTeam(ctx context.Context, id string, dto UpdateTeamDTO) (*TeamView, error) {
	if dto.Empty() {
		return nil, apperrors.NewValidationError("empty patch", apperrors.ErrCodeInvalidPayload)
	}

	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return nil, apperrors.NewNotFoundError("team not found", apperrors.ErrCodeEntityNotFound)
		}
		return nil, apperrors.NewInternalError("failed to load team", err)
	}

	if dto.Site != nil {
		team.Site = *dto.Site
	}
	if dto.Team != nil {
		team.Team = *dto.Team
	}
	if dto.Details != nil {
		details, err := detailsColumn(*dto.Details)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to encode details", err)
		}
		team.Details = details
	}

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		return nil, apperrors.NewInternalError("failed to update team", err)
	}

	view := teamView(team)
	return &view, nil
}

// DeleteTeam removes the row. Deleting an unknown id is a no-op, matching
// the directory's idempotent delete semantics.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		return apperrors.NewInternalError("failed to delete team", err)
	}
	return nil
}

// ValidateTeam reports whether (site, team, teamDetail) names a real slot in
// the directory. Teams without details accept any registration regardless of
// teamDetail being absent; teams with details require a matching one.
func (s *Service) ValidateTeam(ctx context.Context, site, team string, teamDetail *string) (bool, error) {
	rows, err := s.repo.FindTeams(ctx, site, team)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	details := rows[0].DetailsList()
	if len(details) == 0 {
		return true, nil
	}
	if teamDetail == nil || *teamDetail == "" {
		return false, nil
	}
	for _, d := range details {
		if d == *teamDetail {
			return true, nil
		}
	}
	return false, nil
}
