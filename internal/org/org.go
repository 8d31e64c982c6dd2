package org

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
)

// Site is the site directory row. Seeded, not user-editable.
type Site struct {
	Site string `json:"site" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (Site) TableName() string {
	return "sites"
}

// SiteTeam maps a team (optionally with sub-team details) to a site.
// Registration triples are validated against these rows.
type SiteTeam struct {
	ID      string         `json:"id" gorm:"primaryKey"`
	Site    string         `json:"site" gorm:"index;not null"`
	Team    string         `json:"team" gorm:"not null"`
	Details datatypes.JSON `json:"-" gorm:"column:details_json"`
}

func (SiteTeam) TableName() string {
	return "site_teams"
}

// DetailsList decodes the details column; a null or empty column means the
// team has no sub-teams.
func (t *SiteTeam) DetailsList() []string {
	if len(t.Details) == 0 {
		return []string{}
	}
	var details []string
	if err := json.Unmarshal(t.Details, &details); err != nil {
		return []string{}
	}
	return details
}

func detailsColumn(details []string) (datatypes.JSON, error) {
	if details == nil {
		details = []string{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

var ErrTeamNotFound = errors.New("team not found")

type Repository interface {
	ListSites(ctx context.Context) ([]Site, error)
	ListTeams(ctx context.Context, site string) ([]SiteTeam, error)
	GetTeam(ctx context.Context, id string) (*SiteTeam, error)
	FindTeams(ctx context.Context, site, team string) ([]SiteTeam, error)
	CreateTeam(ctx context.Context, t *SiteTeam) error
	UpdateTeam(ctx context.Context, t *SiteTeam) error
	DeleteTeam(ctx context.Context, id string) error
}
