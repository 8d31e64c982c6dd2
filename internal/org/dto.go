package org

import (
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

// TeamView is the wire shape for a site_teams row.
type TeamView struct {
	ID      string   `json:"id"`
	Site    string   `json:"site,omitempty"`
	Team    string   `json:"team"`
	Details []string `json:"details"`
}

func teamView(t *SiteTeam) TeamView {
	return TeamView{
		ID:      t.ID,
		Site:    t.Site,
		Team:    t.Team,
		Details: t.DetailsList(),
	}
}

// Directory groups teams by site for the admin console.
type Directory struct {
	Sites []Site                `json:"sites"`
	Teams map[string][]TeamView `json:"teams"`
}

type CreateTeamDTO struct {
	Site    string   `json:"site"`
	Team    string   `json:"team"`
	Details []string `json:"details,omitempty"`
}

func (d CreateTeamDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("site", d.Site).Required()
	v.Field("team", d.Team).Required().MinLength(1)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateTeamDTO is a partial patch; at least one field must be present.
type UpdateTeamDTO struct {
	Site    *string   `json:"site,omitempty"`
	Team    *string   `json:"team,omitempty"`
	Details *[]string `json:"details,omitempty"`
}

func (d UpdateTeamDTO) Empty() bool {
	return d.Site == nil && d.Team == nil && d.Details == nil
}
