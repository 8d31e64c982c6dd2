package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/org"
)

// OrgRepository implements the org.Repository interface using GORM
type OrgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) org.Repository {
	return &OrgRepository{db: db}
}

func (r *OrgRepository) ListSites(ctx context.Context) ([]org.Site, error) {
	var sites []org.Site
	err := r.db.WithContext(ctx).Order("site ASC").Find(&sites).Error
	return sites, err
}

func (r *OrgRepository) ListTeams(ctx context.Context, site string) ([]org.SiteTeam, error) {
	var teams []org.SiteTeam
	q := r.db.WithContext(ctx).Order("site ASC, team ASC")
	if site != "" {
		q = q.Where("site = ?", site)
	}
	err := q.Find(&teams).Error
	return teams, err
}

func (r *OrgRepository) GetTeam(ctx context.Context, id string) (*org.SiteTeam, error) {
	var team org.SiteTeam
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, org.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *OrgRepository) FindTeams(ctx context.Context, site, team string) ([]org.SiteTeam, error) {
	var teams []org.SiteTeam
	err := r.db.WithContext(ctx).Where("site = ? AND team = ?", site, team).Find(&teams).Error
	return teams, err
}

func (r *OrgRepository) CreateTeam(ctx context.Context, t *org.SiteTeam) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *OrgRepository) UpdateTeam(ctx context.Context, t *org.SiteTeam) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *OrgRepository) DeleteTeam(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&org.SiteTeam{}).Error
}
