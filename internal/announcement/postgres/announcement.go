package postgres

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/announcement"
)

// AnnouncementRepository implements the announcement.Repository interface using GORM
type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) announcement.Repository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, ann *announcement.Announcement) error {
	return r.db.WithContext(ctx).Create(ann).Error
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*announcement.Announcement, error) {
	var ann announcement.Announcement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ann).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, announcement.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &ann, nil
}

func (r *AnnouncementRepository) List(ctx context.Context, filter announcement.ScopeFilter) ([]*announcement.Announcement, error) {
	var anns []*announcement.Announcement
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Site != "" {
		q = q.Where("site = ?", filter.Site)
	}
	if filter.Team != "" {
		q = q.Where("team = ?", filter.Team)
	}
	if filter.TeamDetail != "" {
		q = q.Where("team_detail = ?", filter.TeamDetail)
	}
	err := q.Find(&anns).Error
	return anns, err
}

func (r *AnnouncementRepository) UpdateReadBy(ctx context.Context, id string, readBy datatypes.JSON) error {
	return r.db.WithContext(ctx).Model(&announcement.Announcement{}).
		Where("id = ?", id).
		Update("read_by_json", readBy).Error
}

// ListBlobURLs returns every attachment url. The sweeper uses this to keep
// referenced uploads alive.
func (r *AnnouncementRepository) ListBlobURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Model(&announcement.Announcement{}).
		Where("attachment_url IS NOT NULL").
		Pluck("attachment_url", &urls).Error
	return urls, err
}

// UserDirectory lists users for the unread roster straight off the users
// table; site/team empty means no constraint.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) announcement.Directory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) ListUsers(ctx context.Context, site, team string) ([]announcement.UserRef, error) {
	var users []announcement.UserRef
	q := d.db.WithContext(ctx).Table("users").Select("id, name")
	if site != "" {
		q = q.Where("site = ?", site)
	}
	if team != "" {
		q = q.Where("team = ?", team)
	}
	err := q.Order("name ASC").Scan(&users).Error
	return users, err
}
