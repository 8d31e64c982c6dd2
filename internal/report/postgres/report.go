package postgres

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/report"
)

// ReportRepository implements the report.Repository interface using GORM
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) List(ctx context.Context, filter report.ScopeFilter) ([]*report.Report, error) {
	var reports []*report.Report
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
	err := q.Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status report.Status) error {
	return r.db.WithContext(ctx).Model(&report.Report{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ReportRepository) UpdateMessage(ctx context.Context, id string, message string) error {
	return r.db.WithContext(ctx).Model(&report.Report{}).
		Where("id = ?", id).
		Update("message", message).Error
}

func (r *ReportRepository) UpdateImages(ctx context.Context, id string, images datatypes.JSON) error {
	return r.db.WithContext(ctx).Model(&report.Report{}).
		Where("id = ?", id).
		Update("images_json", images).Error
}

// Delete removes the report and its replies in one transaction.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&report.Reply{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&report.Report{}).Error
	})
}

// ListImageURLs returns every image url referenced by any report. The
// sweeper uses this to decide which uploaded blobs are still live.
func (r *ReportRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	var reports []*report.Report
	if err := r.db.WithContext(ctx).Select("images_json").Find(&reports).Error; err != nil {
		return nil, err
	}
	var urls []string
	for _, rep := range reports {
		urls = append(urls, rep.ImageList()...)
	}
	return urls, nil
}

func (r *ReportRepository) CreateReply(ctx context.Context, reply *report.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *ReportRepository) ListReplies(ctx context.Context, reportID string) ([]*report.Reply, error) {
	var replies []*report.Reply
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}
