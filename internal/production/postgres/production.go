package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/production"
)

// ProductionRepository implements the production.Repository interface using GORM
type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) production.Repository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) ListByDate(ctx context.Context, date string) ([]*production.Production, error) {
	var prods []*production.Production
	err := r.db.WithContext(ctx).Where("date = ?", date).Find(&prods).Error
	return prods, err
}

func (r *ProductionRepository) Create(ctx context.Context, prod *production.Production) error {
	return r.db.WithContext(ctx).Create(prod).Error
}
