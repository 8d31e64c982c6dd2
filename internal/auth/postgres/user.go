package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/familyone/factory-ops/internal/auth"
)

// UserRepository implements the auth.UserRepository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	var user auth.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByName matches on exact name. Names are not unique; the most recently
// registered user wins, matching how the mobile client logs in.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*auth.User, error) {
	var user auth.User
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at DESC").First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
