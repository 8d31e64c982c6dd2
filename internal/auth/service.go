package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/pkg/logger"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByName(ctx context.Context, name string) (*User, error)
}

// OrgDirectory answers whether a site/team/teamDetail combination exists in
// the organization directory.
type OrgDirectory interface {
	ValidateTeam(ctx context.Context, site, team string, teamDetail *string) (bool, error)
}

type Service struct {
	users      UserRepository
	org        OrgDirectory
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, org OrgDirectory, tokens TokenGenerator, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		org:        org,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.LoggerWrapper(),
	}
}

// Register creates a user after checking the site/team pair against the
// organization directory, then issues a token for the new identity.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.org.ValidateTeam(ctx, dto.Site, dto.Team, dto.TeamDetail)
	if err != nil {
		s.logger.ErrorContext(ctx, "org directory lookup failed", "error", err)
		return nil, apperrors.NewInternalError("failed to validate team", err)
	}
	if !ok {
		return nil, apperrors.NewValidationError("invalid team/site combination", apperrors.ErrCodeInvalidOrgTriple)
	}

	user := &User{
		ID:         uuid.NewString(),
		Name:       dto.Name,
		Role:       Role(dto.Role),
		Site:       dto.Site,
		Team:       dto.Team,
		TeamDetail: dto.TeamDetail,
		CreatedAt:  time.Now(),
	}

	if dto.PIN != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.PIN), s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash pin", err)
		}
		user.PINHash = string(hash)
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	token, err := s.tokens.SignToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role, "site", user.Site)

	return &AuthResponse{Token: token, User: user}, nil
}

// Login resolves the user by id or exact name and issues a fresh token.
// Users registered with a PIN must present it.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var (
		user *User
		err  error
	)
	if dto.UserID != "" {
		user, err = s.users.GetByID(ctx, dto.UserID)
	} else {
		user, err = s.users.GetByName(ctx, dto.Name)
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found", apperrors.ErrCodeUserNotFound)
		}
		s.logger.ErrorContext(ctx, "user lookup failed", "error", err)
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}

	if user.PINHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(dto.PIN)); err != nil {
			return nil, apperrors.NewUnauthorizedError("invalid pin", apperrors.ErrCodeInvalidPIN)
		}
	}

	token, err := s.tokens.SignToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// Me returns the stored user for the given id, falling back to the claims
// when the row is gone (tokens outlive reseeded databases in dev).
func (s *Service) Me(ctx context.Context, claims *Claims) (*User, error) {
	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &User{
				ID:         claims.UserID(),
				Name:       claims.Name,
				Role:       claims.Role,
				Site:       claims.Site,
				Team:       claims.Team,
				TeamDetail: claims.TeamDetail,
			}, nil
		}
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}
	return user, nil
}
