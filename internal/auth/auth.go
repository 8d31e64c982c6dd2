package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record. Role and scope are fixed at registration;
// there is no update endpoint.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null;index"`
	Role       Role      `json:"role" gorm:"not null"`
	Site       string    `json:"site"`
	Team       string    `json:"team"`
	TeamDetail *string   `json:"teamDetail,omitempty"`
	PINHash    string    `json:"-" gorm:"column:pin_hash"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// Claims carries the caller's identity and scope so handlers can authorize
// without a user lookup on every request.
type Claims struct {
	Role       Role    `json:"role"`
	Name       string  `json:"name"`
	Site       string  `json:"site,omitempty"`
	Team       string  `json:"team,omitempty"`
	TeamDetail *string `json:"teamDetail,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

type TokenGenerator interface {
	SignToken(user *User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) SignToken(user *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:       user.Role,
		Name:       user.Name,
		Site:       user.Site,
		Team:       user.Team,
		TeamDetail: user.TeamDetail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidPIN   = errors.New("invalid pin")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidOrg   = errors.New("invalid team/site combination")
)

type ctxKey string

const ContextClaimsKey ctxKey = "claims"

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ContextClaimsKey).(*Claims)
	return c, ok
}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ContextClaimsKey, claims)
}
