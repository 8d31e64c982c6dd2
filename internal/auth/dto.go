package auth

import (
	"github.com/familyone/factory-ops/internal/core/common/validation"
)

type RegisterDTO struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Site       string  `json:"site"`
	Team       string  `json:"team"`
	TeamDetail *string `json:"teamDetail,omitempty"`
	PIN        string  `json:"pin,omitempty"`
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("role", d.Role).Required().OneOf(string(RoleWorker), string(RoleManager), string(RoleAdmin))
	v.Field("site", d.Site).Required()
	v.Field("team", d.Team).Required()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// LoginDTO identifies the user either by id or by exact name.
type LoginDTO struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
	PIN    string `json:"pin,omitempty"`
}

func (d LoginDTO) Validate() error {
	if d.UserID == "" && d.Name == "" {
		v := validation.NewValidator()
		v.Field("userId", d.UserID).Required()
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
