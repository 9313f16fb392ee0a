package users

import (
	"time"

	"github.com/coronelbarros/storefront/pkg/db/models"
	"github.com/coronelbarros/storefront/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateUserDTO holds what the repository needs to persist a profile.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Role         enums.Role
}

func FromModel(p *models.Profile) *UserDTO {
	if p == nil {
		return nil
	}
	return &UserDTO{
		ID:          p.ID,
		Email:       p.Email,
		Name:        p.Name,
		Phone:       p.Phone,
		Role:        p.Role,
		IsActive:    p.IsActive,
		LastLoginAt: p.LastLoginAt,
		CreatedAt:   p.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.Profile {
	role := c.Role
	if !role.IsValid() {
		role = enums.RoleUser
	}
	return &models.Profile{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Phone:        c.Phone,
		Role:         role,
		IsActive:     true,
	}
}
