package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coronelbarros/storefront/pkg/config"
	"github.com/coronelbarros/storefront/pkg/db"
	"github.com/coronelbarros/storefront/pkg/db/models"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
	"github.com/coronelbarros/storefront/pkg/security"
	"gorm.io/gorm"
)

// CreateRequest is an admin-created account with an explicit role.
type CreateRequest struct {
	Name     string     `json:"name" validate:"required,max=120"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8,max=128"`
	Phone    *string    `json:"phone,omitempty" validate:"omitempty,max=20"`
	Role     enums.Role `json:"role"`
}

// Service is the admin user directory. actorID is the signed-in admin; it is
// used to stop an admin from demoting or deleting themselves.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Create(ctx context.Context, req CreateRequest) (*UserDTO, error)
	SetRole(ctx context.Context, actorID, id string, role enums.Role) (*UserDTO, error)
	Delete(ctx context.Context, actorID, id string) error
	Count(ctx context.Context) (int, error)
}

type profileStore interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	UpdateRole(ctx context.Context, id string, role enums.Role) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role enums.Role) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	profiles    profileStore
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService wires the admin directory. logg may be nil.
func NewService(profiles profileStore, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{profiles: profiles, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.profiles.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	role := req.Role
	if role == enums.RoleNone {
		role = enums.RoleUser
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"role": "must be user or admin"})
	}

	if _, err := s.profiles.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}
	var phone *string
	if req.Phone != nil {
		if p := strings.TrimSpace(*req.Phone); p != "" {
			phone = &p
		}
	}

	profile, err := s.profiles.Create(ctx, CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        phone,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithUserID(ctx, profile.ID), map[string]any{"role": role.String()}), "user created by admin")
	return FromModel(profile), nil
}

func (s *service) SetRole(ctx context.Context, actorID, id string, role enums.Role) (*UserDTO, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").
			WithDetails(map[string]any{"role": "must be user or admin"})
	}
	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Role == role {
		return FromModel(profile), nil
	}
	if profile.Role == enums.RoleAdmin {
		if err := s.guardAdminRemoval(ctx, actorID, profile.ID, "demote"); err != nil {
			return nil, err
		}
	}

	if err := s.profiles.UpdateRole(ctx, profile.ID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	profile.Role = role
	s.logg.Info(s.logg.WithFields(s.logg.WithUserID(ctx, profile.ID), map[string]any{"role": role.String()}), "user role changed")
	return FromModel(profile), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	profile, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if profile.ID == actorID {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot delete your own account")
	}
	if profile.Role == enums.RoleAdmin {
		if err := s.guardAdminRemoval(ctx, actorID, profile.ID, "delete"); err != nil {
			return err
		}
	}
	if err := s.profiles.Delete(ctx, profile.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUserNotFound()
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	s.logg.Info(s.logg.WithUserID(ctx, profile.ID), "user deleted by admin")
	return nil
}

func (s *service) Count(ctx context.Context) (int, error) {
	n, err := s.profiles.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	return int(n), nil
}

func (s *service) load(ctx context.Context, id string) (*models.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return profile, nil
}

// guardAdminRemoval keeps at least one admin and stops self-demotion.
func (s *service) guardAdminRemoval(ctx context.Context, actorID, targetID, action string) error {
	if targetID == actorID {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot "+action+" your own admin account")
	}
	admins, err := s.profiles.CountByRole(ctx, enums.RoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
	}
	if admins <= 1 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "at least one admin must remain")
	}
	return nil
}

func errUserNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}
