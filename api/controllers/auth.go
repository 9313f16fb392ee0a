package controllers

import (
	"net/http"

	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/api/validators"
	"github.com/coronelbarros/storefront/internal/auth"
	"github.com/coronelbarros/storefront/internal/identity"
	"github.com/coronelbarros/storefront/internal/users"
	"github.com/coronelbarros/storefront/pkg/enums"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
)

// meResponse answers "who am I"; anonymous callers get role none and no user.
type meResponse struct {
	Authenticated bool           `json:"authenticated"`
	Role          enums.Role     `json:"role"`
	IsAdmin       bool           `json:"is_admin"`
	User          *users.UserDTO `json:"user,omitempty"`
}

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tokens, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tokens)
	}
}

func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tokens, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tokens)
	}
}

func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RefreshRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tokens, err := svc.Refresh(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tokens)
	}
}

// AuthLogout revokes the refresh session behind the presented access token.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identity.CurrentUser(r.Context())
		if id == nil || id.SessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
			return
		}
		if err := svc.Logout(r.Context(), id.SessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identity.CurrentUser(r.Context())
		if id == nil {
			responses.WriteSuccess(w, meResponse{Role: enums.RoleNone})
			return
		}
		user, err := svc.Me(r.Context(), id.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, meResponse{
			Authenticated: true,
			Role:          id.Role,
			IsAdmin:       id.IsAdmin(),
			User:          user,
		})
	}
}

// AccountProfile serves the signed-in area. The gate has already rejected
// anonymous callers.
func AccountProfile(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := identity.CurrentUser(r.Context())
		if id == nil {
			responses.WriteError(r.Context(), logg, w, identity.RequireLogin.Err())
			return
		}
		user, err := svc.Me(r.Context(), id.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
