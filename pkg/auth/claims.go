package auth

import (
	"github.com/coronelbarros/storefront/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Email  string
	Name   string
	Role   enums.Role
	// JTI doubles as the refresh-session key. Empty means generate one.
	JTI string
}

// AccessTokenClaims is the typed JWT issued to signed-in shoppers and admins.
type AccessTokenClaims struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Name   string     `json:"name,omitempty"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}
