package users

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenUse discriminates the two token kinds a pair carries
type TokenUse = string

const (
	// TokenUseAccess marks short-lived bearer tokens
	TokenUseAccess TokenUse = "access"
	// TokenUseRefresh marks the longer-lived tokens used only to mint
	// new access tokens
	TokenUseRefresh TokenUse = "refresh"
)

// AuthClaims represents structured JWT claims shared with the middleware
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	Use() TokenUse
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string   `json:"uid,omitempty"`
	UserRole string   `json:"role,omitempty"`
	TokenUse TokenUse `json:"use,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the account role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Use returns the token use claim; tokens minted before the claim existed
// count as access tokens
func (c *JWTClaims) Use() TokenUse {
	if c.TokenUse == "" {
		return TokenUseAccess
	}
	return c.TokenUse
}

// HasRole checks if the user has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	return RoleIsAtLeast(UserRole(c.UserRole), UserRole(minRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
