package users

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface this package needs
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated account
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
	Active() bool
}

// TokenPair bundles the two tokens issued at login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService issues and verifies the stateless token pair
type TokenService interface {
	IssuePair(identity Identity) (TokenPair, error)
	Validate(tokenString string) (AuthClaims, error)
	Refresh(refreshToken string) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
}

// Accounts orchestrates registration, login, and profile operations
type Accounts interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	GetProfile(ctx context.Context, id string, requester Requester) (*User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput, requester Requester) (*User, error)
}

// Requester identifies the authenticated caller of a protected operation
type Requester struct {
	UserID string
	Role   string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] USERS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] USERS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] USERS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] USERS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
