package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role assigned at registration
	RoleUser UserRole = "user"
	// RoleAdmin is an administrative role
	RoleAdmin UserRole = "admin"
)

// User is the account model. PasswordHash is excluded from JSON so no
// outward-facing view can leak it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull" json:"username,omitempty"`
	FirstName     string     `bun:"first_name" json:"first_name,omitempty"`
	LastName      string     `bun:"last_name" json:"last_name,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	Avatar        string     `bun:"avatar" json:"avatar,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	IsActive      bool       `bun:"is_active" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// GetID returns the record id
func (u *User) GetID() uuid.UUID {
	if u == nil {
		return uuid.Nil
	}
	return u.ID
}

// CanLogin reports whether the account holds a credential it can
// authenticate with
func (u *User) CanLogin() bool {
	return u != nil && u.IsActive && u.PasswordHash != ""
}

// Touch refreshes the UpdatedAt timestamp
func (u *User) Touch() *User {
	now := time.Now()
	u.UpdatedAt = &now
	return u
}

// Identity adapts the record to the Identity interface
func (u *User) Identity() Identity {
	return accountIdentity{
		id:       u.ID.String(),
		email:    u.Email,
		username: u.Username,
		role:     string(u.Role),
		active:   u.IsActive,
	}
}

type accountIdentity struct {
	id       string
	username string
	email    string
	role     string
	active   bool
}

func (a accountIdentity) ID() string       { return a.id }
func (a accountIdentity) Username() string { return a.username }
func (a accountIdentity) Email() string    { return a.email }
func (a accountIdentity) Role() string     { return a.role }
func (a accountIdentity) Active() bool     { return a.active }

var _ Identity = accountIdentity{}
