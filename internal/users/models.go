package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/permissions"
)

// User is an administrator account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	Email        string           `bun:"email,notnull,unique" json:"email"`
	Name         string           `bun:"name" json:"name"`
	Role         permissions.Role `bun:"role,notnull" json:"role"`
	PasswordHash string           `bun:"password_hash,notnull" json:"-"`
	Active       bool             `bun:"active,notnull,default:true" json:"active"`
	LastLoginAt  *time.Time       `bun:"last_login_at,nullzero" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}
