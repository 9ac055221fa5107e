package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the privilege level attached to a user account.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

// NormalizeRole lowercases a role string. Roles are compared
// case-insensitively everywhere.
func NormalizeRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// ValidRole reports whether s names one of the known roles, ignoring case.
func ValidRole(s string) bool {
	switch NormalizeRole(s) {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// User is an administrative account for the blog panel.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username  string     `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Password  string     `json:"-" db:"password" gorm:"type:text;not null"`
	Role      Role       `json:"role" db:"role" gorm:"type:text;not null;default:'user'"`
	Email     *string    `json:"email,omitempty" db:"email" gorm:"type:text;uniqueIndex:idx_users_email,where:email IS NOT NULL"`
	IsActive  bool       `json:"isActive" db:"is_active" gorm:"not null;default:true"`
	LastLogin *time.Time `json:"lastLogin,omitempty" db:"last_login" gorm:"type:timestamp"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// Profile is the user representation safe to return to clients. The
// password digest never leaves the database layer.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email,omitempty"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Profile strips the password digest from a user record.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
