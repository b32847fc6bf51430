package models

import "time"

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleEmployee UserRole = "employee"
)

func (r UserRole) Valid() bool {
	return r == UserRoleAdmin || r == UserRoleEmployee
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PasswordHash   []byte     `json:"-"`
	Role           UserRole   `json:"role"`
	Status         UserStatus `json:"status"`
	DefaultProject *string    `json:"default_project"`
	DefaultTask    *string    `json:"default_task"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UserPatch carries the optional fields of an employee update. Nil fields are left untouched.
type UserPatch struct {
	Name           *string
	Email          *string
	PasswordHash   []byte
	Role           *UserRole
	Status         *UserStatus
	DefaultProject *string
	DefaultTask    *string
}
