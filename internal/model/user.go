package model

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// CanReview reports whether the role may approve or reject goals.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleManager
}

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      Role      `db:"role" json:"role"`
	ManagerID *string   `db:"manager_id" json:"managerId,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Actor is the authenticated caller of an API request.
type Actor struct {
	UserID string
	Role   Role
}
