package models

import "time"

// UserRole represents the available roles. A regular admin is scoped to
// exactly one barangay via AssignedBarangayID; a master admin is not.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleMasterAdmin UserRole = "master_admin"
)

// User represents an application user stored in the users table.
type User struct {
	ID                 string     `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	Name               string     `db:"name" json:"name"`
	Role               UserRole   `db:"role" json:"role"`
	AssignedBarangayID *string    `db:"assigned_barangay_id" json:"assigned_barangay_id,omitempty"`
	Active             bool       `db:"active" json:"active"`
	LastLogin          *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}
