package entity

import "time"

// Roles de usuarios staff.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User representa un usuario staff que opera la facturación manual.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string // admin | staff
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
