package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAuditor  UserRole = "auditor"
	RoleGestor   UserRole = "gestor"
	RoleOperador UserRole = "operador"
)

func IsValidRole(role UserRole) bool {
	switch role {
	case RoleAdmin, RoleAuditor, RoleGestor, RoleOperador:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
