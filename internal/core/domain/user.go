package domain

import (
	"strings"
	"time"
)

// Role is the fixed permission class assigned to a user.
type Role string

const (
	RoleCEO          Role = "CEO"
	RoleMarketer     Role = "Marketer"
	RoleSalesManager Role = "Sales Manager"
	RoleStockManager Role = "Stock Manager"
	RoleAdmin        Role = "Admin"
	RoleMedicalRep   Role = "Medical Rep"
)

// AllRoles lists every role in display order.
var AllRoles = []Role{
	RoleCEO,
	RoleMarketer,
	RoleSalesManager,
	RoleStockManager,
	RoleAdmin,
	RoleMedicalRep,
}

// ParseRole matches s against the known roles, ignoring case and surrounding
// whitespace. It reports false for anything else.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
