package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin may update books and delete books and authors.
	RoleAdmin Role = "admin"
	// RoleMember may read and create, and update authors.
	RoleMember Role = "member"
)

// User represents an account that can log in.
type User struct {
	Entity
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
