package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Principal is an authenticated actor: either a row of the admins table or
// of the users table. Role is derived from the table it was loaded from.
type Principal struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the principal was loaded from the admins table.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// PublicPrincipal is the projection returned to clients after login and by GET /user.
type PublicPrincipal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips everything but the identity fields.
func (p *Principal) Public() PublicPrincipal {
	return PublicPrincipal{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role}
}
