package domain

import "time"

// Claims is the decoded payload of a session token.
type Claims struct {
	PrincipalID int64
	Email       string
	Name        string
	Role        string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// ClaimsFor builds the claim set for a freshly authenticated principal.
// Timestamps are filled in by the token issuer.
func ClaimsFor(p *Principal) Claims {
	return Claims{
		PrincipalID: p.ID,
		Email:       p.Email,
		Name:        p.Name,
		Role:        p.Role,
	}
}
