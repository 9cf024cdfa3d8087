package ports

import "github.com/vitrine/catalog-admin/internal/core/domain"

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails for a plain mismatch; it reports false instead.
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs a claim set into a compact, URL-safe token.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
}

// TokenVerifier decodes a token. Errors are one of domain.ErrTokenMalformed,
// domain.ErrTokenSignatureInvalid or domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
