package ports

import (
	"context"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// LoginResult carries the issued token and the public projection of the principal.
type LoginResult struct {
	Token     string
	Principal domain.PublicPrincipal
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) (*domain.Principal, error)
	CurrentPrincipal(ctx context.Context, claims domain.Claims) (*domain.Principal, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// LoginThrottle tracks failed password attempts per email.
type LoginThrottle interface {
	Locked(ctx context.Context, email string) (bool, error)
	RegisterFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
