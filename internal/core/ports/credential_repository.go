package ports

import (
	"context"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// CredentialRepository persists one kind of principal (admins or users).
// FindByEmail and FindByID return domain.ErrPrincipalNotFound when no row
// matches; Create returns domain.ErrDuplicateEmail on a uniqueness violation.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByID(ctx context.Context, id int64) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
}
