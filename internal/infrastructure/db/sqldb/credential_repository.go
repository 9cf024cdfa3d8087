package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// CredentialRepository implements ports.CredentialRepository for either the
// admins or the users table.
type CredentialRepository struct {
	db   bun.IDB
	role string
}

func NewAdminRepository(db bun.IDB) *CredentialRepository {
	return &CredentialRepository{db: db, role: domain.RoleAdmin}
}

func NewUserRepository(db bun.IDB) *CredentialRepository {
	return &CredentialRepository{db: db, role: domain.RoleUser}
}

// row returns an empty model bound to the right table together with its columns.
func (r *CredentialRepository) row() (any, *principalColumns) {
	if r.role == domain.RoleAdmin {
		m := &adminRow{}
		return m, &m.principalColumns
	}
	m := &userRow{}
	return m, &m.principalColumns
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *CredentialRepository) FindByID(ctx context.Context, id int64) (*domain.Principal, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CredentialRepository) findOne(ctx context.Context, where string, arg any) (*domain.Principal, error) {
	model, cols := r.row()
	err := r.db.NewSelect().Model(model).Where(where, arg).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.role, err)
	}
	return cols.toDomain(r.role), nil
}

func (r *CredentialRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	model, cols := r.row()
	cols.fill(p)
	cols.ID = 0

	if _, err := r.db.NewInsert().Model(model).Returning("id").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert %s: %w", r.role, err)
	}
	return cols.toDomain(r.role), nil
}
