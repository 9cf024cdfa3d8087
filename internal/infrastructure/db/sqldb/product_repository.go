package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ProductRepository struct {
	db bun.IDB
}

func NewProductRepository(db bun.IDB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var rows []productRow
	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return productsToDomain(rows), nil
}

// SearchByName matches fragment anywhere in the name, ignoring case for any
// letter. LIKE wildcards in fragment are matched literally.
func (r *ProductRepository) SearchByName(ctx context.Context, fragment string) ([]*domain.Product, error) {
	pattern := "%" + likeEscaper.Replace(searchKey(fragment)) + "%"

	var rows []productRow
	err := r.db.NewSelect().
		Model(&rows).
		Where(`search_name LIKE ? ESCAPE '\'`, pattern).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return productsToDomain(rows), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var row productRow
	if err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return row.toDomain(), nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	row := newProductRow(p)
	row.ID = 0
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return productWriteError("insert", err)
	}
	p.ID = row.ID
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.NewUpdate().
		Model(newProductRow(p)).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return productWriteError("update", err)
	}
	return affectedOrNotFound(res, domain.ErrProductNotFound)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*productRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return affectedOrNotFound(res, domain.ErrProductNotFound)
}

func productWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicateName
	case isForeignKeyViolation(err):
		return domain.ErrInvalidReference
	default:
		return fmt.Errorf("%s product: %w", op, err)
	}
}

func productsToDomain(rows []productRow) []*domain.Product {
	out := make([]*domain.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
