package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

type CategoryRepository struct {
	db bun.IDB
}

func NewCategoryRepository(db bun.IDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var rows []categoryRow
	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]*domain.Category, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	var row categoryRow
	if err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	row := &categoryRow{Name: c.Name, CreatedAt: c.CreatedAt}
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert category: %w", err)
	}
	c.ID = row.ID
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res, err := r.db.NewUpdate().
		Model(&categoryRow{ID: c.ID, Name: c.Name}).
		Column("name").
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	return affectedOrNotFound(res, domain.ErrCategoryNotFound)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*categoryRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return affectedOrNotFound(res, domain.ErrCategoryNotFound)
}

// affectedOrNotFound maps a write that touched no row to notFound.
func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
