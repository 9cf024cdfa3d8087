package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

type SubCategoryRepository struct {
	db bun.IDB
}

func NewSubCategoryRepository(db bun.IDB) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

func (r *SubCategoryRepository) List(ctx context.Context, categoryID int64) ([]*domain.SubCategory, error) {
	var rows []subCategoryRow
	q := r.db.NewSelect().Model(&rows).Order("id ASC")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}

	out := make([]*domain.SubCategory, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *SubCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.SubCategory, error) {
	var row subCategoryRow
	if err := r.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("find subcategory: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SubCategoryRepository) Create(ctx context.Context, s *domain.SubCategory) error {
	row := &subCategoryRow{Name: s.Name, CategoryID: s.CategoryID, CreatedAt: s.CreatedAt}
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return subCategoryWriteError("insert", err)
	}
	s.ID = row.ID
	return nil
}

// Update renames or moves a subcategory. Products filed under it are moved to
// the new category in the same transaction.
func (r *SubCategoryRepository) Update(ctx context.Context, s *domain.SubCategory) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(&subCategoryRow{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID}).
			Column("name", "category_id").
			WherePK().
			Exec(ctx)
		if err != nil {
			return subCategoryWriteError("update", err)
		}
		if err := affectedOrNotFound(res, domain.ErrSubCategoryNotFound); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*productRow)(nil)).
			Set("category_id = ?", s.CategoryID).
			Set("updated_at = ?", time.Now().UTC()).
			Where("subcategory_id = ?", s.ID).
			Where("category_id IS NULL OR category_id <> ?", s.CategoryID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("move subcategory products: %w", err)
		}
		return nil
	})
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*subCategoryRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return affectedOrNotFound(res, domain.ErrSubCategoryNotFound)
}

func subCategoryWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicateName
	case isForeignKeyViolation(err):
		return domain.ErrInvalidReference
	default:
		return fmt.Errorf("%s subcategory: %w", op, err)
	}
}
