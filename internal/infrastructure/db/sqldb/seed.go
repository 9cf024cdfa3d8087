package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// SeedAdmin is the administrator account created by Seed.
type SeedAdmin struct {
	Name         string
	Email        string
	PasswordHash string
}

type seedProduct struct {
	category    string
	subcategory string
	name        string
	description string
	price       float64
	stock       int
}

var sampleCatalog = []seedProduct{
	{
		category:    "Eletrônicos",
		subcategory: "Smartphones",
		name:        "Smartphone X",
		description: "Smartphone topo de linha",
		price:       3500,
		stock:       10,
	},
	{
		category:    "Móveis",
		subcategory: "Mesas",
		name:        "Mesa de Jantar",
		description: "Mesa para 6 pessoas",
		price:       1200,
		stock:       5,
	},
}

// Seed inserts the administrator and the sample catalog. Rows that already
// exist are left untouched, so Seed can run any number of times.
func Seed(ctx context.Context, db *bun.DB, admin SeedAdmin) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		adminModel := &adminRow{principalColumns: principalColumns{
			Name:      admin.Name,
			Email:     admin.Email,
			Password:  admin.PasswordHash,
			CreatedAt: now,
			UpdatedAt: now,
		}}
		if _, err := tx.NewInsert().Model(adminModel).On("CONFLICT (email) DO NOTHING").Returning("NULL").Exec(ctx); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		for _, sp := range sampleCatalog {
			categoryID, err := ensureCategory(ctx, tx, sp.category, now)
			if err != nil {
				return err
			}
			subCategoryID, err := ensureSubCategory(ctx, tx, sp.subcategory, categoryID, now)
			if err != nil {
				return err
			}

			product := &productRow{
				Name:          sp.name,
				SearchName:    searchKey(sp.name),
				Description:   sp.description,
				Price:         sp.price,
				Stock:         sp.stock,
				CategoryID:    &categoryID,
				SubCategoryID: &subCategoryID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if _, err := tx.NewInsert().Model(product).On("CONFLICT (name) DO NOTHING").Returning("NULL").Exec(ctx); err != nil {
				return fmt.Errorf("seed product %q: %w", sp.name, err)
			}
		}
		return nil
	})
}

func ensureCategory(ctx context.Context, tx bun.Tx, name string, now time.Time) (int64, error) {
	row := &categoryRow{Name: name, CreatedAt: now}
	if _, err := tx.NewInsert().Model(row).On("CONFLICT (name) DO NOTHING").Returning("NULL").Exec(ctx); err != nil {
		return 0, fmt.Errorf("seed category %q: %w", name, err)
	}

	var id int64
	if err := tx.NewSelect().Model((*categoryRow)(nil)).Column("id").Where("name = ?", name).Scan(ctx, &id); err != nil {
		return 0, fmt.Errorf("seed category %q: %w", name, err)
	}
	return id, nil
}

func ensureSubCategory(ctx context.Context, tx bun.Tx, name string, categoryID int64, now time.Time) (int64, error) {
	row := &subCategoryRow{Name: name, CategoryID: categoryID, CreatedAt: now}
	if _, err := tx.NewInsert().Model(row).On("CONFLICT (name) DO NOTHING").Returning("NULL").Exec(ctx); err != nil {
		return 0, fmt.Errorf("seed subcategory %q: %w", name, err)
	}

	var id int64
	if err := tx.NewSelect().Model((*subCategoryRow)(nil)).Column("id").Where("name = ?", name).Scan(ctx, &id); err != nil {
		return 0, fmt.Errorf("seed subcategory %q: %w", name, err)
	}
	return id, nil
}
