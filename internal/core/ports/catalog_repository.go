package ports

import (
	"context"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Lookups by id return domain.ErrProductNotFound; name collisions return
// domain.ErrDuplicateName; dangling foreign keys return domain.ErrInvalidReference.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	SearchByName(ctx context.Context, fragment string) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines persistence operations for categories.
// Delete returns domain.ErrInUse while subcategories or products reference the row.
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// SubCategoryRepository defines persistence operations for subcategories.
// A zero categoryID in List means no filter.
type SubCategoryRepository interface {
	List(ctx context.Context, categoryID int64) ([]*domain.SubCategory, error)
	FindByID(ctx context.Context, id int64) (*domain.SubCategory, error)
	Create(ctx context.Context, s *domain.SubCategory) error
	Update(ctx context.Context, s *domain.SubCategory) error
	Delete(ctx context.Context, id int64) error
}
