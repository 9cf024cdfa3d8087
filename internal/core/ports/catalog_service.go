package ports

import (
	"context"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	Stock         int
	CategoryID    *int64
	SubCategoryID *int64
}

// SubCategoryInput carries the writable fields of a subcategory.
type SubCategoryInput struct {
	Name       string
	CategoryID int64
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SearchProducts(ctx context.Context, name string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListSubCategories(ctx context.Context, categoryID int64) ([]*domain.SubCategory, error)
	CreateSubCategory(ctx context.Context, in SubCategoryInput) (*domain.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id int64, in SubCategoryInput) (*domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id int64) error
}
