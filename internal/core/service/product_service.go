package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

type ProductService struct {
	products      ports.ProductRepository
	categories    ports.CategoryRepository
	subcategories ports.SubCategoryRepository
	log           zerolog.Logger
}

func NewProductService(
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	subcategories ports.SubCategoryRepository,
	log zerolog.Logger,
) *ProductService {
	return &ProductService{
		products:      products,
		categories:    categories,
		subcategories: subcategories,
		log:           log,
	}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// SearchProducts matches name fragments case-insensitively. An empty result
// is reported as domain.ErrProductNotFound.
func (s *ProductService) SearchProducts(ctx context.Context, name string) ([]*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	found, err := s.products.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return found, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	p, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	current, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Int64("product_id", p.ID).Msg("product updated")
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// build validates the input and resolves the category/subcategory pair. A
// subcategory without a category adopts the subcategory's parent.
func (s *ProductService) build(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
	}

	switch {
	case p.Name == "" || p.Description == "":
		return nil, fmt.Errorf("%w: name and description are required", domain.ErrValidation)
	case p.Price <= 0:
		return nil, fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	case p.Stock < 0:
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrValidation)
	}

	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, referenceError(err, "category", *in.CategoryID)
		}
		id := *in.CategoryID
		p.CategoryID = &id
	}

	if in.SubCategoryID != nil {
		sub, err := s.subcategories.FindByID(ctx, *in.SubCategoryID)
		if err != nil {
			return nil, referenceError(err, "subcategory", *in.SubCategoryID)
		}
		if p.CategoryID != nil && *p.CategoryID != sub.CategoryID {
			return nil, fmt.Errorf("%w: subcategory %d belongs to category %d, not %d",
				domain.ErrCategoryMismatch, sub.ID, sub.CategoryID, *p.CategoryID)
		}
		subID, catID := sub.ID, sub.CategoryID
		p.SubCategoryID = &subID
		p.CategoryID = &catID
	}

	return p, nil
}

// referenceError turns a lookup miss into ErrInvalidReference and passes
// store failures through.
func referenceError(err error, kind string, id int64) error {
	if errors.Is(err, domain.ErrCategoryNotFound) || errors.Is(err, domain.ErrSubCategoryNotFound) {
		return fmt.Errorf("%w: %s %d", domain.ErrInvalidReference, kind, id)
	}
	return err
}
