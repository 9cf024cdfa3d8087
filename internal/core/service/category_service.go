package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

// CategoryService manages categories and their subcategories.
type CategoryService struct {
	categories    ports.CategoryRepository
	subcategories ports.SubCategoryRepository
	log           zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, subcategories ports.SubCategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, subcategories: subcategories, log: log}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}

	c := &domain.Category{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Int64("category_id", c.ID).Str("name", c.Name).Msg("category created")
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrValidation)
	}

	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) ListSubCategories(ctx context.Context, categoryID int64) ([]*domain.SubCategory, error) {
	return s.subcategories.List(ctx, categoryID)
}

func (s *CategoryService) CreateSubCategory(ctx context.Context, in ports.SubCategoryInput) (*domain.SubCategory, error) {
	sub, err := s.buildSubCategory(ctx, in)
	if err != nil {
		return nil, err
	}

	sub.CreatedAt = time.Now().UTC()
	if err := s.subcategories.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info().Int64("subcategory_id", sub.ID).Int64("category_id", sub.CategoryID).Msg("subcategory created")
	return sub, nil
}

func (s *CategoryService) UpdateSubCategory(ctx context.Context, id int64, in ports.SubCategoryInput) (*domain.SubCategory, error) {
	current, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sub, err := s.buildSubCategory(ctx, in)
	if err != nil {
		return nil, err
	}
	sub.ID = current.ID
	sub.CreatedAt = current.CreatedAt

	if err := s.subcategories.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *CategoryService) DeleteSubCategory(ctx context.Context, id int64) error {
	if err := s.subcategories.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("subcategory_id", id).Msg("subcategory deleted")
	return nil
}

func (s *CategoryService) buildSubCategory(ctx context.Context, in ports.SubCategoryInput) (*domain.SubCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID <= 0 {
		return nil, fmt.Errorf("%w: name and category_id are required", domain.ErrValidation)
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, referenceError(err, "category", in.CategoryID)
	}
	return &domain.SubCategory{Name: name, CategoryID: in.CategoryID}, nil
}
