package sqldb

import (
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// principalColumns is shared by the admins and users tables.
type principalColumns struct {
	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull,unique"`
	Password  string    `bun:"password,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type adminRow struct {
	bun.BaseModel `bun:"table:admins,alias:a"`
	principalColumns
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	principalColumns
}

func (c *principalColumns) toDomain(role string) *domain.Principal {
	return &domain.Principal{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.Password,
		Role:         role,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (c *principalColumns) fill(p *domain.Principal) {
	c.ID = p.ID
	c.Name = p.Name
	c.Email = p.Email
	c.Password = p.PasswordHash
	c.CreatedAt = p.CreatedAt
	c.UpdatedAt = p.UpdatedAt
}

type categoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull,unique"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r *categoryRow) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

type subCategoryRow struct {
	bun.BaseModel `bun:"table:subcategories,alias:s"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull,unique"`
	CategoryID    int64     `bun:"category_id,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r *subCategoryRow) toDomain() *domain.SubCategory {
	return &domain.SubCategory{ID: r.ID, Name: r.Name, CategoryID: r.CategoryID, CreatedAt: r.CreatedAt}
}

type productRow struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull,unique"`
	SearchName    string    `bun:"search_name,notnull"`
	Description   string    `bun:"description,notnull"`
	Price         float64   `bun:"price,notnull"`
	Stock         int       `bun:"stock,notnull"`
	CategoryID    *int64    `bun:"category_id"`
	SubCategoryID *int64    `bun:"subcategory_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// searchKey is the case-folded name matched by product search. Folding in Go
// covers accented letters that SQLite's LOWER leaves untouched.
func searchKey(name string) string {
	return strings.ToLower(name)
}

func newProductRow(p *domain.Product) *productRow {
	return &productRow{
		ID:            p.ID,
		Name:          p.Name,
		SearchName:    searchKey(p.Name),
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r *productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Stock:         r.Stock,
		CategoryID:    r.CategoryID,
		SubCategoryID: r.SubCategoryID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
