package domain

import "time"

// Category groups subcategories and products.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubCategory always belongs to exactly one Category.
type SubCategory struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product is a sellable item. Category and subcategory are optional, but when
// both are present the subcategory must belong to the category.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	CategoryID    *int64    `json:"category_id"`
	SubCategoryID *int64    `json:"subcategory_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
