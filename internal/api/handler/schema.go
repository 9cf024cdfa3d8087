package handler

import "github.com/vitrine/catalog-admin/internal/core/domain"

// messageResponse is the error envelope rendered for every 4xx/5xx response.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string                 `json:"token"`
	User  domain.PublicPrincipal `json:"user"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailExistsResponse struct {
	Exists bool `json:"exists"`
}

// --- Catalog ---

type productRequest struct {
	Name          string  `json:"name"           validate:"required"`
	Description   string  `json:"description"    validate:"required"`
	Price         float64 `json:"price"          validate:"gt=0"`
	Stock         int     `json:"stock"          validate:"gte=0"`
	CategoryID    *int64  `json:"category_id"    validate:"omitempty,gt=0"`
	SubCategoryID *int64  `json:"subcategory_id" validate:"omitempty,gt=0"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type subCategoryRequest struct {
	Name       string `json:"name"        validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}
