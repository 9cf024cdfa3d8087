package handler

import "github.com/vitrine/catalog-admin/internal/core/ports"

// --- Request → Service input ---

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
	}
}

func toSubCategoryInput(req subCategoryRequest) ports.SubCategoryInput {
	return ports.SubCategoryInput{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	}
}
