package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/api/metrics"
	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

// CategoryHandler serves both categories and subcategories.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /category.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}   domain.Category
// @Router       /category [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Get handles GET /category/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  domain.Category
// @Failure      404  {object}  messageResponse
// @Router       /category/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	category, err := h.service.GetCategory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// Create handles POST /category.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /category [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.service.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("category", "create").Inc()
	return c.JSON(http.StatusCreated, category)
}

// Update handles PUT /category/:id.
//
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Category ID"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  domain.Category
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /category/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.service.UpdateCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("category", "update").Inc()
	return c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /category/:id. Categories still referenced by a
// subcategory or product cannot be deleted.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /category/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("category", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// ListSubCategories handles GET /subcategory.
//
// @Summary      List subcategories
// @Tags         subcategories
// @Produce      json
// @Param        category_id  query     int  false  "Only subcategories of this category"
// @Success      200          {array}   domain.SubCategory
// @Failure      400          {object}  messageResponse
// @Router       /subcategory [get]
func (h *CategoryHandler) ListSubCategories(c echo.Context) error {
	var categoryID int64
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: category_id must be a positive integer", domain.ErrValidation)
		}
		categoryID = id
	}

	subcategories, err := h.service.ListSubCategories(c.Request().Context(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subcategories)
}

// CreateSubCategory handles POST /subcategory.
//
// @Summary      Create a subcategory
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subCategoryRequest  true  "Subcategory"
// @Success      201   {object}  domain.SubCategory
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /subcategory [post]
func (h *CategoryHandler) CreateSubCategory(c echo.Context) error {
	var req subCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.service.CreateSubCategory(c.Request().Context(), toSubCategoryInput(req))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("subcategory", "create").Inc()
	return c.JSON(http.StatusCreated, sub)
}

// UpdateSubCategory handles PUT /subcategory/:id.
//
// @Summary      Replace a subcategory
// @Tags         subcategories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Subcategory ID"
// @Param        body  body      subCategoryRequest  true  "Subcategory"
// @Success      200   {object}  domain.SubCategory
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /subcategory/{id} [put]
func (h *CategoryHandler) UpdateSubCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req subCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sub, err := h.service.UpdateSubCategory(c.Request().Context(), id, toSubCategoryInput(req))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("subcategory", "update").Inc()
	return c.JSON(http.StatusOK, sub)
}

// DeleteSubCategory handles DELETE /subcategory/:id.
//
// @Summary      Delete a subcategory
// @Tags         subcategories
// @Security     BearerAuth
// @Param        id   path  int  true  "Subcategory ID"
// @Success      204
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /subcategory/{id} [delete]
func (h *CategoryHandler) DeleteSubCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteSubCategory(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("subcategory", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
