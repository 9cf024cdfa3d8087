package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/api/metrics"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /product.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {array}   domain.Product
// @Failure      500  {object}  messageResponse
// @Router       /product [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /product/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /product/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// SearchByName handles GET /product/name/:name.
//
// @Summary      Search products by name
// @Description  Case-insensitive substring match. No match yields 404.
// @Tags         products
// @Produce      json
// @Param        name  path      string  true  "Name fragment"
// @Success      200   {array}   domain.Product
// @Failure      404   {object}  messageResponse
// @Router       /product/name/{name} [get]
func (h *ProductHandler) SearchByName(c echo.Context) error {
	products, err := h.service.SearchProducts(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Create handles POST /add_product.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /add_product [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("product", "create").Inc()
	return c.JSON(http.StatusCreated, product)
}

// Update handles PUT /product/:id.
//
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product ID"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /product/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.Request().Context(), id, toProductInput(req))
	if err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("product", "update").Inc()
	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /product/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  int  true  "Product ID"
// @Success      204
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /product/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CatalogMutationsTotal.WithLabelValues("product", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
