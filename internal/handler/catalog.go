package handler

import (
	"net/http"

	"shop-backend/internal/model"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	category := model.ProductCategory(c.QueryParam("category"))
	products, err := h.catalogService.ListProducts(ctx, category)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.GetProduct(ctx, c.Param("productID"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, product)
}
