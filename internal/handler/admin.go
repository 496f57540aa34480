package handler

import (
	"net/http"
	"strconv"

	"shop-backend/internal/dto"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler backs the management panel: order status/shipping edits,
// catalog CRUD. Routes are mounted behind the admin auth middleware.
type AdminHandler struct {
	orderService   service.OrderService
	catalogService service.CatalogService
}

func NewAdminHandler(orderService service.OrderService, catalogService service.CatalogService) *AdminHandler {
	return &AdminHandler{
		orderService:   orderService,
		catalogService: catalogService,
	}
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.orderService.ListOrders(ctx, limit, offset)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.orderService.UpdateOrder(ctx, c.Param("orderID"), &req); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.DeleteOrder(ctx, c.Param("orderID")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ID == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id and name are required")
	}

	product, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.catalogService.UpdateProduct(ctx, c.Param("productID"), &req); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalogService.DeleteProduct(ctx, c.Param("productID")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
