package handler

import (
	"errors"
	"io"
	"net/http"

	"shop-backend/internal/dto"
	"shop-backend/internal/model"
	"shop-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.CustomerEmail == "" || req.ShippingAddress == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_email and shipping_address are required")
	}

	result, err := h.orderService.CreateOrder(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, c.Param("orderID"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// AcquiringWebhook receives the gateway's payment callback: the whole
// signed token is the raw request body, not a JSON envelope. The response
// code decides redelivery — only transient failures may be non-2xx, a
// replayed or already-processed webhook must still get 200.
func (h *OrderHandler) AcquiringWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.orderService.HandleWebhook(ctx, body)
	switch {
	case err == nil:
		return c.NoContent(http.StatusOK)
	case errors.Is(err, model.ErrInvalidWebhook):
		return c.NoContent(http.StatusBadRequest)
	case isUnexpectedType(err):
		// Terminal for this endpoint; a non-200 would make the gateway
		// redeliver a webhook we will never handle.
		c.Logger().Warnf("acquiring webhook: %v", err)
		return c.NoContent(http.StatusOK)
	case errors.Is(err, model.ErrOrderNotFound):
		// Possibly a webhook racing our own commit; the gateway's
		// redelivery will find the order once it is visible.
		c.Logger().Warnf("acquiring webhook: %v", err)
		return c.NoContent(http.StatusNotFound)
	default:
		c.Logger().Errorf("acquiring webhook: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}
}

func isUnexpectedType(err error) bool {
	var whType *model.UnexpectedWebhookTypeError
	return errors.As(err, &whType)
}
