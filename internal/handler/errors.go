package handler

import (
	"errors"
	"net/http"

	"shop-backend/internal/model"

	"github.com/labstack/echo/v4"
)

// httpError maps every business error kind to a response. Validation
// problems are 4xx, gateway trouble is 502, broken invariants stay 500.
func httpError(err error) error {
	var (
		dup     *model.DuplicatePositionsError
		missing *model.ProductsNotFoundError
		gateway *model.PaymentGatewayError
		whType  *model.UnexpectedWebhookTypeError
	)

	switch {
	case errors.As(err, &dup):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"error":      "duplicate order position",
			"product_id": dup.ProductID,
		})
	case errors.As(err, &missing):
		return echo.NewHTTPError(http.StatusNotFound, map[string]interface{}{
			"error":               "products not found",
			"missing_product_ids": missing.MissingIDs,
		})
	case errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrEmptyOrder):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &gateway):
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	case errors.As(err, &whType):
		return echo.NewHTTPError(http.StatusBadRequest, "unexpected webhook type")
	case errors.Is(err, model.ErrInvalidWebhook):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid webhook")
	default:
		return err
	}
}
