package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
	"github.com/pskitchenware/storefront/pkg/metrics"
)

type checkoutPayload struct {
	Address domain.Address `json:"address"`
}

func registerCheckoutRoutes() {
	webserver.StorePOST("/checkout", placeOrder)
}

func placeOrder(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout", err.Error())
	}

	crt := loadCart(c)
	receipt, err := appContext(c).Checkout().Checkout(c.Request().Context(), crt.Items(), payload.Address)

	var verr *checkout.ValidationError
	var perr *checkout.PartialError
	switch {
	case errors.As(err, &verr):
		return fail(c, http.StatusBadRequest, "INVALID_CHECKOUT", "Please check your details", verr.Fields)
	case errors.As(err, &perr):
		metrics.Incr(metrics.MetricsCheckoutFailed, 1)
		zap.L().Error("checkout partially persisted",
			zap.String("checkout_id", perr.CheckoutID),
			zap.Int("written", len(perr.Written)),
			zap.Error(perr.Err))
		return fail(c, http.StatusInternalServerError, "ORDER_FAILED", "Order failed, please try again", nil)
	case err != nil:
		metrics.Incr(metrics.MetricsCheckoutFailed, 1)
		return fail(c, http.StatusInternalServerError, "ORDER_FAILED", "Order failed, please try again", err.Error())
	}

	if len(receipt.Orders) > 0 {
		crt.Clear()
	}
	return ok(c, receipt)
}
