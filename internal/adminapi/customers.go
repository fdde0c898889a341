package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/repository"
	"github.com/pskitchenware/storefront/internal/webserver"
)

// Customers are created at checkout and linked from orders by userId
func registerCustomerRoutes() {
	webserver.ApiGET("/customers/:id", GetCustomer)
	webserver.ApiPUT("/customers/:id/addresses/:aid/default", SetCustomerDefaultAddress)
}

func noCustomers(c echo.Context) error {
	return fail(c, http.StatusNotImplemented, "NOT_SUPPORTED", "Customers need a SQL database", nil)
}

func customerView(c echo.Context, users repository.UserRepository, id string) error {
	ctx := c.Request().Context()
	user, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	addresses, err := users.ListAddresses(ctx, id)
	if err != nil {
		zap.L().Error("list addresses error", zap.Error(err), zap.String("user_id", id))
	}
	if addresses == nil {
		addresses = []domain.SavedAddress{}
	}
	return ok(c, map[string]interface{}{
		"user":      user,
		"addresses": addresses,
	})
}

// GetCustomer returns a customer with the saved addresses, default first
func GetCustomer(c echo.Context) error {
	users := GetAppContext(c).Users()
	if users == nil {
		return noCustomers(c)
	}
	return customerView(c, users, c.Param("id"))
}

func SetCustomerDefaultAddress(c echo.Context) error {
	users := GetAppContext(c).Users()
	if users == nil {
		return noCustomers(c)
	}
	id := c.Param("id")
	err := users.SetDefaultAddress(c.Request().Context(), id, c.Param("aid"))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Address not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to set default address", err.Error())
	}
	return customerView(c, users, id)
}
