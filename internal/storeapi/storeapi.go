// Package storeapi is the public storefront API: catalog browsing, the
// session cart, checkout and the contact form.
package storeapi

import (
	"github.com/labstack/echo/v4"

	"github.com/pskitchenware/storefront/internal/app"
	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/internal/webserver"
)

var validate = checkout.NewValidator()

// Init registers every storefront route; webserver.Init must have run
func Init() {
	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerEnquiryRoutes()
}

func appContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return webserver.Fail(c, status, code, message, details)
}
