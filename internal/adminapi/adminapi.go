// Package adminapi is the protected back office API: catalog editing, order
// listing and export, the analytics dashboard, metrics and jobs.
package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/pskitchenware/storefront/internal/app"
	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/internal/webserver"
)

var validate = checkout.NewValidator()

// Init registers every admin route; webserver.Init must have run
func Init() {
	registerAuthRoutes()
	registerContentRoutes()
	registerDashboardRoutes()
	registerOrderRoutes()
	registerMetricsRoutes()
	registerSchedulerRoutes()
	registerDBMSRoutes()
	registerCustomerRoutes()
}

func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return webserver.Fail(c, status, code, message, details)
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, data, total, page, pageSize)
}

// parsePagination accepts page with perPage or pageSize
func parsePagination(c echo.Context) (int, int) {
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize := cast.ToInt(c.QueryParam("perPage"))
	if pageSize == 0 {
		pageSize = cast.ToInt(c.QueryParam("pageSize"))
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}
