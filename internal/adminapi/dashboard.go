package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/analytics"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
}

// parseDay reads a loosely formatted date in the shop location; empty is zero
func parseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return dateparse.ParseIn(value, loc)
}

func getDashboard(c echo.Context) error {
	appCtx := GetAppContext(c)
	loc := appCtx.Location()
	from, err := parseDay(c.QueryParam("from"), loc)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Invalid from date", err.Error())
	}
	to, err := parseDay(c.QueryParam("to"), loc)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DATE", "Invalid to date", err.Error())
	}

	ctx := c.Request().Context()
	orders, err := appCtx.Orders().List(ctx)
	if err != nil {
		zap.L().Error("dashboard list orders error", zap.Error(err))
		orders = []domain.Order{}
	}
	content := appCtx.Catalog().Load(ctx)

	return ok(c, analytics.Compute(analytics.Input{
		Orders:     orders,
		Categories: content.Categories,
		From:       from,
		To:         to,
		Now:        time.Now(),
		Location:   loc,
	}))
}
