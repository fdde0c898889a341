package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/pskitchenware/storefront/internal/webserver"
	"github.com/pskitchenware/storefront/pkg/metrics"
)

var exposedMetrics = map[string]string{
	"checkout_total":   metrics.MetricsCheckoutTotal,
	"order_rows":       metrics.MetricsOrderRows,
	"checkout_failed":  metrics.MetricsCheckoutFailed,
	"notify_failed":    metrics.MetricsNotifyFailed,
	"checkout_revenue": metrics.MetricsCheckoutRevenue,
	"enquiry_total":    metrics.MetricsEnquiryTotal,
}

func registerMetricsRoutes() {
	webserver.ApiGET("/metrics/:name", getMetric)
}

// getMetric returns samples of one metric; hours selects the window, default 24
func getMetric(c echo.Context) error {
	name, found := exposedMetrics[c.Param("name")]
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown metric", c.Param("name"))
	}
	hours := cast.ToInt(c.QueryParam("hours"))
	if hours <= 0 || hours > 24*90 {
		hours = 24
	}
	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)
	points, err := metrics.Query(name, from, to)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, map[string]interface{}{
		"name":   c.Param("name"),
		"from":   from.Unix(),
		"to":     to.Unix(),
		"sum":    metrics.Sum(points),
		"points": points,
	})
}
