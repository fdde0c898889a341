package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/webserver"
)

// jobEntry describes one registered cron job
type jobEntry struct {
	ID      int       `json:"id"`
	NextRun time.Time `json:"next_run"`
	PrevRun time.Time `json:"prev_run"`
}

type runDigestPayload struct {
	Day string `json:"day"`
}

func registerSchedulerRoutes() {
	webserver.ApiGET("/jobs", ListJobs)
	webserver.ApiPOST("/jobs/digest/run", TriggerDigest)
}

// ListJobs reports the digest schedule and the cron entries
func ListJobs(c echo.Context) error {
	appCtx := GetAppContext(c)
	cfg := appCtx.Config()
	entries := make([]jobEntry, 0)
	if sched := appCtx.Scheduler(); sched != nil {
		for _, e := range sched.Entries() {
			entries = append(entries, jobEntry{ID: int(e.ID), NextRun: e.Next, PrevRun: e.Prev})
		}
	}
	return ok(c, map[string]interface{}{
		"digest": map[string]interface{}{
			"enabled": cfg.Digest.Enabled,
			"cron":    cfg.Digest.Cron,
		},
		"entries": entries,
	})
}

// TriggerDigest sends the digest for the given day now; default yesterday
func TriggerDigest(c echo.Context) error {
	var payload runDigestPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request parameters", err.Error())
	}
	appCtx := GetAppContext(c)
	loc := appCtx.Location()
	day := time.Now().In(loc).AddDate(0, 0, -1)
	if strings.TrimSpace(payload.Day) != "" {
		parsed, err := parseDay(payload.Day, loc)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Invalid day", err.Error())
		}
		day = parsed
	}

	res := appCtx.RunDigest(c.Request().Context(), day)
	zap.L().Info("digest triggered",
		zap.String("day", day.Format("2006-01-02")),
		zap.Bool("success", res.Success),
		zap.String("namespace", "notify"))
	if !res.Success {
		return fail(c, http.StatusServiceUnavailable, "EMAIL_FAILED", res.Message, nil)
	}
	return ok(c, res)
}
