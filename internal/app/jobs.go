package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/analytics"
	"github.com/pskitchenware/storefront/internal/notify"
)

const digestTopProducts = 5

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	a.sched = cron.New(cron.WithLocation(a.location), cron.WithParser(cronParser))

	if a.appConfig.Digest.Enabled {
		_, err := a.sched.AddFunc(a.appConfig.Digest.Cron, a.SchedDailyDigestTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}
}

// SchedDailyDigestTask mails yesterday's sales summary
func (a *Application) SchedDailyDigestTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	yesterday := time.Now().In(a.location).AddDate(0, 0, -1)
	res := a.RunDigest(context.Background(), yesterday)
	if !res.Success {
		zap.L().Warn("daily digest not sent", zap.String("message", res.Message), zap.String("namespace", "notify"))
	}
}

// RunDigest emails the sales summary of one calendar day
func (a *Application) RunDigest(ctx context.Context, day time.Time) notify.Result {
	orders, err := a.orderRepo.List(ctx)
	if err != nil {
		zap.L().Error("digest list orders error", zap.Error(err), zap.String("namespace", "notify"))
		return notify.Result{Success: false, Message: "Failed to load orders."}
	}
	content := a.catalog.Load(ctx)

	dash := analytics.Compute(analytics.Input{
		Orders:     orders,
		Categories: content.Categories,
		From:       day,
		To:         day,
		Now:        day,
		Location:   a.location,
	})

	digest := notify.DigestMail{
		Day:          day,
		TotalOrders:  dash.TotalOrders,
		Revenue:      dash.TodaysRevenue,
		RecentOrders: dash.RecentOrders,
	}
	for i, p := range dash.ProductChart {
		if i == digestTopProducts {
			break
		}
		digest.TopProducts = append(digest.TopProducts, notify.DigestProduct{Name: p.Name, Quantity: p.Quantity})
	}
	return a.notifier.SendDigest(ctx, digest)
}
