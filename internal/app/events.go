package app

import (
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/pkg/metrics"
)

// TopicEnquirySent is published by the enquiry form handler
const TopicEnquirySent = "enquiry:sent"

func (a *Application) subscribeEvents() {
	if err := a.bus.Subscribe(checkout.TopicCompleted, a.onCheckoutCompleted); err != nil {
		zap.S().Errorf("subscribe %s error %s", checkout.TopicCompleted, err.Error())
	}
	if err := a.bus.Subscribe(TopicEnquirySent, a.onEnquirySent); err != nil {
		zap.S().Errorf("subscribe %s error %s", TopicEnquirySent, err.Error())
	}
}

func (a *Application) onCheckoutCompleted(e checkout.CompletedEvent) {
	metrics.Incr(metrics.MetricsCheckoutTotal, 1)
	metrics.Incr(metrics.MetricsOrderRows, float64(len(e.Orders)))
	revenue, _ := e.Total.Float64()
	metrics.Incr(metrics.MetricsCheckoutRevenue, revenue)
	if !e.Notified {
		metrics.Incr(metrics.MetricsNotifyFailed, 1)
	}
}

func (a *Application) onEnquirySent(success bool) {
	metrics.Incr(metrics.MetricsEnquiryTotal, 1)
	if !success {
		metrics.Incr(metrics.MetricsNotifyFailed, 1)
	}
}
