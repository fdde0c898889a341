package app

import (
	"context"

	"go.uber.org/zap"
)

// StartBackgroundJobs runs the cron scheduler until ctx is done
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	if a.sched == nil {
		return
	}
	a.sched.Start()
	zap.L().Info("background jobs started", zap.Int("jobs", len(a.sched.Entries())))
	go func() {
		<-ctx.Done()
		stopped := a.sched.Stop()
		<-stopped.Done()
	}()
}
