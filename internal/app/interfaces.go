package app

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/blob"
	"github.com/pskitchenware/storefront/internal/catalog"
	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/internal/notify"
	"github.com/pskitchenware/storefront/internal/repository"
)

// DBProvider provides database access; nil when running on bolt
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
	Location() *time.Location
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// StoreProvider provides the persistence layer
type StoreProvider interface {
	CatalogRepo() repository.CatalogRepository
	Orders() repository.OrderRepository
	// Users is nil when the backend has no user tables
	Users() repository.UserRepository
}

// ServiceProvider provides the domain services
type ServiceProvider interface {
	Catalog() *catalog.Service
	Checkout() *checkout.Composer
	Notifier() notify.Notifier
	Blobs() blob.Store
}

// EventProvider provides the in-process event bus
type EventProvider interface {
	Bus() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	StoreProvider
	ServiceProvider
	EventProvider

	MigrateDB(track bool) error
	// RunDigest emails the sales summary of one calendar day
	RunDigest(ctx context.Context, day time.Time) notify.Result
}
