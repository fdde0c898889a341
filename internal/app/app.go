package app

import (
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/blob"
	"github.com/pskitchenware/storefront/internal/catalog"
	"github.com/pskitchenware/storefront/internal/checkout"
	"github.com/pskitchenware/storefront/internal/domain"
	"github.com/pskitchenware/storefront/internal/notify"
	"github.com/pskitchenware/storefront/internal/repository"
	"github.com/pskitchenware/storefront/internal/repository/boltstore"
	"github.com/pskitchenware/storefront/pkg/metrics"
)

type Application struct {
	appConfig *config.AppConfig
	location  *time.Location
	gormDB    *gorm.DB
	boltStore *boltstore.Store
	sched     *cron.Cron
	bus       EventBus.Bus

	catalogRepo repository.CatalogRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository

	blobs    blob.Store
	notifier notify.Notifier
	catalog  *catalog.Service
	composer *checkout.Composer
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ ServiceProvider   = (*Application)(nil)
	_ EventProvider     = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, location: time.UTC}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

// Location is the shop's calendar time zone
func (a *Application) Location() *time.Location {
	return a.location
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

// OverrideNotifier replaces the SMTP notifier (used in tests).
func (a *Application) OverrideNotifier(n notify.Notifier) {
	a.notifier = n
	a.composer = checkout.NewComposer(a.orderRepo, a.userRepo, n, a.bus, a.appConfig.System.PublicHost)
}

func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) CatalogRepo() repository.CatalogRepository {
	return a.catalogRepo
}

func (a *Application) Orders() repository.OrderRepository {
	return a.orderRepo
}

func (a *Application) Users() repository.UserRepository {
	return a.userRepo
}

func (a *Application) Catalog() *catalog.Service {
	return a.catalog
}

func (a *Application) Checkout() *checkout.Composer {
	return a.composer
}

func (a *Application) Notifier() notify.Notifier {
	return a.notifier
}

func (a *Application) Blobs() blob.Store {
	return a.blobs
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	var err error
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// Init sets up logging, metrics, storage and the domain services
func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	a.initLogger(cfg)

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Errorf("timezone config error %s, using UTC", cfg.System.Location)
		loc = time.UTC
	}
	a.location = loc

	// Initialize metrics with workdir convention
	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if cfg.Database.Type == "bolt" {
		store, err := boltstore.Open(boltPath(cfg))
		if err != nil {
			return err
		}
		a.boltStore = store
		zap.S().Infof("Bolt store opened: %s", boltPath(cfg))
	} else {
		db, err := getDatabase(cfg.Database, cfg.GetDataDir())
		if err != nil {
			return err
		}
		a.gormDB = db
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)
		if err := a.MigrateDB(false); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}
	}

	a.InitServices()
	a.checkAdminCredential()
	a.checkSiteContent()
	a.initJob()
	return nil
}

// InitServices builds repositories and services on top of the opened store.
// Tests call it after OverrideDB.
func (a *Application) InitServices() {
	cfg := a.appConfig
	if a.boltStore != nil {
		a.catalogRepo = a.boltStore.Catalog()
		a.orderRepo = a.boltStore.Orders()
		a.userRepo = nil
	} else {
		a.catalogRepo = repository.NewGormCatalogRepository(a.gormDB)
		a.orderRepo = repository.NewGormOrderRepository(a.gormDB)
		a.userRepo = repository.NewGormUserRepository(a.gormDB)
	}

	if a.bus == nil {
		a.bus = EventBus.New()
		a.subscribeEvents()
	}

	switch cfg.Storage.Blob {
	case "supabase":
		a.blobs = blob.NewSupabaseStore(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.SupabaseBucket)
	default:
		a.blobs = blob.NewLocalStore(cfg.GetUploadsDir(), "/uploads")
	}

	if a.notifier == nil {
		a.notifier = notify.NewMailer(cfg.Smtp, cfg.System.Currency, cfg.System.Language)
	}
	a.catalog = catalog.NewService(a.catalogRepo, a.blobs)
	a.composer = checkout.NewComposer(a.orderRepo, a.userRepo, a.notifier, a.bus, cfg.System.PublicHost)
}

func (a *Application) MigrateDB(track bool) (err error) {
	if a.gormDB == nil {
		return nil
	}
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			if err2, ok := err1.(error); ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.boltStore != nil {
		_ = a.boltStore.Close()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
