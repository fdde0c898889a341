package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pskitchenware/storefront/config"
)

func boltPath(cfg *config.AppConfig) string {
	name := cfg.Database.Name
	if name == "" || strings.HasSuffix(name, ".db") {
		name = "storefront.bolt"
	}
	return filepath.Join(cfg.GetDataDir(), name)
}

// getDatabase opens postgres or sqlite. Relative sqlite names live in dataDir.
func getDatabase(cfg config.DBConfig, dataDir string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		name := cfg.Name
		if name != ":memory:" && !strings.HasPrefix(name, "file:") && !filepath.IsAbs(name) {
			name = filepath.Join(dataDir, name)
		}
		dialector = sqlite.Open(name)
	default:
		return nil, errors.Errorf("unsupported database type %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Type)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Type == "postgres" {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
