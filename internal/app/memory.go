package app

import (
	"time"

	"github.com/pskitchenware/storefront/config"
)

// NewMemoryApplication wires an application on an in-memory sqlite database
// without logger, metrics or scheduler setup. Used by handler tests.
func NewMemoryApplication(cfg *config.AppConfig) (*Application, error) {
	dbcfg := cfg.Database
	dbcfg.Type = "sqlite"
	dbcfg.Name = "file::memory:"
	db, err := getDatabase(dbcfg, "")
	if err != nil {
		return nil, err
	}
	a := NewApplication(cfg)
	if loc, err := time.LoadLocation(cfg.System.Location); err == nil {
		a.location = loc
	}
	a.OverrideDB(db)
	if err := a.MigrateDB(false); err != nil {
		return nil, err
	}
	a.InitServices()
	return a, nil
}
