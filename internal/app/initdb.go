package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/config"
)

// checkSiteContent seeds the default catalog on first run
func (a *Application) checkSiteContent() {
	content := a.catalog.Load(context.Background())
	zap.L().Info("site content ready",
		zap.Int("categories", len(content.Categories)),
		zap.Int("hero_products", len(content.HeroProducts)),
		zap.String("namespace", "catalog"))
}

// checkAdminCredential warns when the shipped admin password is still in use
func (a *Application) checkAdminCredential() {
	admin := a.appConfig.Admin
	if strings.TrimSpace(admin.Username) == "" || strings.TrimSpace(admin.Password) == "" {
		zap.L().Error("admin credential is not configured, admin login is disabled")
		return
	}
	if admin.Password == config.DefaultAppConfig.Admin.Password {
		zap.L().Warn("admin account uses the default password, set admin.password or STOREFRONT_ADMIN_PASSWORD",
			zap.String("username", admin.Username))
	}
	if !strings.HasPrefix(admin.Password, "$2") {
		zap.L().Warn("admin password is stored in plaintext, a bcrypt hash is recommended")
	}
}
