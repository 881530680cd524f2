package migrate

import (
	"context"
	"fmt"

	"github.com/dpineda/mediashelf-backend/pkg/config"
	"github.com/dpineda/mediashelf-backend/pkg/db"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
)

// MaybeRunDev applies pending embedded migrations on boot. It only fires in
// dev with the auto-migrate flag set; deployed environments run cmd/migrate
// explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() {
		return nil
	}
	if !cfg.FeatureFlags.AutoMigrate {
		logg.Info(ctx, "auto-migrate disabled, skipping schema check")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrapping sql db handle: %w", err)
	}

	dialect := DialectFor(cfg.DB.Driver())
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect})
	logg.Info(ctx, "auto-migrate enabled, applying embedded migrations")

	if err := Run(ctx, sqlDB, dialect, "up"); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	logg.Info(ctx, "schema is current")
	return nil
}
