package migrate

import (
	"context"
	"fmt"

	"github.com/agroconnect/agroconnect-backend/pkg/config"
	"github.com/agroconnect/agroconnect-backend/pkg/db"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
)

// MaybeRunDev brings a dev database up to date on boot when
// AGROCONNECT_AUTO_MIGRATE is on. Other environments run cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, cfg.DB.Driver, Embedded(), logg)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "driver", cfg.DB.Driver)
	logg.Info(ctx, "applying migrations on dev boot")
	return runner.Up(ctx)
}
