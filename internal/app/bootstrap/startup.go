// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. Stampa
// has no templates or caches to warm, so this just records that the app is
// coming up.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("stampa starting",
		zap.String("env", coreCfg.Env),
		zap.String("avatar_bucket", appCfg.AvatarBucket),
		zap.String("avatar_region", appCfg.AvatarRegion),
	)
	return nil
}
