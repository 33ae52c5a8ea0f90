// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// NoteHive makes sure the local photo directory exists so the first
// upload does not race directory creation.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.StorageType == "local" {
		if err := os.MkdirAll(appCfg.StorageLocalPath, 0o755); err != nil {
			return err
		}
		logger.Info("photo storage ready",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("base_url", appCfg.StorageBaseURL))
	}
	return nil
}
