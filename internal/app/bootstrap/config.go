// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for NoteHive.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, storage_local_path, etc.
//   - Environment variables: NOTEHIVE_MONGO_URI, NOTEHIVE_STORAGE_LOCAL_PATH, etc.
//   - Command-line flags: --mongo_uri, --storage_local_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "notehive", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Photo storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local'"},
	{Name: "storage_local_path", Default: "./uploads/photos", Desc: "Local storage path for uploaded photos"},
	{Name: "storage_base_url", Default: "/media", Desc: "URL prefix photos are served under"},

	// Media pipeline tuning (0 keeps the built-in defaults)
	{Name: "media_max_dimension", Default: 0, Desc: "Longest photo side after resize, in pixels (0 = default 1600)"},
	{Name: "media_jpeg_quality", Default: 0, Desc: "JPEG encode quality 1-100 (0 = default 60)"},
	{Name: "media_url_retries", Default: 0, Desc: "Photo URL resolution retries (0 = default 3)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "NOTEHIVE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageBaseURL:   appValues.String("storage_base_url"),

		MediaMaxDimension: appValues.Int("media_max_dimension"),
		MediaJPEGQuality:  appValues.Int("media_jpeg_quality"),
		MediaURLRetries:   appValues.Int("media_url_retries"),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.StorageType != "local" {
		return fmt.Errorf("unsupported storage_type %q (only 'local' is supported)", appCfg.StorageType)
	}
	if q := appCfg.MediaJPEGQuality; q < 0 || q > 100 {
		return fmt.Errorf("media_jpeg_quality must be 0-100, got %d", q)
	}
	return nil
}
