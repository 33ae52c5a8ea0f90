// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Photo storage configuration
	StorageType      string // Storage backend: "local" is the only supported type for now
	StorageLocalPath string // Local storage path (e.g., "./uploads/photos")
	StorageBaseURL   string // URL prefix photos are served under (e.g., "/media")

	// Media pipeline tuning. Zero values fall back to the pipeline's
	// defaults (1600px, quality 60, 3 retries).
	MediaMaxDimension int // Longest side after resize, in pixels
	MediaJPEGQuality  int // JPEG encode quality, 1-100
	MediaURLRetries   int // URL resolution retry attempts
}
