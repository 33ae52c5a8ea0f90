// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/feed"
	groupsapifeature "github.com/dalemusser/notehive/internal/app/features/groupsapi"
	healthfeature "github.com/dalemusser/notehive/internal/app/features/health"
	postsapifeature "github.com/dalemusser/notehive/internal/app/features/postsapi"
	requestsapifeature "github.com/dalemusser/notehive/internal/app/features/requestsapi"
	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	membershipstore "github.com/dalemusser/notehive/internal/app/store/memberships"
	poststore "github.com/dalemusser/notehive/internal/app/store/posts"
	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	userstore "github.com/dalemusser/notehive/internal/app/store/users"
	"github.com/dalemusser/notehive/internal/app/system/blob"
	"github.com/dalemusser/notehive/internal/app/system/media"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. It builds the media pipeline and
// the stores, wires the feed coordinator on top of them, and mounts the
// API feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	store, err := blob.NewLocal(appCfg.StorageLocalPath, appCfg.StorageBaseURL)
	if err != nil {
		return nil, err
	}
	pipeline := media.New(store, media.Config{
		MaxDimension: appCfg.MediaMaxDimension,
		JPEGQuality:  appCfg.MediaJPEGQuality,
		URLRetries:   appCfg.MediaURLRetries,
	}, logger)

	groups := groupstore.New(db)
	users := userstore.New(db)
	posts := poststore.New(db)
	requests := requeststore.New(db)
	memberships := membershipstore.New(db, pipeline, logger)
	coordinator := feed.New(db, groups, posts, requests, pipeline, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded photos, served straight from local storage
	r.Handle(appCfg.StorageBaseURL+"/*", fileserver.Handler(appCfg.StorageBaseURL, appCfg.StorageLocalPath))

	// Group lifecycle, membership, and the per-group feeds nested under
	// /api/groups/{groupID}
	postsHandler := postsapifeature.NewHandler(coordinator, groups, posts, logger)
	requestsHandler := requestsapifeature.NewHandler(coordinator, groups, requests, logger)
	groupsHandler := groupsapifeature.NewHandler(coordinator, groups, users, memberships, logger)
	r.Mount("/api/groups", groupsapifeature.Routes(groupsHandler,
		postsapifeature.Routes(postsHandler),
		requestsapifeature.Routes(requestsHandler)))

	return r, nil
}
