// internal/app/features/groupsapi/handler.go
package groupsapi

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/feed"
	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	membershipstore "github.com/dalemusser/notehive/internal/app/store/memberships"
	userstore "github.com/dalemusser/notehive/internal/app/store/users"
)

// Handler is the shared dependency container for the groups API. All
// membership edits go through the membership store so both sides of the
// group/user relation always change together.
type Handler struct {
	Coordinator *feed.Coordinator
	Groups      *groupstore.Store
	Users       *userstore.Store
	Memberships *membershipstore.Store
	Sanitize    *bluemonday.Policy
	Log         *zap.Logger
}

// NewHandler constructs a groups API Handler. It is typically called from
// the bootstrap BuildHandler function.
func NewHandler(coordinator *feed.Coordinator, groups *groupstore.Store, users *userstore.Store, memberships *membershipstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Coordinator: coordinator,
		Groups:      groups,
		Users:       users,
		Memberships: memberships,
		Sanitize:    bluemonday.StrictPolicy(),
		Log:         logger,
	}
}
