// internal/app/features/postsapi/handler.go
package postsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/feed"
	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	poststore "github.com/dalemusser/notehive/internal/app/store/posts"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// Handler is the shared dependency container for the posts API. Mutations
// go through the feed coordinator so photos are always ingested before
// the document write.
type Handler struct {
	Coordinator *feed.Coordinator
	Groups      *groupstore.Store
	Posts       *poststore.Store
	Sanitize    *bluemonday.Policy
	Log         *zap.Logger
}

// NewHandler constructs a posts API Handler.
func NewHandler(coordinator *feed.Coordinator, groups *groupstore.Store, posts *poststore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Coordinator: coordinator,
		Groups:      groups,
		Posts:       posts,
		Sanitize:    bluemonday.StrictPolicy(),
		Log:         logger,
	}
}

// memberGroup loads the group and verifies the caller belongs to it,
// writing the error response itself when the check fails.
func (h *Handler) memberGroup(ctx context.Context, w http.ResponseWriter, groupID, userID string) (models.Group, bool) {
	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "group not found")
			return models.Group{}, false
		}
		h.Log.Warn("get group failed", zap.String("group", groupID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return models.Group{}, false
	}
	if !g.HasMember(userID) {
		respond.Error(w, http.StatusForbidden, "you are not a member of this group")
		return models.Group{}, false
	}
	return g, true
}

// groupPost loads the post and verifies it belongs to g. A post from
// another group gets the same 404 as a missing one, so the URL's group
// segment can never be used to reach into a group the caller is not in.
func (h *Handler) groupPost(ctx context.Context, w http.ResponseWriter, g models.Group, postID string) (models.Post, bool) {
	p, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "post not found")
			return models.Post{}, false
		}
		h.Log.Warn("get post failed", zap.String("post", postID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load post")
		return models.Post{}, false
	}
	if p.GroupID != g.ID {
		respond.Error(w, http.StatusNotFound, "post not found")
		return models.Post{}, false
	}
	return p, true
}
