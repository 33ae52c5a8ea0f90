// internal/app/features/postsapi/delete.go
package postsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/feed"
	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	poststore "github.com/dalemusser/notehive/internal/app/store/posts"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /api/groups/{groupID}/posts/{postID}.
// Author-only; the post's photos are cleaned up best-effort afterwards.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.memberGroup(ctx, w, chi.URLParam(r, "groupID"), userID)
	if !ok {
		return
	}
	p, ok := h.groupPost(ctx, w, g, chi.URLParam(r, "postID"))
	if !ok {
		return
	}

	err := h.Coordinator.DeletePost(ctx, p.ID, userID)
	if err != nil {
		switch {
		case errors.Is(err, poststore.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "post not found")
		case errors.Is(err, feed.ErrNotAuthor):
			respond.Error(w, http.StatusForbidden, err.Error())
		default:
			h.Log.Warn("delete post failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not delete post")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
