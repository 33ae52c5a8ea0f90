// internal/app/features/postsapi/photos.go
package postsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/features/shared/upload"
	poststore "github.com/dalemusser/notehive/internal/app/store/posts"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/media"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleAddPhotos handles POST /api/groups/{groupID}/posts/{postID}/photos.
// New photos are ingested and appended after the existing ones.
func (h *Handler) HandleAddPhotos(w http.ResponseWriter, r *http.Request) {
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

	images, err := upload.Images(r, "photos")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(images) == 0 {
		respond.Error(w, http.StatusBadRequest, "no photos supplied")
		return
	}

	err = h.Coordinator.AddPhotos(ctx, p.ID, g.ID, images)
	if err != nil {
		switch {
		case errors.Is(err, poststore.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "post not found")
		case errors.Is(err, media.ErrDecode):
			respond.Error(w, http.StatusBadRequest, "one of the photos could not be decoded")
		default:
			h.Log.Warn("add photos failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not add photos")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
