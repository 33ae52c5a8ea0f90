// internal/app/features/postsapi/reactions.go
package postsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	poststore "github.com/dalemusser/notehive/internal/app/store/posts"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

type toggleReactionRequest struct {
	Emoji string `json:"emoji"`
}

// HandleToggleReaction handles POST /api/groups/{groupID}/posts/{postID}/reactions.
// Toggling is computed from the post's current list and replaces the
// whole field; two users racing on the same post can lose one update.
func (h *Handler) HandleToggleReaction(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req toggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Emoji) == "" {
		respond.Error(w, http.StatusBadRequest, "emoji is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.memberGroup(ctx, w, chi.URLParam(r, "groupID"), userID)
	if !ok {
		return
	}
	p, ok := h.groupPost(ctx, w, g, chi.URLParam(r, "postID"))
	if !ok {
		return
	}

	err := h.Coordinator.ToggleReaction(ctx, p.ID, req.Emoji, userID)
	if err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "post not found")
			return
		}
		h.Log.Warn("toggle reaction failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not toggle reaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
