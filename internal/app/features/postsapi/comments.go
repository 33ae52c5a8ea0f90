// internal/app/features/postsapi/comments.go
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
	"github.com/dalemusser/notehive/internal/domain/models"
)

type addCommentRequest struct {
	Text string `json:"text"`
}

// HandleAddComment handles POST /api/groups/{groupID}/posts/{postID}/comments.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
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

	text := h.Sanitize.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		respond.Error(w, http.StatusBadRequest, "comment text is required")
		return
	}

	c, err := h.Coordinator.AddComment(ctx, p.ID, models.Comment{
		AuthorID:   userID,
		AuthorName: userName,
		Text:       text,
	})
	if err != nil {
		if errors.Is(err, poststore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "post not found")
			return
		}
		h.Log.Warn("add comment failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not add comment")
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}
