// internal/app/features/requestsapi/list.go
package requestsapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleList handles GET /api/groups/{groupID}/requests, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.memberGroup(ctx, w, chi.URLParam(r, "groupID"), userID)
	if !ok {
		return
	}

	requests, err := h.Requests.ListByGroup(ctx, g.ID)
	if err != nil {
		h.Log.Warn("list requests failed", zap.String("group", g.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load requests")
		return
	}
	respond.JSON(w, http.StatusOK, requests)
}
