// internal/app/features/requestsapi/delete.go
package requestsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/feed"
	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /api/groups/{groupID}/requests/{requestID}.
// Author-only; response photos are cleaned up best-effort afterwards.
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
	nr, ok := h.groupRequest(ctx, w, g, chi.URLParam(r, "requestID"))
	if !ok {
		return
	}

	err := h.Coordinator.DeleteRequest(ctx, nr.ID, userID)
	if err != nil {
		switch {
		case errors.Is(err, requeststore.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "request not found")
		case errors.Is(err, feed.ErrNotAuthor):
			respond.Error(w, http.StatusForbidden, err.Error())
		default:
			h.Log.Warn("delete request failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not delete request")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
