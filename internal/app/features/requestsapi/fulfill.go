// internal/app/features/requestsapi/fulfill.go
package requestsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleFulfill handles POST /api/groups/{groupID}/requests/{requestID}/fulfill:
// manual resolution without a response.
func (h *Handler) HandleFulfill(w http.ResponseWriter, r *http.Request) {
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
	nr, ok := h.groupRequest(ctx, w, g, chi.URLParam(r, "requestID"))
	if !ok {
		return
	}

	if err := h.Coordinator.MarkFulfilled(ctx, nr.ID); err != nil {
		if errors.Is(err, requeststore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "request not found")
			return
		}
		h.Log.Warn("fulfill failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not fulfill request")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
