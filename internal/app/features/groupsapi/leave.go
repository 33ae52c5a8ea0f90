// internal/app/features/groupsapi/leave.go
package groupsapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleLeave handles POST /api/groups/{groupID}/leave. Leaving a group
// the caller is not in still succeeds.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Memberships.Leave(ctx, chi.URLParam(r, "groupID"), userID); err != nil {
		h.Log.Warn("leave failed", zap.String("user", userID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not leave group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
