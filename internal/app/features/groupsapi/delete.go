// internal/app/features/groupsapi/delete.go
package groupsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /api/groups/{groupID}. Only the group's
// creator may delete it; the cascade removes every post and request and
// each member's back-reference, then cleans up media best-effort.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, chi.URLParam(r, "groupID"))
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "group not found")
			return
		}
		h.Log.Warn("get group failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return
	}
	if g.CreatedBy != userID {
		respond.Error(w, http.StatusForbidden, "only the creator may delete this group")
		return
	}

	if err := h.Memberships.DeleteGroup(ctx, g); err != nil {
		h.Log.Warn("delete group failed", zap.String("group", g.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not delete group")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
