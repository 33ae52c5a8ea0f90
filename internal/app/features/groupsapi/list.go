// internal/app/features/groupsapi/list.go
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

// HandleList handles GET /api/groups: every group the caller belongs to,
// newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Groups.ListForUser(ctx, userID)
	if err != nil {
		h.Log.Warn("list groups failed", zap.String("user", userID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load groups")
		return
	}
	respond.JSON(w, http.StatusOK, groups)
}

// HandleGet handles GET /api/groups/{groupID}. Members only.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
	if !g.HasMember(userID) {
		respond.Error(w, http.StatusForbidden, "you are not a member of this group")
		return
	}
	respond.JSON(w, http.StatusOK, g)
}
