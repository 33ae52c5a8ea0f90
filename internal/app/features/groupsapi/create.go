// internal/app/features/groupsapi/create.go
package groupsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	membershipstore "github.com/dalemusser/notehive/internal/app/store/memberships"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

type createGroupRequest struct {
	Name   string `json:"name"`
	School string `json:"school"`
}

// HandleCreate handles POST /api/groups. The caller becomes the group's
// creator and only member, and their profile is upserted with the display
// name the identity provider supplied.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Users.Upsert(ctx, userID, userName); err != nil {
		h.Log.Warn("profile upsert failed", zap.String("user", userID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not update profile")
		return
	}

	g, err := h.Memberships.CreateGroup(ctx,
		h.Sanitize.Sanitize(req.Name),
		h.Sanitize.Sanitize(req.School),
		userID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrMissingName) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Warn("create group failed", zap.String("user", userID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not create group")
		return
	}
	respond.JSON(w, http.StatusCreated, g)
}
