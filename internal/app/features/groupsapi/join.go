// internal/app/features/groupsapi/join.go
package groupsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	membershipstore "github.com/dalemusser/notehive/internal/app/store/memberships"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

type joinRequest struct {
	InviteCode string `json:"invite_code"`
}

// HandleJoin handles POST /api/groups/join. Joining a group the caller is
// already in is an error, not a silent success.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		respond.Error(w, http.StatusBadRequest, "invite code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Users.Upsert(ctx, userID, userName); err != nil {
		h.Log.Warn("profile upsert failed", zap.String("user", userID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not update profile")
		return
	}

	g, err := h.Memberships.Join(ctx, code, userID)
	if err != nil {
		switch {
		case errors.Is(err, membershipstore.ErrGroupNotFound):
			respond.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, membershipstore.ErrAlreadyMember):
			respond.Error(w, http.StatusConflict, err.Error())
		default:
			h.Log.Warn("join failed", zap.String("user", userID), zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not join group")
		}
		return
	}
	respond.JSON(w, http.StatusOK, g)
}
