// internal/app/features/groupsapi/subjects.go
package groupsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
	"github.com/dalemusser/notehive/internal/domain/models"
)

type addSubjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// HandleAddSubject handles POST /api/groups/{groupID}/subjects. A name
// that collides case-insensitively with a built-in or existing custom
// subject is rejected, not deduplicated.
func (h *Handler) HandleAddSubject(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req addSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groupID := chi.URLParam(r, "groupID")
	g, err := h.Groups.GetByID(ctx, groupID)
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

	subject := models.CustomSubject{
		Name:  h.Sanitize.Sanitize(req.Name),
		Color: h.Sanitize.Sanitize(req.Color),
		Icon:  h.Sanitize.Sanitize(req.Icon),
	}
	if err := h.Groups.AddCustomSubject(ctx, groupID, subject); err != nil {
		switch {
		case errors.Is(err, groupstore.ErrInvalidSubject):
			respond.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, groupstore.ErrDuplicateSubject):
			respond.Error(w, http.StatusConflict, err.Error())
		default:
			h.Log.Warn("add subject failed", zap.String("group", groupID), zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not add subject")
		}
		return
	}
	respond.JSON(w, http.StatusCreated, subject)
}
