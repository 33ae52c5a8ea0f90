// internal/app/features/requestsapi/handler.go
package requestsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/feed"
	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	groupstore "github.com/dalemusser/notehive/internal/app/store/groups"
	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// Handler is the shared dependency container for the note-requests API.
type Handler struct {
	Coordinator *feed.Coordinator
	Groups      *groupstore.Store
	Requests    *requeststore.Store
	Sanitize    *bluemonday.Policy
	Log         *zap.Logger
}

// NewHandler constructs a requests API Handler.
func NewHandler(coordinator *feed.Coordinator, groups *groupstore.Store, requests *requeststore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Coordinator: coordinator,
		Groups:      groups,
		Requests:    requests,
		Sanitize:    bluemonday.StrictPolicy(),
		Log:         logger,
	}
}

func (h *Handler) memberGroup(ctx context.Context, w http.ResponseWriter, groupID, userID string) (models.Group, bool) {
	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "group not found")
			return models.Group{}, false
		}
		h.Log.Warn("get group failed", zap.String("group", groupID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return models.Group{}, false
	}
	if !g.HasMember(userID) {
		respond.Error(w, http.StatusForbidden, "you are not a member of this group")
		return models.Group{}, false
	}
	return g, true
}

// groupRequest loads the request and verifies it belongs to g. A request
// from another group gets the same 404 as a missing one.
func (h *Handler) groupRequest(ctx context.Context, w http.ResponseWriter, g models.Group, requestID string) (models.NoteRequest, bool) {
	nr, err := h.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, requeststore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "request not found")
			return models.NoteRequest{}, false
		}
		h.Log.Warn("get request failed", zap.String("request", requestID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load request")
		return models.NoteRequest{}, false
	}
	if nr.GroupID != g.ID {
		respond.Error(w, http.StatusNotFound, "request not found")
		return models.NoteRequest{}, false
	}
	return nr, true
}
