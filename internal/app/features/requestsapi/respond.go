// internal/app/features/requestsapi/respond.go
package requestsapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/features/shared/upload"
	requeststore "github.com/dalemusser/notehive/internal/app/store/requests"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/media"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// HandleRespond handles POST /api/groups/{groupID}/requests/{requestID}/responses
// as a multipart form with "photos" files. The response and the flip to
// fulfilled land in one write; photos are ingested before it.
func (h *Handler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := identity.FromRequest(r)
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

	images, err := upload.Images(r, "photos")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(images) == 0 {
		respond.Error(w, http.StatusBadRequest, "a response needs at least one photo")
		return
	}

	created, err := h.Coordinator.RespondToRequest(ctx, nr.ID, g.ID, models.Response{
		AuthorID:   userID,
		AuthorName: userName,
	}, images)
	if err != nil {
		switch {
		case errors.Is(err, requeststore.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "request not found")
		case errors.Is(err, media.ErrDecode):
			respond.Error(w, http.StatusBadRequest, "one of the photos could not be decoded")
		case errors.Is(err, media.ErrUpload), errors.Is(err, media.ErrResolveURL):
			h.Log.Warn("photo ingest failed", zap.String("group", g.ID), zap.Error(err))
			respond.Error(w, http.StatusBadGateway, "photo upload failed")
		default:
			h.Log.Warn("respond failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not respond")
		}
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}
