// internal/app/features/postsapi/create.go
package postsapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/features/shared/upload"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/media"
	"github.com/dalemusser/notehive/internal/app/system/subjects"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
	"github.com/dalemusser/notehive/internal/domain/models"
)

// HandleCreate handles POST /api/groups/{groupID}/posts as a multipart
// form: "subject", "description", optional "date" (RFC 3339) and up to
// ten "photos" files. Photos are ingested before the document is written;
// if any photo fails, no post is created.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	images, err := upload.Images(r, "photos")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	subject := r.FormValue("subject")
	if !subjects.Known(subject, g.CustomSubjects) {
		respond.Error(w, http.StatusBadRequest, "unknown subject")
		return
	}

	date := time.Now().UTC()
	if v := r.FormValue("date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}

	p, err := h.Coordinator.CreatePost(ctx, models.Post{
		GroupID:     g.ID,
		AuthorID:    userID,
		AuthorName:  userName,
		Subject:     subject,
		Date:        date,
		Description: h.Sanitize.Sanitize(r.FormValue("description")),
	}, images)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrDecode):
			respond.Error(w, http.StatusBadRequest, "one of the photos could not be decoded")
		case errors.Is(err, media.ErrUpload), errors.Is(err, media.ErrResolveURL):
			h.Log.Warn("photo ingest failed", zap.String("group", g.ID), zap.Error(err))
			respond.Error(w, http.StatusBadGateway, "photo upload failed")
		default:
			h.Log.Warn("create post failed", zap.String("group", g.ID), zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not create post")
		}
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}
