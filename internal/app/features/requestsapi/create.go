// internal/app/features/requestsapi/create.go
package requestsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/subjects"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
	"github.com/dalemusser/notehive/internal/domain/models"
)

type createRequestBody struct {
	Subject        string `json:"subject"`
	Description    string `json:"description"`
	Date           string `json:"date"`
	TargetUserID   string `json:"target_user_id"`
	TargetUserName string `json:"target_user_name"`
}

// HandleCreate handles POST /api/groups/{groupID}/requests. An empty
// target means the request is addressed to the whole group.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, userName, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.memberGroup(ctx, w, chi.URLParam(r, "groupID"), userID)
	if !ok {
		return
	}

	if !subjects.Known(body.Subject, g.CustomSubjects) {
		respond.Error(w, http.StatusBadRequest, "unknown subject")
		return
	}

	date := time.Now().UTC()
	if v := strings.TrimSpace(body.Date); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = parsed
	}

	created, err := h.Coordinator.CreateRequest(ctx, models.NoteRequest{
		GroupID:        g.ID,
		AuthorID:       userID,
		AuthorName:     userName,
		Subject:        body.Subject,
		Date:           date,
		Description:    h.Sanitize.Sanitize(body.Description),
		TargetUserID:   strings.TrimSpace(body.TargetUserID),
		TargetUserName: h.Sanitize.Sanitize(body.TargetUserName),
	})
	if err != nil {
		h.Log.Warn("create request failed", zap.String("group", g.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not create request")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}
