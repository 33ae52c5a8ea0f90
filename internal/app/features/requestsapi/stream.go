// internal/app/features/requestsapi/stream.go
package requestsapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/system/identity"
	"github.com/dalemusser/notehive/internal/app/system/timeouts"
)

// HandleStream handles GET /api/groups/{groupID}/requests/stream as
// server-sent events delivering full request-feed snapshots.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identity.FromRequest(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	checkCtx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	g, ok := h.memberGroup(checkCtx, w, chi.URLParam(r, "groupID"), userID)
	cancel()
	if !ok {
		return
	}

	session, err := h.Coordinator.OpenSession(r.Context(), g.ID)
	if err != nil {
		h.Log.Warn("open feed session failed", zap.String("group", g.ID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not open feed")
		return
	}
	defer session.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-session.Requests.Snapshots():
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				h.Log.Warn("marshal snapshot failed", zap.Error(err))
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
