// internal/app/features/groupsapi/stream.go
package groupsapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/notehive/internal/app/features/shared/respond"
	"github.com/dalemusser/notehive/internal/app/system/identity"
)

// HandleStream handles GET /api/groups/stream as server-sent events.
// Every event carries the caller's complete current group list, so a new
// membership or a deleted group shows up without polling.
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

	sub := h.Coordinator.OpenGroupsFeed(r.Context(), userID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-sub.Snapshots():
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
