// internal/app/features/requestsapi/routes.go
package requestsapi

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the note-requests API, mounted under
// /api/groups/{groupID}/requests.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/stream", h.HandleStream)
	r.Post("/{requestID}/responses", h.HandleRespond)
	r.Post("/{requestID}/fulfill", h.HandleFulfill)
	r.Delete("/{requestID}", h.HandleDelete)
	return r
}
