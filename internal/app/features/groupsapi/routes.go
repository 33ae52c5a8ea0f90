// internal/app/features/groupsapi/routes.go
package groupsapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the groups API, mounted under
// /api/groups. The per-group posts and requests routers nest under
// /{groupID} so the whole API shares one routing tree.
func Routes(h *Handler, posts, requests http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/stream", h.HandleStream)
	r.Post("/join", h.HandleJoin)
	r.Route("/{groupID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Delete("/", h.HandleDelete)
		r.Post("/leave", h.HandleLeave)
		r.Post("/subjects", h.HandleAddSubject)
		if posts != nil {
			r.Mount("/posts", posts)
		}
		if requests != nil {
			r.Mount("/requests", requests)
		}
	})
	return r
}
