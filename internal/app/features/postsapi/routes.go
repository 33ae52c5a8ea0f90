// internal/app/features/postsapi/routes.go
package postsapi

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the posts API, mounted under
// /api/groups/{groupID}/posts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/stream", h.HandleStream)
	r.Post("/{postID}/comments", h.HandleAddComment)
	r.Post("/{postID}/photos", h.HandleAddPhotos)
	r.Post("/{postID}/reactions", h.HandleToggleReaction)
	r.Delete("/{postID}", h.HandleDelete)
	return r
}
