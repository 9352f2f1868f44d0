// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Resources live under a versioned /api/v1 prefix with a
// bare liveness endpoint at /health.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request. RealIP runs first so
	// the address captured on comment creation survives proxies.
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — liveness only, no dependencies touched.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Users, with their posts nested below them.
		r.Route("/users", func(r chi.Router) {
			r.Get("/", api.UsersList)
			r.Post("/", api.UserCreate)
			r.Get("/{userID}", api.UserGet)
			r.Put("/{userID}", api.UserUpdate)
			r.Patch("/{userID}", api.UserUpdate)
			r.Delete("/{userID}", api.UserDelete)

			r.Route("/{userID}/posts", func(r chi.Router) {
				r.Get("/", api.PostsList)
				r.Post("/", api.PostCreate)
				r.Get("/{postID}", api.PostGet)
				r.Put("/{postID}", api.PostUpdate)
				r.Patch("/{postID}", api.PostUpdate)
				r.Delete("/{postID}", api.PostDelete)
			})
		})

		// Posts, with comments nested below them and lifecycle members.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.PostsList)
			r.Post("/", api.PostCreate)
			r.Get("/{postID}", api.PostGet)
			r.Put("/{postID}", api.PostUpdate)
			r.Patch("/{postID}", api.PostUpdate)
			r.Delete("/{postID}", api.PostDelete)
			r.Patch("/{postID}/publish", api.PostPublish)
			r.Patch("/{postID}/unpublish", api.PostUnpublish)

			r.Route("/{postID}/comments", func(r chi.Router) {
				r.Get("/", api.CommentsListForPost)
				r.Post("/", api.CommentCreate)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.CategoriesList)
			r.Get("/tree", api.CategoriesTree)
			r.Post("/", api.CategoryCreate)
			r.Get("/{categoryID}", api.CategoryGet)
			r.Put("/{categoryID}", api.CategoryUpdate)
			r.Patch("/{categoryID}", api.CategoryUpdate)
			r.Delete("/{categoryID}", api.CategoryDelete)
		})

		// Top-level comment collection, independent of post nesting.
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", api.CommentsList)
			r.Post("/", api.CommentCreate)
			r.Get("/{commentID}", api.CommentGet)
			r.Put("/{commentID}", api.CommentUpdate)
			r.Patch("/{commentID}", api.CommentUpdate)
			r.Delete("/{commentID}", api.CommentDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
