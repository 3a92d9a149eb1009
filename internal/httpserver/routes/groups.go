package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/httpserver/handlers"
)

func init() { Register("groups", registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	r.Route("/api/groups", func(r chi.Router) {
		r.Get("/", handlers.ListGroups(d))
		r.Post("/", handlers.CreateGroup(d))
		r.Patch("/{id}", handlers.UpdateGroup(d))
		r.Delete("/{id}", handlers.DeleteGroup(d))
		r.Get("/{id}/favorites", handlers.GroupFavorites(d))
	})
}
