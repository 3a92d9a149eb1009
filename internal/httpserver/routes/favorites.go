package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/httpserver/handlers"
)

func init() { Register("favorites", registerFavorites) }

func registerFavorites(r chi.Router, d deps.Deps) {
	r.Route("/api/favorites", func(r chi.Router) {
		r.Get("/", handlers.ListFavorites(d))
		r.Post("/", handlers.AddFavorites(d))
		r.Delete("/", handlers.ClearFavorites(d))
		r.Post("/remove", handlers.RemoveFavorites(d))
		r.Post("/cleanup", handlers.Cleanup(d))
		r.Delete("/{id}", handlers.RemoveFavorite(d))
		r.Post("/{id}/open", handlers.OpenFavorite(d))
		r.Put("/{id}/group", handlers.MoveFavorite(d))
	})
	r.Get("/api/panel", handlers.Panel(d))
}
