// Package routes collects the API route groups. Each file registers its
// group from init so server.go only calls RegisterAll.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/logger"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type group struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var groups []group

// Register adds a named route group with optional middlewares of its own.
func Register(name string, reg Registrar, mws ...Middleware) {
	groups = append(groups, group{name: name, reg: reg, mws: mws})
}

// RegisterAll mounts every group on r. The shared middlewares run before the
// group's own.
func RegisterAll(r chi.Router, d deps.Deps, shared ...Middleware) {
	for _, g := range groups {
		mws := make([]Middleware, 0, len(shared)+len(g.mws))
		mws = append(mws, shared...)
		mws = append(mws, g.mws...)

		sub := r
		if len(mws) > 0 {
			sub = r.With(mws...)
		}
		g.reg(sub, d)
		d.Logger.Debug("routes mounted", logger.String("group", g.name), logger.Int("middlewares", len(mws)))
	}
}
