package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/logger"
)

const storeCheckTimeout = 2 * time.Second

type readyzResponse struct {
	Ready     bool   `json:"ready"`
	Store     string `json:"store"`
	Favorites int    `json:"favorites"`
	Error     string `json:"error,omitempty"`
}

// Readyz reports whether the backing store is reachable.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{
			Ready:     true,
			Store:     d.StoreKind,
			Favorites: d.Registry.Count(),
		}

		if d.StoreCheck != nil {
			ctx, cancel := context.WithTimeout(r.Context(), storeCheckTimeout)
			defer cancel()
			if err := d.StoreCheck(ctx); err != nil {
				d.Logger.Warn("store not ready", logger.Error(err))
				resp.Ready = false
				resp.Error = err.Error()
				writeJSON(w, d, http.StatusServiceUnavailable, resp)
				return
			}
		}

		writeJSON(w, d, http.StatusOK, resp)
	}
}
