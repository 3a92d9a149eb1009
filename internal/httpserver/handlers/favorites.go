package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/scheduler"
)

type pathsRequest struct {
	Paths []string `json:"paths"`
}

type countResponse struct {
	Count int `json:"count"`
}

type openResponse struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type moveRequest struct {
	GroupID string `json:"groupId"`
}

// ListFavorites returns every favorite, sorted by ?sort= and ?order=.
func ListFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := panelState(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, d, http.StatusOK, toFavorites(d.Registry.Sorted(state.Key, state.Order)))
	}
}

// AddFavorites adds {"paths": [...]} and reports how many were added.
func AddFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pathsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		if len(req.Paths) == 0 {
			writeError(w, d, http.StatusBadRequest, "paths is required")
			return
		}

		added := d.Commands.AddSelection(req.Paths)
		status := http.StatusOK
		if added > 0 {
			status = http.StatusCreated
		}
		writeJSON(w, d, status, countResponse{Count: added})
	}
}

// RemoveFavorite deletes the favorite named in the URL.
func RemoveFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !d.Registry.Remove(id) {
			writeError(w, d, http.StatusNotFound, "favorite not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveFavorites removes {"paths": [...]}, where each item is a path or an id.
func RemoveFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pathsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, d, http.StatusOK, countResponse{Count: d.Commands.RemoveSelection(req.Paths)})
	}
}

// ClearFavorites removes every favorite. It requires ?confirm=true.
func ClearFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.EqualFold(r.URL.Query().Get("confirm"), "true") {
			writeError(w, d, http.StatusBadRequest, "clearing all favorites requires confirm=true")
			return
		}
		d.Registry.ClearAll()
		d.Logger.Info("all favorites cleared", logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusNoContent)
	}
}

// OpenFavorite touches a favorite and returns its current path.
func OpenFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		path, ok := d.Registry.Open(id)
		if !ok {
			writeError(w, d, http.StatusNotFound, "favorite not found")
			return
		}
		writeJSON(w, d, http.StatusOK, openResponse{ID: id, Path: path})
	}
}

// MoveFavorite assigns a favorite to {"groupId": "..."}; an empty id ungroups it.
func MoveFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		if !d.Registry.MoveToGroup(chi.URLParam(r, "id"), req.GroupID) {
			writeError(w, d, http.StatusNotFound, "favorite or group not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Cleanup removes stale favorites now and reports how many went away.
func Cleanup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Metrics.CleanupRun(scheduler.TriggerManual)
		removed := d.Registry.CleanupInvalid()
		writeJSON(w, d, http.StatusOK, countResponse{Count: removed})
	}
}

// Panel returns the full panel view in the requested sort.
func Panel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := panelState(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, d, http.StatusOK, d.Panel.Build(state))
	}
}
