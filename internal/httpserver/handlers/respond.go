package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/domain"
	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/panel"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type favoriteResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Kind        string    `json:"kind"`
	GroupID     string    `json:"groupId,omitempty"`
	DateAdded   time.Time `json:"dateAdded"`
	DateUpdated time.Time `json:"dateUpdated"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Collapsed   bool      `json:"collapsed"`
	SortOrder   int       `json:"sortOrder"`
	DateCreated time.Time `json:"dateCreated"`
}

func toFavorites(entries []domain.Entry) []favoriteResponse {
	out := make([]favoriteResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, favoriteResponse{
			ID:          e.StableID,
			Name:        e.Name,
			Path:        e.Path,
			Kind:        e.Kind,
			GroupID:     e.GroupID,
			DateAdded:   e.DateAdded,
			DateUpdated: e.DateUpdated,
		})
	}
	return out
}

func toGroups(groups []domain.Group) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse{
			ID:          g.ID,
			Name:        g.Name,
			Collapsed:   g.Collapsed,
			SortOrder:   g.SortOrder,
			DateCreated: g.DateCreated,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, d deps.Deps, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, d deps.Deps, status int, msg string) {
	writeJSON(w, d, status, errorResponse{Error: msg})
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// panelState reads ?sort= and ?order=.
func panelState(r *http.Request) (panel.SortState, error) {
	q := r.URL.Query()
	return panel.ParseSortState(q.Get("sort"), q.Get("order"))
}
