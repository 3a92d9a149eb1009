package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/favorites/internal/domain"
	"github.com/MrSnakeDoc/favorites/internal/httpserver/deps"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type idResponse struct {
	ID string `json:"id"`
}

// updateGroupRequest carries the fields to change; nil fields are left alone.
type updateGroupRequest struct {
	Name      *string `json:"name"`
	Collapsed *bool   `json:"collapsed"`
	SortOrder *int    `json:"sortOrder"`
}

// ListGroups returns the groups ordered by sort order.
func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d, http.StatusOK, toGroups(domain.SortGroups(d.Registry.Groups())))
	}
}

// CreateGroup creates a group; a blank name gets the default time-based name.
func CreateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGroupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, d, http.StatusCreated, idResponse{ID: d.Commands.CreateGroup(req.Name)})
	}
}

// UpdateGroup renames, collapses/expands or reorders a group.
func UpdateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req updateGroupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		if _, ok := d.Registry.Group(id); !ok {
			writeError(w, d, http.StatusNotFound, "group not found")
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			writeError(w, d, http.StatusBadRequest, "group name cannot be empty")
			return
		}

		if req.Name != nil {
			d.Registry.RenameGroup(id, *req.Name)
		}
		if req.Collapsed != nil {
			d.Registry.SetGroupCollapsed(id, *req.Collapsed)
		}
		if req.SortOrder != nil {
			d.Registry.SetGroupSortOrder(id, *req.SortOrder)
		}

		g, ok := d.Registry.Group(id)
		if !ok {
			writeError(w, d, http.StatusNotFound, "group not found")
			return
		}
		writeJSON(w, d, http.StatusOK, toGroups([]domain.Group{g})[0])
	}
}

// DeleteGroup removes a group; its favorites become ungrouped.
func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.Registry.DeleteGroup(chi.URLParam(r, "id")) {
			writeError(w, d, http.StatusNotFound, "group not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GroupFavorites lists the favorites of one group, sorted like ListFavorites.
func GroupFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Registry.Group(id); !ok {
			writeError(w, d, http.StatusNotFound, "group not found")
			return
		}
		state, err := panelState(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		entries := domain.SortEntries(d.Registry.InGroup(id), state.Key, state.Order, d.Probe)
		writeJSON(w, d, http.StatusOK, toFavorites(entries))
	}
}
