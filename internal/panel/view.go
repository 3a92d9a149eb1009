// Package panel builds the favorites panel: a status line, the ungrouped
// entries, then every group with its entries, all in the current sort.
package panel

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/domain"
	"github.com/MrSnakeDoc/favorites/internal/host"
)

// EmptyMessage is shown when there are no favorites at all.
const EmptyMessage = "No favorite assets yet."

// Source is the registry surface the panel reads.
type Source interface {
	All() []domain.Entry
	Groups() []domain.Group
}

type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	GroupID   string    `json:"groupId,omitempty"`
	DateAdded time.Time `json:"dateAdded"`
	Modified  time.Time `json:"modified"`
}

type GroupView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
	SortOrder int    `json:"sortOrder"`
	// Count includes the entries hidden by a collapsed group.
	Count int    `json:"count"`
	Items []Item `json:"items"`
}

type View struct {
	Status    string      `json:"status"`
	Total     int         `json:"total"`
	Sort      string      `json:"sort"`
	Empty     bool        `json:"empty"`
	Ungrouped []Item      `json:"ungrouped"`
	Groups    []GroupView `json:"groups"`
}

// Builder renders views from a Source.
type Builder struct {
	src   Source
	probe host.Probe
}

func NewBuilder(src Source, probe host.Probe) *Builder {
	return &Builder{src: src, probe: probe}
}

// StatusLabel is the status bar text for count favorites.
func StatusLabel(count int) string {
	if count == 1 {
		return "1 favorite asset"
	}
	return fmt.Sprintf("%d favorite assets", count)
}

// Build takes one snapshot of the source and lays it out. Entries whose
// group no longer exists are shown as ungrouped.
func (b *Builder) Build(state SortState) View {
	entries := b.src.All()
	groups := domain.SortGroups(b.src.Groups())

	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}

	var ungrouped []domain.Entry
	members := make(map[string][]domain.Entry, len(groups))
	for _, e := range entries {
		if e.Ungrouped() || !known[e.GroupID] {
			ungrouped = append(ungrouped, e)
			continue
		}
		members[e.GroupID] = append(members[e.GroupID], e)
	}

	view := View{
		Status:    StatusLabel(len(entries)),
		Total:     len(entries),
		Sort:      state.String(),
		Empty:     len(entries) == 0,
		Ungrouped: b.items(ungrouped, state),
		Groups:    make([]GroupView, 0, len(groups)),
	}

	for _, g := range groups {
		gv := GroupView{
			ID:        g.ID,
			Name:      g.Name,
			Collapsed: g.Collapsed,
			SortOrder: g.SortOrder,
			Count:     len(members[g.ID]),
			Items:     []Item{},
		}
		if !g.Collapsed {
			gv.Items = b.items(members[g.ID], state)
		}
		view.Groups = append(view.Groups, gv)
	}

	return view
}

func (b *Builder) items(entries []domain.Entry, state SortState) []Item {
	sorted := domain.SortEntries(entries, state.Key, state.Order, b.probe)
	out := make([]Item, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, Item{
			ID:        e.StableID,
			Name:      e.Name,
			Path:      e.Path,
			Kind:      e.Kind,
			GroupID:   e.GroupID,
			DateAdded: e.DateAdded,
			Modified:  e.FileModificationDate(b.probe),
		})
	}
	return out
}
