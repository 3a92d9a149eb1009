package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Group is a named, ordered, collapsible bucket of entries.
type Group struct {
	// ID is generated on creation and never changes.
	ID string

	// Name is the display name. The registry refuses empty names on rename.
	Name string

	// Collapsed is UI state persisted with the group.
	Collapsed bool

	// DateCreated is set once on creation.
	DateCreated time.Time

	// SortOrder positions the group among its siblings, lower first.
	SortOrder int
}

// NewGroup creates a group with a fresh id.
func NewGroup(name string, sortOrder int, now time.Time) Group {
	return Group{
		ID:          uuid.NewString(),
		Name:        name,
		DateCreated: now,
		SortOrder:   sortOrder,
	}
}

// SortGroups returns groups ordered by SortOrder. Equal orders keep their
// relative position.
func SortGroups(groups []Group) []Group {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b Group) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return out
}
