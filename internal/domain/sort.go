package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/host"
)

// SortKey selects the field entries are ordered by.
type SortKey int

const (
	SortByName SortKey = iota
	SortByKind
	SortByDateAdded
	// SortByDateUpdated orders by the live file modification date, not by
	// the tracked DateUpdated field.
	SortByDateUpdated
)

var sortKeyNames = map[SortKey]string{
	SortByName:        "name",
	SortByKind:        "kind",
	SortByDateAdded:   "added",
	SortByDateUpdated: "modified",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey accepts the canonical names plus a few aliases.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return SortByName, nil
	case "kind", "type":
		return SortByKind, nil
	case "added", "dateadded", "date_added":
		return SortByDateAdded, nil
	case "modified", "updated", "dateupdated", "date_updated":
		return SortByDateUpdated, nil
	default:
		return SortByName, fmt.Errorf("unknown sort key %q", s)
	}
}

// SortOrder is the direction of a sort.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseSortOrder accepts asc/desc and their long forms.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort order %q", s)
	}
}

// SortEntries returns a stably sorted copy of entries.
//
// Name and kind compare case-insensitively. Entries of the same kind are
// always ordered by name ascending, whatever the outer order is.
func SortEntries(entries []Entry, key SortKey, order SortOrder, p host.Probe) []Entry {
	out := slices.Clone(entries)

	switch key {
	case SortByName:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return directed(compareFold(a.Name, b.Name), order)
		})
	case SortByKind:
		slices.SortStableFunc(out, func(a, b Entry) int {
			if c := compareFold(a.Kind, b.Kind); c != 0 {
				return directed(c, order)
			}
			return compareFold(a.Name, b.Name)
		})
	case SortByDateAdded:
		slices.SortStableFunc(out, func(a, b Entry) int {
			return directed(a.DateAdded.Compare(b.DateAdded), order)
		})
	case SortByDateUpdated:
		out = sortByModification(out, order, p)
	}

	return out
}

// sortByModification probes each entry once before sorting.
func sortByModification(entries []Entry, order SortOrder, p host.Probe) []Entry {
	type keyed struct {
		entry Entry
		mtime time.Time
	}

	items := make([]keyed, len(entries))
	for i, e := range entries {
		items[i] = keyed{entry: e, mtime: e.FileModificationDate(p)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return directed(a.mtime.Compare(b.mtime), order)
	})

	for i := range items {
		entries[i] = items[i].entry
	}
	return entries
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}

func directed(c int, order SortOrder) int {
	if order == Descending {
		return -c
	}
	return c
}
