package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favorites/internal/host"
	"github.com/MrSnakeDoc/favorites/internal/host/hosttest"
)

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestSortByNameCaseInsensitive(t *testing.T) {
	entries := []Entry{{Name: "b"}, {Name: "A"}, {Name: "d"}, {Name: "C"}}
	p := host.NewProbe(nil)

	asc := SortEntries(entries, SortByName, Ascending, p)
	assert.Equal(t, []string{"A", "b", "C", "d"}, names(asc))

	desc := SortEntries(entries, SortByName, Descending, p)
	assert.Equal(t, []string{"d", "C", "b", "A"}, names(desc))

	// The input is left untouched.
	assert.Equal(t, []string{"b", "A", "d", "C"}, names(entries))
}

func TestSortByKindTieBreaksByNameAscending(t *testing.T) {
	entries := []Entry{
		{Name: "zeta", Kind: "Folder"},
		{Name: "rock", Kind: "Texture"},
		{Name: "Alpha", Kind: "folder"},
	}
	p := host.NewProbe(nil)

	desc := SortEntries(entries, SortByKind, Descending, p)
	assert.Equal(t, []string{"rock", "Alpha", "zeta"}, names(desc))

	asc := SortEntries(entries, SortByKind, Ascending, p)
	assert.Equal(t, []string{"Alpha", "zeta", "rock"}, names(asc))
}

func TestSortIsStable(t *testing.T) {
	entries := []Entry{
		{Name: "same", StableID: "1"},
		{Name: "SAME", StableID: "2"},
		{Name: "Same", StableID: "3"},
	}

	for _, order := range []SortOrder{Ascending, Descending} {
		out := SortEntries(entries, SortByName, order, host.NewProbe(nil))
		ids := []string{out[0].StableID, out[1].StableID, out[2].StableID}
		assert.Equal(t, []string{"1", "2", "3"}, ids, "order %s", order)
	}
}

func TestSortByDateAdded(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Name: "second", DateAdded: base.Add(time.Hour)},
		{Name: "first", DateAdded: base},
		{Name: "third", DateAdded: base.Add(2 * time.Hour)},
	}

	asc := SortEntries(entries, SortByDateAdded, Ascending, host.NewProbe(nil))
	assert.Equal(t, []string{"first", "second", "third"}, names(asc))

	desc := SortEntries(entries, SortByDateAdded, Descending, host.NewProbe(nil))
	assert.Equal(t, []string{"third", "second", "first"}, names(desc))
}

func TestSortByDateUpdatedUsesLiveModificationTime(t *testing.T) {
	fake := hosttest.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Tracked dates say old < fresh; the filesystem says the opposite.
	fake.Put("Assets/old.png", "Texture2D", base.Add(10*time.Hour))
	fake.Put("Assets/fresh.png", "Texture2D", base.Add(time.Hour))

	entries := []Entry{
		{Name: "old", Path: "Assets/old.png", DateUpdated: base},
		{Name: "fresh", Path: "Assets/fresh.png", DateUpdated: base.Add(5 * time.Hour)},
		// Missing on disk: falls back to DateUpdated.
		{Name: "gone", Path: "Assets/gone.png", DateUpdated: base.Add(3 * time.Hour)},
	}

	asc := SortEntries(entries, SortByDateUpdated, Ascending, host.NewProbe(fake))
	assert.Equal(t, []string{"fresh", "gone", "old"}, names(asc))
}

func TestParseSortKeyAndOrder(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{in: "name", want: SortByName},
		{in: "Type", want: SortByKind},
		{in: "kind", want: SortByKind},
		{in: "added", want: SortByDateAdded},
		{in: "modified", want: SortByDateUpdated},
		{in: "dateUpdated", want: SortByDateUpdated},
		{in: "", want: SortByName},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseSortKey("size")
	assert.Error(t, err)

	o, err := ParseSortOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, o)

	_, err = ParseSortOrder("sideways")
	assert.Error(t, err)
}

func TestSortGroups(t *testing.T) {
	groups := []Group{
		{ID: "c", SortOrder: 2},
		{ID: "a", SortOrder: 0},
		{ID: "b", SortOrder: 1},
		{ID: "a2", SortOrder: 0},
	}
	out := SortGroups(groups)
	ids := make([]string, len(out))
	for i, g := range out {
		ids[i] = g.ID
	}
	assert.Equal(t, []string{"a", "a2", "b", "c"}, ids)
}
