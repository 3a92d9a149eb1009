package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favorites/internal/domain"
	"github.com/MrSnakeDoc/favorites/internal/host"
	"github.com/MrSnakeDoc/favorites/internal/host/hosttest"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/metrics"
	"github.com/MrSnakeDoc/favorites/internal/store"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	host  *hosttest.Fake
	store store.Store
	clock *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		host:  hosttest.New(),
		store: store.NewFile(filepath.Join(t.TempDir(), "Editor", "FavoriteAssetsData.json")),
		clock: &clock{t: base},
	}
}

func (f *fixture) open() *Registry {
	return Open(Options{
		Host:    f.host,
		Store:   f.store,
		Logger:  logger.New("error", false),
		Metrics: metrics.New(),
		Now:     f.clock.now,
	})
}

func (f *fixture) persisted(t *testing.T) *store.Document {
	t.Helper()
	doc, err := f.store.Load()
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc
}

func ids(entries []domain.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.StableID
	}
	return out
}

func names(entries []domain.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestAddRejectsDuplicateIdentity(t *testing.T) {
	f := newFixture(t)
	f.host.Put("Assets/hero.png", "Texture2D", base)
	r := f.open()

	assert.True(t, r.Add("Assets/hero.png"))
	assert.False(t, r.Add("Assets/hero.png"))
	assert.False(t, r.Add("Assets/hero.png/"), "same identity through another spelling")
	assert.Equal(t, 1, r.Count())
	assert.Len(t, f.persisted(t).Favorites, 1)
}

func TestAddDerivesMetadata(t *testing.T) {
	f := newFixture(t)
	texID := f.host.Put("Assets/Art/hero.png", "Texture2D", base)
	dirID := f.host.PutFolder("Assets/Art", base)
	r := f.open()

	require.True(t, r.Add("Assets/Art/hero.png"))
	require.True(t, r.Add("Assets/Art/"))

	tex, ok := r.Get(texID)
	require.True(t, ok)
	assert.Equal(t, "hero", tex.Name)
	assert.Equal(t, "Texture2D", tex.Kind)
	assert.Equal(t, "Assets/Art/hero.png", tex.Path)
	assert.True(t, tex.Ungrouped())
	assert.True(t, tex.DateAdded.Equal(base))
	assert.True(t, tex.DateUpdated.Equal(base))

	dir, ok := r.Get(dirID)
	require.True(t, ok)
	assert.Equal(t, "Art", dir.Name)
	assert.Equal(t, host.KindFolder, dir.Kind)
}

func TestAddFailures(t *testing.T) {
	f := newFixture(t)
	f.host.Put("Assets/broken.png", "Texture2D", base)
	f.host.Put("Assets/panics.png", "Texture2D", base)
	f.host.FailIdentity["Assets/broken.png"] = true
	f.host.PanicOn["Assets/panics.png"] = true
	r := f.open()

	assert.False(t, r.Add(""))
	assert.False(t, r.Add("Assets/missing.png"))
	assert.False(t, r.Add("Assets/broken.png"))
	assert.False(t, r.Add("Assets/panics.png"))
	assert.Zero(t, r.Count())

	doc, err := f.store.Load()
	require.NoError(t, err)
	assert.Nil(t, doc, "failed adds never persist")
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	id := f.host.Put("Assets/a.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))

	assert.True(t, r.Remove(id))
	assert.False(t, r.Remove(id))
	assert.False(t, r.IsFavoriteByID(id))
	assert.Empty(t, f.persisted(t).Favorites)
}

func TestIsFavorite(t *testing.T) {
	f := newFixture(t)
	id := f.host.Put("Assets/a.png", "Texture2D", base)
	f.host.Put("Assets/b.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))

	assert.True(t, r.IsFavorite("Assets/a.png"))
	assert.True(t, r.IsFavoriteByID(id))
	assert.False(t, r.IsFavorite("Assets/b.png"))
	assert.False(t, r.IsFavorite("Assets/nope.png"))
	assert.False(t, r.IsFavorite(""))
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	aID := f.host.Put("Assets/a.png", "Texture2D", base)
	f.host.PutFolder("Assets/Scenes", base)

	r := f.open()
	require.True(t, r.Add("Assets/a.png"))
	f.clock.advance(time.Minute)
	require.True(t, r.Add("Assets/Scenes"))
	gid := r.CreateGroup("Art")
	require.True(t, r.MoveToGroup(aID, gid))
	require.True(t, r.SetGroupCollapsed(gid, true))
	f.clock.advance(90 * time.Second)
	require.True(t, r.Touch(aID))

	wantEntries := r.All()
	wantGroups := r.Groups()
	require.NoError(t, r.Close())

	reloaded := f.open()
	gotEntries := reloaded.All()
	gotGroups := reloaded.Groups()

	require.Len(t, gotEntries, len(wantEntries))
	for i := range wantEntries {
		want, got := wantEntries[i], gotEntries[i]
		assert.Equal(t, want.StableID, got.StableID)
		assert.Equal(t, want.Path, got.Path)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.GroupID, got.GroupID)
		assert.True(t, want.DateAdded.Equal(got.DateAdded))
		assert.True(t, want.DateUpdated.Equal(got.DateUpdated))
	}

	require.Len(t, gotGroups, 1)
	assert.Equal(t, wantGroups[0].ID, gotGroups[0].ID)
	assert.Equal(t, "Art", gotGroups[0].Name)
	assert.True(t, gotGroups[0].Collapsed)
	assert.Equal(t, 0, gotGroups[0].SortOrder)
	assert.True(t, wantGroups[0].DateCreated.Equal(gotGroups[0].DateCreated))
}

func TestDeleteGroupCascades(t *testing.T) {
	f := newFixture(t)
	a := f.host.Put("Assets/a.png", "Texture2D", base)
	b := f.host.Put("Assets/b.png", "Texture2D", base)
	c := f.host.Put("Assets/c.png", "Texture2D", base)
	r := f.open()
	for _, p := range []string{"Assets/a.png", "Assets/b.png", "Assets/c.png"} {
		require.True(t, r.Add(p))
	}
	g := r.CreateGroup("G")
	other := r.CreateGroup("Other")
	require.True(t, r.MoveToGroup(a, g))
	require.True(t, r.MoveToGroup(b, g))
	require.True(t, r.MoveToGroup(c, other))

	require.True(t, r.DeleteGroup(g))
	assert.False(t, r.DeleteGroup(g))

	_, ok := r.Group(g)
	assert.False(t, ok)
	assert.Equal(t, 3, r.Count())
	assert.ElementsMatch(t, []string{a, b}, ids(r.Ungrouped()))
	assert.Equal(t, []string{c}, ids(r.InGroup(other)))

	for _, rec := range f.persisted(t).Favorites {
		if rec.AssetGUID != c {
			assert.Empty(t, rec.GroupID)
		}
	}
}

func TestQueriesDropDeletedResources(t *testing.T) {
	queries := map[string]func(r *Registry) []domain.Entry{
		"All":       (*Registry).All,
		"Ungrouped": (*Registry).Ungrouped,
		"Sorted": func(r *Registry) []domain.Entry {
			return r.Sorted(domain.SortByName, domain.Ascending)
		},
		"InGroup": func(r *Registry) []domain.Entry { return r.InGroup("none") },
	}

	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.host.Put("Assets/keep.png", "Texture2D", base)
			gone := f.host.Put("Assets/gone.png", "Texture2D", base)
			r := f.open()
			require.True(t, r.Add("Assets/keep.png"))
			require.True(t, r.Add("Assets/gone.png"))

			f.host.Delete("Assets/gone.png")
			query(r)

			assert.False(t, r.IsFavoriteByID(gone))
			assert.Equal(t, 1, r.Count())
			assert.Len(t, f.persisted(t).Favorites, 1)
		})
	}
}

func TestMovedResourceStaysValid(t *testing.T) {
	f := newFixture(t)
	id := f.host.Put("Assets/a.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))

	f.host.Move("Assets/a.png", "Assets/Moved/a.png")
	assert.Equal(t, []string{id}, ids(r.All()))

	path, ok := r.Open(id)
	assert.True(t, ok)
	assert.Equal(t, "Assets/Moved/a.png", path)

	_, ok = r.Open("unknown")
	assert.False(t, ok)
}

func TestSortedByName(t *testing.T) {
	f := newFixture(t)
	r := f.open()
	for _, n := range []string{"b", "A", "d", "C"} {
		p := "Assets/" + n + ".txt"
		f.host.Put(p, "TextAsset", base)
		require.True(t, r.Add(p))
	}

	assert.Equal(t, []string{"A", "b", "C", "d"}, names(r.Sorted(domain.SortByName, domain.Ascending)))
	assert.Equal(t, []string{"d", "C", "b", "A"}, names(r.Sorted(domain.SortByName, domain.Descending)))
}

func TestSortedByKindKeepsNameAscending(t *testing.T) {
	f := newFixture(t)
	f.host.PutFolder("Assets/Zeta", base)
	f.host.Put("Assets/rock.png", "Texture", base)
	f.host.PutFolder("Assets/Alpha", base)
	r := f.open()
	for _, p := range []string{"Assets/Zeta", "Assets/rock.png", "Assets/Alpha"} {
		require.True(t, r.Add(p))
	}

	assert.Equal(t, []string{"rock", "Alpha", "Zeta"}, names(r.Sorted(domain.SortByKind, domain.Descending)))
	assert.Equal(t, []string{"Alpha", "Zeta", "rock"}, names(r.Sorted(domain.SortByKind, domain.Ascending)))
}

func TestSortedByModificationUsesLiveMtime(t *testing.T) {
	f := newFixture(t)
	f.host.Put("Assets/old.png", "Texture2D", base.Add(-time.Hour))
	f.host.Put("Assets/new.png", "Texture2D", base.Add(-2*time.Hour))
	r := f.open()
	require.True(t, r.Add("Assets/old.png"))
	require.True(t, r.Add("Assets/new.png"))

	f.host.Touch("Assets/new.png", base.Add(time.Hour))

	assert.Equal(t, []string{"old", "new"}, names(r.Sorted(domain.SortByDateUpdated, domain.Ascending)))
	assert.Equal(t, []string{"new", "old"}, names(r.Sorted(domain.SortByDateUpdated, domain.Descending)))
}

func TestTouchIsMonotonic(t *testing.T) {
	f := newFixture(t)
	id := f.host.Put("Assets/a.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))

	f.clock.advance(time.Hour)
	require.True(t, r.Touch(id))
	first, _ := r.Get(id)
	assert.True(t, first.DateUpdated.Equal(base.Add(time.Hour)))

	// The wall clock steps back.
	f.clock.advance(-3 * time.Hour)
	require.True(t, r.Touch(id))
	second, _ := r.Get(id)

	assert.False(t, second.DateUpdated.Before(second.DateAdded))
	assert.False(t, second.DateUpdated.Before(first.DateUpdated))

	assert.False(t, r.Touch("unknown"))
}

func TestCleanupIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.host.Put("Assets/a.png", "Texture2D", base)
	f.host.Put("Assets/b.png", "Texture2D", base)
	f.host.Put("Assets/c.png", "Texture2D", base)
	r := f.open()
	for _, p := range []string{"Assets/a.png", "Assets/b.png", "Assets/c.png"} {
		require.True(t, r.Add(p))
	}

	f.host.Delete("Assets/a.png")
	f.host.FailStat["Assets/b.png"] = true

	assert.Equal(t, 2, r.CleanupInvalid())
	assert.Equal(t, 0, r.CleanupInvalid())
	assert.Equal(t, 1, r.Count())
}

func TestCleanupSavesOnlyWhenSomethingWasRemoved(t *testing.T) {
	mem := store.NewMemory()
	fake := hosttest.New()
	fake.Put("Assets/a.png", "Texture2D", base)
	r := Open(Options{Host: fake, Store: mem, Logger: logger.New("error", false)})
	require.True(t, r.Add("Assets/a.png"))
	require.Equal(t, 1, mem.Saves())

	assert.Zero(t, r.CleanupInvalid())
	r.All()
	assert.Equal(t, 1, mem.Saves())

	fake.Delete("Assets/a.png")
	assert.Equal(t, 1, r.CleanupInvalid())
	assert.Equal(t, 2, mem.Saves())
}

func TestGroups(t *testing.T) {
	f := newFixture(t)
	r := f.open()

	first := r.CreateGroup("One")
	second := r.CreateGroup("")
	groups := r.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, 0, groups[0].SortOrder)
	assert.Equal(t, 1, groups[1].SortOrder)
	assert.Equal(t, second, groups[1].ID)
	assert.NotEqual(t, first, second)

	assert.True(t, r.RenameGroup(first, "Renamed"))
	assert.False(t, r.RenameGroup(first, ""))
	assert.False(t, r.RenameGroup(first, "   "))
	assert.False(t, r.RenameGroup("missing", "x"))
	g, _ := r.Group(first)
	assert.Equal(t, "Renamed", g.Name)

	assert.True(t, r.SetGroupSortOrder(first, 5))
	assert.False(t, r.SetGroupSortOrder("missing", 1))
	assert.False(t, r.SetGroupCollapsed("missing", true))

	persisted := f.persisted(t).Groups
	require.Len(t, persisted, 2)
	assert.Equal(t, "Renamed", persisted[0].Name)
	assert.Equal(t, 5, persisted[0].SortOrder)
}

func TestMoveToGroup(t *testing.T) {
	f := newFixture(t)
	id := f.host.Put("Assets/a.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))
	g := r.CreateGroup("G")

	assert.False(t, r.MoveToGroup("unknown", g))
	assert.False(t, r.MoveToGroup(id, "missing-group"))

	assert.True(t, r.MoveToGroup(id, g))
	assert.Equal(t, []string{id}, ids(r.InGroup(g)))
	assert.Empty(t, r.Ungrouped())

	assert.True(t, r.MoveToGroup(id, ""))
	assert.Empty(t, r.InGroup(g))
	assert.Equal(t, []string{id}, ids(r.Ungrouped()))
}

func TestClearAllKeepsGroups(t *testing.T) {
	f := newFixture(t)
	f.host.Put("Assets/a.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))
	r.CreateGroup("G")

	r.ClearAll()

	assert.Zero(t, r.Count())
	assert.Len(t, r.Groups(), 1)
	doc := f.persisted(t)
	assert.Empty(t, doc.Favorites)
	assert.Len(t, doc.Groups, 1)
}

func TestSnapshotsAreCopies(t *testing.T) {
	f := newFixture(t)
	id := f.host.Put("Assets/a.png", "Texture2D", base)
	r := f.open()
	require.True(t, r.Add("Assets/a.png"))
	g := r.CreateGroup("G")

	all := r.All()
	all[0].Name = "mutated"
	all[0].GroupID = g
	groups := r.Groups()
	groups[0].Name = "mutated"

	e, _ := r.Get(id)
	assert.Equal(t, "a", e.Name)
	assert.Empty(t, e.GroupID)
	grp, _ := r.Group(g)
	assert.Equal(t, "G", grp.Name)
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	mem := store.NewMemory()
	mem.Err = errors.New("disk full")
	fake := hosttest.New()
	id := fake.Put("Assets/a.png", "Texture2D", base)
	r := Open(Options{Host: fake, Store: mem, Logger: logger.New("error", false), Metrics: metrics.New()})

	assert.True(t, r.Add("Assets/a.png"))
	assert.True(t, r.IsFavoriteByID(id))
	assert.Zero(t, mem.Saves())
	assert.Error(t, r.Close())
}

func TestCloseAfterFailedLoadKeepsStoredDocument(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "Editor", "FavoriteAssetsData.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	truncated := []byte(`{"favorites":[{"assetPath":"Assets/a.png","assetGuid":"abc","dateAddedTicks":0}],"groups":[`)
	require.NoError(t, os.WriteFile(path, truncated, 0o644))
	f.store = store.NewFile(path)

	r := f.open()
	assert.Empty(t, r.All())
	assert.Empty(t, r.Groups())
	require.NoError(t, r.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, truncated, got)
}

func TestCloseWithoutMutationDoesNotSave(t *testing.T) {
	fake := hosttest.New()
	id := fake.Put("Assets/a.png", "Texture2D", base)
	mem := store.NewMemory()
	require.NoError(t, mem.Save(&store.Document{
		Favorites: []store.EntryRecord{{AssetPath: "Assets/a.png", AssetName: "a", AssetType: "Texture2D", AssetGUID: id}},
	}))
	saves := mem.Saves()

	r := Open(Options{Host: fake, Store: mem, Logger: logger.New("error", false)})
	assert.Len(t, r.All(), 1)
	assert.Len(t, r.Sorted(domain.SortByName, domain.Ascending), 1)
	require.NoError(t, r.Close())

	assert.Equal(t, saves, mem.Saves())
}

func TestCloseRetriesFailedSave(t *testing.T) {
	mem := store.NewMemory()
	mem.Err = errors.New("disk full")
	fake := hosttest.New()
	id := fake.Put("Assets/a.png", "Texture2D", base)
	r := Open(Options{Host: fake, Store: mem, Logger: logger.New("error", false)})

	require.True(t, r.Add("Assets/a.png"))
	mem.Err = nil
	require.NoError(t, r.Close())
	assert.Equal(t, 1, mem.Saves())

	doc, err := mem.Load()
	require.NoError(t, err)
	require.Len(t, doc.Favorites, 1)
	assert.Equal(t, id, doc.Favorites[0].AssetGUID)

	require.NoError(t, r.Close())
	assert.Equal(t, 1, mem.Saves(), "nothing left to persist")
}

func TestLoadMalformedStartsEmpty(t *testing.T) {
	mem := store.NewMemory()
	mem.SetRaw([]byte("{ nope"))

	r := Open(Options{Host: hosttest.New(), Store: mem, Logger: logger.New("error", false)})

	assert.Zero(t, r.Count())
	assert.Empty(t, r.Groups())
}

func TestLoadDropsInvalidAndDuplicateRecords(t *testing.T) {
	fake := hosttest.New()
	live := fake.Put("Assets/live.png", "Texture2D", base)

	mem := store.NewMemory()
	require.NoError(t, mem.Save(&store.Document{
		Favorites: []store.EntryRecord{
			{AssetPath: "Assets/live.png", AssetName: "live", AssetType: "Texture2D", AssetGUID: live},
			{AssetPath: "Assets/live.png", AssetName: "dup", AssetType: "Texture2D", AssetGUID: live},
			{AssetPath: "Assets/gone.png", AssetName: "gone", AssetGUID: "ffff"},
			{AssetPath: "", AssetGUID: "eeee"},
		},
		Groups: []store.GroupRecord{{ID: "g1", Name: "G"}, {ID: "g1", Name: "dup"}, {Name: "no id"}},
	}))
	saves := mem.Saves()

	r := Open(Options{Host: fake, Store: mem, Logger: logger.New("error", false), Now: func() time.Time { return base }})

	e, ok := r.Get(live)
	require.True(t, ok)
	assert.Equal(t, "live", e.Name)
	assert.True(t, e.DateAdded.Equal(base), "unset ticks load as now")
	assert.Equal(t, 1, r.Count())
	require.Len(t, r.Groups(), 1)
	assert.Equal(t, "G", r.Groups()[0].Name)
	assert.Equal(t, saves, mem.Saves(), "loading does not write back")
}

func TestDefaultsWithoutOptionalCollaborators(t *testing.T) {
	r := Open(Options{})

	assert.False(t, r.Add("Assets/a.png"))
	assert.Empty(t, r.All())
	assert.NotEmpty(t, r.CreateGroup("G"))
	assert.NoError(t, r.Close())
}
