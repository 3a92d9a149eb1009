// Package registry holds the favorites: an in-memory set of entries and
// groups behind one mutex, persisted as a whole on every change.
//
// Every operation is synchronous. Validation failures are reported as false
// or zero results, host failures degrade through host.Probe, and save
// failures are logged without rolling back the in-memory change.
package registry

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/domain"
	"github.com/MrSnakeDoc/favorites/internal/host"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/metrics"
	"github.com/MrSnakeDoc/favorites/internal/store"
)

// Options configures Open. Store and Host are required; the rest default.
type Options struct {
	Host    host.Host
	Store   store.Store
	Logger  logger.Logger
	Metrics *metrics.Metrics

	// Now overrides the clock, for tests.
	Now func() time.Time
}

type Registry struct {
	mu      sync.Mutex
	entries []domain.Entry
	groups  []domain.Group

	probe   host.Probe
	store   store.Store
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// dirty is set while the in-memory state differs from the last
	// successful save.
	dirty bool
}

// Open builds a registry and loads the persisted document. Load problems
// are logged and leave the registry empty; Open itself never fails.
func Open(opts Options) *Registry {
	r := &Registry{
		probe:   host.NewProbe(opts.Host),
		store:   opts.Store,
		log:     opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}
	if r.store == nil {
		r.store = store.NewMemory()
	}

	r.load()
	return r
}

// Close retries the save of a mutation that failed to persist. A registry
// that only served reads, or whose load failed, leaves the store untouched.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return nil
	}
	return r.persist()
}

func (r *Registry) load() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = []domain.Entry{}
	r.groups = []domain.Group{}

	doc, err := r.store.Load()
	if err != nil {
		r.log.Warn("failed to load favorites, starting empty",
			logger.String("location", r.store.Location()),
			logger.Error(err))
		r.metrics.LoadFailed()
		return
	}
	if doc == nil {
		r.log.Debug("no favorites persisted yet", logger.String("location", r.store.Location()))
		return
	}

	entries, groups := doc.ToDomain(r.now())

	seen := make(map[string]struct{}, len(entries))
	dropped := 0
	for _, e := range entries {
		if _, dup := seen[e.StableID]; dup || !e.IsValid(r.probe) {
			dropped++
			continue
		}
		seen[e.StableID] = struct{}{}
		r.entries = append(r.entries, e)
	}

	groupIDs := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.ID == "" {
			continue
		}
		if _, dup := groupIDs[g.ID]; dup {
			continue
		}
		groupIDs[g.ID] = struct{}{}
		r.groups = append(r.groups, g)
	}

	r.metrics.SetSize(len(r.entries), len(r.groups))
	r.log.Info("favorites loaded",
		logger.String("location", r.store.Location()),
		logger.Int("entries", len(r.entries)),
		logger.Int("groups", len(r.groups)),
		logger.Int("dropped", dropped))
}

// save persists the full state after a mutation. Callers hold the mutex.
func (r *Registry) save() {
	r.metrics.SetSize(len(r.entries), len(r.groups))

	if err := r.persist(); err != nil {
		r.log.Error("failed to save favorites",
			logger.String("location", r.store.Location()),
			logger.Error(err))
		r.metrics.SaveFailed()
	}
}

func (r *Registry) persist() error {
	if err := r.store.Save(store.FromDomain(r.entries, r.groups)); err != nil {
		r.dirty = true
		return err
	}
	r.dirty = false
	return nil
}

func (r *Registry) indexOf(id string) int {
	return slices.IndexFunc(r.entries, func(e domain.Entry) bool { return e.StableID == id })
}

func (r *Registry) groupIndexOf(id string) int {
	return slices.IndexFunc(r.groups, func(g domain.Group) bool { return g.ID == id })
}

// ─────────────────────────────────────────────────────────────────
// Entries
// ─────────────────────────────────────────────────────────────────

// Add favorites the resource at path. It fails on an empty path, an identity
// the host cannot resolve, or an identity that is already a favorite.
func (r *Registry) Add(path string) bool {
	if path == "" {
		r.metrics.Operation("add", false)
		return false
	}
	id, ok := r.probe.Identity(path)
	if !ok {
		r.metrics.Operation("add", false)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(id) >= 0 {
		r.metrics.Operation("add", false)
		return false
	}

	kind := r.probe.Kind(path)
	r.entries = append(r.entries, domain.NewEntry(path, kind, id, r.now()))
	r.save()

	r.log.Debug("favorite added", logger.String("path", path), logger.String("id", id))
	r.metrics.Operation("add", true)
	return true
}

// Remove deletes the entry with id.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		r.metrics.Operation("remove", false)
		return false
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	r.save()

	r.metrics.Operation("remove", true)
	return true
}

// IsFavorite reports whether the resource at path is a favorite. Paths the
// host cannot resolve are not favorites.
func (r *Registry) IsFavorite(path string) bool {
	id, ok := r.probe.Identity(path)
	if !ok {
		return false
	}
	return r.IsFavoriteByID(id)
}

func (r *Registry) IsFavoriteByID(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.indexOf(id) >= 0
}

// Get returns a copy of the entry with id.
func (r *Registry) Get(id string) (domain.Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domain.Entry{}, false
	}
	return r.entries[i], true
}

// Touch marks the entry as used now.
func (r *Registry) Touch(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.touchLocked(id)
}

func (r *Registry) touchLocked(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		r.metrics.Operation("touch", false)
		return false
	}
	r.entries[i].Touch(r.now())
	r.save()

	r.metrics.Operation("touch", true)
	return true
}

// Open touches the entry and returns where its resource lives now, falling
// back to the stored path when the identity no longer resolves.
func (r *Registry) Open(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.touchLocked(id) {
		return "", false
	}
	e := r.entries[r.indexOf(id)]
	if current, ok := r.probe.PathOf(e.StableID); ok {
		return current, true
	}
	return e.Path, true
}

// Count is the number of entries, without running cleanup.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// ClearAll removes every entry. Groups are kept.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = []domain.Entry{}
	r.save()
	r.metrics.Operation("clear", true)
}

// CleanupInvalid removes entries whose resource is gone and returns how many
// were removed. It saves only when something was removed.
func (r *Registry) CleanupInvalid() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cleanupLocked()
}

func (r *Registry) cleanupLocked() int {
	kept := r.entries[:0:0]
	removed := 0
	for _, e := range r.entries {
		if e.IsValid(r.probe) {
			kept = append(kept, e)
			continue
		}
		removed++
		r.log.Info("removing stale favorite",
			logger.String("path", e.Path),
			logger.String("id", e.StableID))
	}
	if removed == 0 {
		return 0
	}

	r.entries = kept
	r.save()
	r.metrics.CleanedUp(removed)
	return removed
}

// ─────────────────────────────────────────────────────────────────
// Queries (each runs cleanup first)
// ─────────────────────────────────────────────────────────────────

// All returns every valid entry in insertion order.
func (r *Registry) All() []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanupLocked()
	return slices.Clone(r.entries)
}

// Sorted returns every valid entry ordered by key and order.
func (r *Registry) Sorted(key domain.SortKey, order domain.SortOrder) []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanupLocked()
	return domain.SortEntries(r.entries, key, order, r.probe)
}

// InGroup returns the valid entries assigned to groupID.
func (r *Registry) InGroup(groupID string) []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanupLocked()
	return r.filterLocked(func(e domain.Entry) bool { return e.GroupID == groupID })
}

// Ungrouped returns the valid entries that belong to no group.
func (r *Registry) Ungrouped() []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanupLocked()
	return r.filterLocked(domain.Entry.Ungrouped)
}

func (r *Registry) filterLocked(keep func(domain.Entry) bool) []domain.Entry {
	out := []domain.Entry{}
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────

// Groups returns the groups in stored order.
func (r *Registry) Groups() []domain.Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.groups)
}

// Group returns a copy of the group with id.
func (r *Registry) Group(id string) (domain.Group, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.groupIndexOf(id)
	if i < 0 {
		return domain.Group{}, false
	}
	return r.groups[i], true
}

// CreateGroup appends a group at the end of the sort order and returns its id.
func (r *Registry) CreateGroup(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := domain.NewGroup(name, len(r.groups), r.now())
	r.groups = append(r.groups, g)
	r.save()

	r.metrics.Operation("create_group", true)
	return g.ID
}

// DeleteGroup removes the group and ungroups its members.
func (r *Registry) DeleteGroup(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.groupIndexOf(id)
	if i < 0 {
		r.metrics.Operation("delete_group", false)
		return false
	}
	r.groups = slices.Delete(r.groups, i, i+1)
	for j := range r.entries {
		if r.entries[j].GroupID == id {
			r.entries[j].GroupID = ""
		}
	}
	r.save()

	r.metrics.Operation("delete_group", true)
	return true
}

// RenameGroup fails when the group is missing or name is blank.
func (r *Registry) RenameGroup(id, name string) bool {
	if strings.TrimSpace(name) == "" {
		r.metrics.Operation("rename_group", false)
		return false
	}
	return r.updateGroup("rename_group", id, func(g *domain.Group) { g.Name = name })
}

func (r *Registry) SetGroupCollapsed(id string, collapsed bool) bool {
	return r.updateGroup("collapse_group", id, func(g *domain.Group) { g.Collapsed = collapsed })
}

// SetGroupSortOrder repositions a group. Other groups keep their order values.
func (r *Registry) SetGroupSortOrder(id string, order int) bool {
	return r.updateGroup("order_group", id, func(g *domain.Group) { g.SortOrder = order })
}

func (r *Registry) updateGroup(op, id string, apply func(*domain.Group)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.groupIndexOf(id)
	if i < 0 {
		r.metrics.Operation(op, false)
		return false
	}
	apply(&r.groups[i])
	r.save()

	r.metrics.Operation(op, true)
	return true
}

// MoveToGroup assigns the entry to groupID; an empty groupID ungroups it.
// Moving into an unknown group fails.
func (r *Registry) MoveToGroup(id, groupID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 || (groupID != "" && r.groupIndexOf(groupID) < 0) {
		r.metrics.Operation("move", false)
		return false
	}
	r.entries[i].GroupID = groupID
	r.save()

	r.metrics.Operation("move", true)
	return true
}
