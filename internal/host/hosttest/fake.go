// Package hosttest provides a deterministic in-memory Host for tests.
package hosttest

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/host"
)

type resource struct {
	id    string
	kind  string
	mtime time.Time
}

// Fake is an in-memory resource tree. Identities are assigned on Put and
// follow the resource through Move.
type Fake struct {
	mu        sync.Mutex
	resources map[string]*resource // path -> resource
	nextID    int

	// FailIdentity, FailStat and PanicOn make probes misbehave for a path or id.
	FailIdentity map[string]bool
	FailStat     map[string]bool
	PanicOn      map[string]bool
}

// New returns an empty fake host.
func New() *Fake {
	return &Fake{
		resources:    make(map[string]*resource),
		FailIdentity: make(map[string]bool),
		FailStat:     make(map[string]bool),
		PanicOn:      make(map[string]bool),
	}
}

// Put adds a file resource of the given kind and returns its identity.
func (f *Fake) Put(p, kind string, mtime time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := fmt.Sprintf("%032x", f.nextID)
	f.resources[p] = &resource{id: id, kind: kind, mtime: mtime}
	return id
}

// PutFolder adds a folder resource and returns its identity.
func (f *Fake) PutFolder(p string, mtime time.Time) string {
	return f.Put(p, host.KindFolder, mtime)
}

// Delete removes the resource at p.
func (f *Fake) Delete(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.resources, p)
}

// Move renames a resource, keeping its identity.
func (f *Fake) Move(from, to string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.resources[from]; ok {
		delete(f.resources, from)
		f.resources[to] = r
	}
}

// Touch changes the modification time of p.
func (f *Fake) Touch(p string, mtime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.resources[p]; ok {
		r.mtime = mtime
	}
}

func (f *Fake) ResolveIdentity(p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic(p)

	if f.FailIdentity[p] {
		return "", fmt.Errorf("identity lookup failed for %s", p)
	}
	r, ok := f.resources[clean(p)]
	if !ok {
		return "", host.ErrNotFound
	}
	return r.id, nil
}

func (f *Fake) ResolvePathFromIdentity(id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic(id)

	for p, r := range f.resources {
		if r.id == id {
			return p, nil
		}
	}
	return "", host.ErrNotFound
}

func (f *Fake) ClassifyResource(p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.resources[clean(p)]
	if !ok {
		return "", host.ErrNotFound
	}
	return r.kind, nil
}

func (f *Fake) StatModifiedTime(p string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic(p)

	if f.FailStat[p] {
		return time.Time{}, fmt.Errorf("stat failed for %s", p)
	}
	r, ok := f.resources[clean(p)]
	if !ok {
		return time.Time{}, host.ErrNotFound
	}
	return r.mtime, nil
}

func (f *Fake) maybePanic(key string) {
	if f.PanicOn[key] {
		panic("hosttest: forced panic for " + key)
	}
}

func clean(p string) string {
	return path.Clean(strings.TrimRight(p, "/"))
}
