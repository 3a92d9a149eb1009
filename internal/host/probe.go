package host

import "time"

// Probe calls a Host and degrades every failure (error, empty result or panic)
// to a "not possible" answer. It never fails and never panics.
type Probe struct {
	h Host
}

// NewProbe wraps h. A nil host answers "not possible" to everything.
func NewProbe(h Host) Probe {
	return Probe{h: h}
}

// Identity resolves the identity of path.
func (p Probe) Identity(path string) (id string, ok bool) {
	if p.h == nil || path == "" {
		return "", false
	}
	defer func() {
		if recover() != nil {
			id, ok = "", false
		}
	}()
	id, err := p.h.ResolveIdentity(path)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// PathOf resolves the current path of the resource with id.
func (p Probe) PathOf(id string) (path string, ok bool) {
	if p.h == nil || id == "" {
		return "", false
	}
	defer func() {
		if recover() != nil {
			path, ok = "", false
		}
	}()
	path, err := p.h.ResolvePathFromIdentity(id)
	if err != nil || path == "" {
		return "", false
	}
	return path, true
}

// Kind classifies path, falling back to KindUnknown.
func (p Probe) Kind(path string) (kind string) {
	if p.h == nil || path == "" {
		return KindUnknown
	}
	defer func() {
		if recover() != nil {
			kind = KindUnknown
		}
	}()
	kind, err := p.h.ClassifyResource(path)
	if err != nil || kind == "" {
		return KindUnknown
	}
	return kind
}

// ModTime stats path. ok is false when the resource cannot be stat'ed, which
// also serves as the existence check.
func (p Probe) ModTime(path string) (mtime time.Time, ok bool) {
	if p.h == nil || path == "" {
		return time.Time{}, false
	}
	defer func() {
		if recover() != nil {
			mtime, ok = time.Time{}, false
		}
	}()
	mtime, err := p.h.StatModifiedTime(path)
	if err != nil {
		return time.Time{}, false
	}
	return mtime, true
}
