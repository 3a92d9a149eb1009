package domain

import (
	"path"
	"strings"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/host"
)

// Entry is one favorited resource.
//
// StableID is the primary key inside the registry. Path is where the
// resource was when it was added and may have gone stale since.
type Entry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// StableID is the host identity of the resource. It survives renames
	// and moves inside the host.
	StableID string

	// Path is the slash-separated location in the host resource tree.
	Path string

	// ─────────────────────────────
	// Display metadata (set on add)
	// ─────────────────────────────

	// Name is derived from Path: the base name, without extension for files.
	Name string

	// Kind is "Folder", a resource type name, or "Unknown".
	Kind string

	// ─────────────────────────────
	// Mutable state
	// ─────────────────────────────

	// GroupID references a Group. Empty means ungrouped.
	GroupID string

	// DateAdded is set once on creation.
	DateAdded time.Time

	// DateUpdated is refreshed by Touch and never precedes DateAdded.
	DateUpdated time.Time
}

// NewEntry builds an entry added at now.
func NewEntry(resourcePath, kind, stableID string, now time.Time) Entry {
	return Entry{
		StableID:    stableID,
		Path:        resourcePath,
		Name:        DisplayName(resourcePath, kind),
		Kind:        kind,
		DateAdded:   now,
		DateUpdated: now,
	}
}

// DisplayName derives the name shown for a resource.
func DisplayName(resourcePath, kind string) string {
	p := strings.ReplaceAll(resourcePath, `\`, "/")
	p = strings.TrimRight(p, "/")
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	if kind == host.KindFolder {
		return base
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ungrouped reports whether the entry belongs to no group.
func (e Entry) Ungrouped() bool {
	return e.GroupID == ""
}

// Touch records an access at now. DateUpdated only moves forward.
func (e *Entry) Touch(now time.Time) {
	if now.Before(e.DateUpdated) {
		now = e.DateUpdated
	}
	if now.Before(e.DateAdded) {
		now = e.DateAdded
	}
	e.DateUpdated = now
}

// FileModificationDate is the live modification time of the resource, or
// DateUpdated when it cannot be read.
func (e Entry) FileModificationDate(p host.Probe) time.Time {
	if mtime, ok := p.ModTime(e.Path); ok {
		return mtime
	}
	return e.DateUpdated
}

// IsValid reports whether the entry still points at a live resource: its
// identity must resolve to a path and that path must exist. Probe failures
// count as invalid.
func (e Entry) IsValid(p host.Probe) bool {
	if e.Path == "" || e.StableID == "" {
		return false
	}
	current, ok := p.PathOf(e.StableID)
	if !ok {
		return false
	}
	_, ok = p.ModTime(current)
	return ok
}
