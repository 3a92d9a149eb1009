// Package commands is the user command surface shared by the CLI and the
// HTTP API: selection add/remove with counts, their enable predicates and
// group creation with a default name.
package commands

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/host"
	"github.com/MrSnakeDoc/favorites/internal/logger"
)

// Favorites is the registry surface the commands drive.
type Favorites interface {
	Add(path string) bool
	Remove(id string) bool
	IsFavorite(path string) bool
	IsFavoriteByID(id string) bool
	CreateGroup(name string) string
}

type Commands struct {
	favs  Favorites
	probe host.Probe
	log   logger.Logger
	now   func() time.Time
}

func New(favs Favorites, probe host.Probe, log logger.Logger) *Commands {
	if log == nil {
		log = logger.Nop()
	}
	return &Commands{favs: favs, probe: probe, log: log, now: time.Now}
}

// AddSelection favorites every path it can and returns how many were added.
func (c *Commands) AddSelection(paths []string) int {
	added := 0
	for _, p := range paths {
		if p != "" && c.favs.Add(p) {
			added++
		}
	}

	if added > 0 {
		c.log.Infof("added %d resource(s) to favorites", added)
	} else if len(paths) > 0 {
		c.log.Info("selected resources are already favorites or cannot be added")
	}
	return added
}

// RemoveSelection unfavorites each reference, which is either a favorite id
// or a path to resolve, and returns how many were removed.
func (c *Commands) RemoveSelection(refs []string) int {
	removed := 0
	for _, ref := range refs {
		if id, ok := c.identity(ref); ok && c.favs.Remove(id) {
			removed++
		}
	}

	if removed > 0 {
		c.log.Infof("removed %d resource(s) from favorites", removed)
	}
	return removed
}

func (c *Commands) identity(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if c.favs.IsFavoriteByID(ref) {
		return ref, true
	}
	return c.probe.Identity(ref)
}

// CanAdd reports whether at least one path could still be added.
func (c *Commands) CanAdd(paths []string) bool {
	for _, p := range paths {
		if p != "" && !c.favs.IsFavorite(p) {
			return true
		}
	}
	return false
}

// CanRemove reports whether at least one path is a favorite.
func (c *Commands) CanRemove(paths []string) bool {
	for _, p := range paths {
		if p != "" && c.favs.IsFavorite(p) {
			return true
		}
	}
	return false
}

// CreateGroup creates a group, naming it after the clock when name is blank.
func (c *Commands) CreateGroup(name string) string {
	if strings.TrimSpace(name) == "" {
		name = DefaultGroupName(c.now())
	}
	return c.favs.CreateGroup(name)
}

// DefaultGroupName is "Group HH:MM:SS" for t.
func DefaultGroupName(t time.Time) string {
	return "Group " + t.Format("15:04:05")
}
