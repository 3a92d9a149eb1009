// Package host describes what favorites needs from the application that owns
// the resource tree: turning paths into stable identities and back, telling
// what kind of resource a path is, and reading modification times.
package host

import (
	"errors"
	"time"
)

const (
	// KindFolder is reported for directories.
	KindFolder = "Folder"
	// KindUnknown is reported when a resource cannot be classified.
	KindUnknown = "Unknown"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrOutsideRoot = errors.New("path escapes the project root")
	ErrNotTagged   = errors.New("resource has no identity tag")
)

// Host is the capability the registry calls into. Implementations may fail
// in any way; callers go through Probe which turns failures into defaults.
type Host interface {
	// ResolveIdentity returns the stable identity of the resource at path.
	ResolveIdentity(path string) (string, error)
	// ResolvePathFromIdentity returns the current path of the resource with id.
	ResolvePathFromIdentity(id string) (string, error)
	// ClassifyResource returns a kind name such as "Folder" or "Texture2D".
	ClassifyResource(path string) (string, error)
	// StatModifiedTime returns the last modification time of the resource.
	StatModifiedTime(path string) (time.Time, error)
}
