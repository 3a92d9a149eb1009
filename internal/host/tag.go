package host

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/xattr"
	"gopkg.in/yaml.v3"
)

const (
	// MetaSuffix is appended to a resource path to name its identity sidecar.
	MetaSuffix = ".meta"
	// XattrName is the extended attribute holding the identity in xattr mode.
	XattrName = "user.favorites.guid"

	metaFormatVersion = 2
)

// tagger stores and reads identity tags attached to resources on disk.
type tagger interface {
	Read(abs string) (string, error)
	Write(abs, id string) error
	// Sidecar reports whether abs is tagger bookkeeping rather than a resource.
	Sidecar(abs string) bool
}

// NewGUID returns a 32 hex digit identity.
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// metaFile is the YAML sidecar written next to every tagged resource.
type metaFile struct {
	FileFormatVersion int    `yaml:"fileFormatVersion"`
	GUID              string `yaml:"guid"`
}

type metaTagger struct{}

func (metaTagger) Read(abs string) (string, error) {
	data, err := os.ReadFile(abs + MetaSuffix)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotTagged
		}
		return "", fmt.Errorf("failed to read meta file: %w", err)
	}

	var meta metaFile
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return "", fmt.Errorf("failed to parse meta file: %w", err)
	}
	if meta.GUID == "" {
		return "", ErrNotTagged
	}
	return meta.GUID, nil
}

func (metaTagger) Write(abs, id string) error {
	data, err := yaml.Marshal(metaFile{FileFormatVersion: metaFormatVersion, GUID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal meta file: %w", err)
	}
	if err := os.WriteFile(abs+MetaSuffix, data, 0o644); err != nil {
		return fmt.Errorf("failed to write meta file: %w", err)
	}
	return nil
}

func (metaTagger) Sidecar(abs string) bool {
	return strings.HasSuffix(abs, MetaSuffix)
}

type xattrTagger struct{}

func (xattrTagger) Read(abs string) (string, error) {
	val, err := xattr.Get(abs, XattrName)
	if err != nil {
		if errors.Is(err, xattr.ENOATTR) {
			return "", ErrNotTagged
		}
		return "", fmt.Errorf("failed to read xattr: %w", err)
	}
	if len(val) == 0 {
		return "", ErrNotTagged
	}
	return string(val), nil
}

func (xattrTagger) Write(abs, id string) error {
	if err := xattr.Set(abs, XattrName, []byte(id)); err != nil {
		return fmt.Errorf("failed to write xattr: %w", err)
	}
	return nil
}

func (xattrTagger) Sidecar(string) bool { return false }
