package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/MrSnakeDoc/favorites/internal/logger"
)

const (
	IdentityMeta  = "meta"
	IdentityXattr = "xattr"

	// DefaultCacheTTL bounds how long a guid -> path lookup is trusted
	// before the tag is read again.
	DefaultCacheTTL = 10 * time.Minute
)

// kinds maps lower-case extensions to the resource type reported for them.
var kinds = map[string]string{
	".png":        "Texture2D",
	".jpg":        "Texture2D",
	".jpeg":       "Texture2D",
	".tga":        "Texture2D",
	".psd":        "Texture2D",
	".exr":        "Texture2D",
	".mat":        "Material",
	".prefab":     "GameObject",
	".fbx":        "GameObject",
	".obj":        "GameObject",
	".unity":      "SceneAsset",
	".cs":         "MonoScript",
	".shader":     "Shader",
	".hlsl":       "ShaderInclude",
	".wav":        "AudioClip",
	".mp3":        "AudioClip",
	".ogg":        "AudioClip",
	".anim":       "AnimationClip",
	".controller": "AnimatorController",
	".ttf":        "Font",
	".otf":        "Font",
	".txt":        "TextAsset",
	".json":       "TextAsset",
	".md":         "TextAsset",
	".xml":        "TextAsset",
	".yaml":       "TextAsset",
	".asset":      "ScriptableObject",
	".asmdef":     "AssemblyDefinitionAsset",
}

// FSOptions configures the filesystem host.
type FSOptions struct {
	Root     string        // project root every path is relative to
	Identity string        // IdentityMeta (default) or IdentityXattr
	CacheTTL time.Duration // guid -> path cache lifetime, DefaultCacheTTL when 0
	Logger   logger.Logger
}

// FS is a Host backed by a directory tree on the local filesystem.
//
// Paths handed in and out are slash-separated and relative to the root.
// Identities are tags stored on disk, created the first time a resource is
// resolved, so they move with the resource.
type FS struct {
	root   string
	tagger tagger
	cache  *gocache.Cache // guid -> relative path
	logger logger.Logger

	// mu serializes read-then-create of identity tags.
	mu sync.Mutex
}

// NewFS opens the tree rooted at opts.Root.
func NewFS(opts FSOptions) (*FS, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	var t tagger
	switch opts.Identity {
	case "", IdentityMeta:
		t = metaTagger{}
	case IdentityXattr:
		t = xattrTagger{}
	default:
		return nil, fmt.Errorf("unknown identity mode %q", opts.Identity)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &FS{
		root:   root,
		tagger: t,
		cache:  gocache.New(ttl, 2*ttl),
		logger: log,
	}, nil
}

// Root returns the absolute project root.
func (f *FS) Root() string {
	return f.root
}

// Abs converts a host path to an absolute filesystem path inside the root.
func (f *FS) Abs(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" {
		return "", ErrNotFound
	}

	native := filepath.Clean(filepath.FromSlash(p))
	rel := native
	if filepath.IsAbs(native) {
		var err error
		rel, err = filepath.Rel(f.root, native)
		if err != nil {
			return "", ErrOutsideRoot
		}
	}

	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return filepath.Join(f.root, rel), nil
}

// Rel converts an absolute filesystem path back to a host path.
func (f *FS) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(f.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (f *FS) ResolveIdentity(p string) (string, error) {
	abs, err := f.Abs(p)
	if err != nil {
		return "", err
	}
	if f.tagger.Sidecar(abs) {
		return "", fmt.Errorf("%s is an identity sidecar: %w", p, ErrNotFound)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat %s: %w", p, err)
	}

	rel, err := f.Rel(abs)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id, err := f.tagger.Read(abs)
	if err == nil {
		f.cache.SetDefault(id, rel)
		return id, nil
	}
	if !errors.Is(err, ErrNotTagged) {
		return "", err
	}

	id = NewGUID()
	if err := f.tagger.Write(abs, id); err != nil {
		return "", fmt.Errorf("failed to tag %s: %w", p, err)
	}
	f.cache.SetDefault(id, rel)

	f.logger.Debug("tagged resource",
		logger.String("path", rel),
		logger.String("guid", id))

	return id, nil
}

func (f *FS) ResolvePathFromIdentity(id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}

	if cached, ok := f.cache.Get(id); ok {
		rel := cached.(string)
		if f.hasTag(rel, id) {
			return rel, nil
		}
		f.cache.Delete(id)
	}

	found := ""
	err := filepath.WalkDir(f.root, func(abs string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() && abs != f.root {
				return fs.SkipDir
			}
			return nil
		}
		if abs == f.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if f.tagger.Sidecar(abs) {
			return nil
		}

		tag, err := f.tagger.Read(abs)
		if err != nil {
			return nil
		}
		rel, err := f.Rel(abs)
		if err != nil {
			return nil
		}
		f.cache.SetDefault(tag, rel)
		if tag == id {
			found = rel
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan project: %w", err)
	}
	if found == "" {
		return "", ErrNotFound
	}
	return found, nil
}

func (f *FS) ClassifyResource(p string) (string, error) {
	abs, err := f.Abs(p)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return KindFolder, nil
	}
	if kind, ok := kinds[strings.ToLower(filepath.Ext(abs))]; ok {
		return kind, nil
	}
	return KindUnknown, nil
}

func (f *FS) StatModifiedTime(p string) (time.Time, error) {
	abs, err := f.Abs(p)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (f *FS) hasTag(rel, id string) bool {
	abs, err := f.Abs(rel)
	if err != nil {
		return false
	}
	tag, err := f.tagger.Read(abs)
	return err == nil && tag == id
}
