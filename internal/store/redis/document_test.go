package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/favorites/internal/store"
)

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"game", "favorites:document:game"},
		{"  game  ", "favorites:document:game"},
		{"", "favorites:document:default"},
	}

	for _, tt := range tests {
		if got := DocumentKey(tt.namespace); got != tt.want {
			t.Errorf("DocumentKey(%q) = %q, want %q", tt.namespace, got, tt.want)
		}
	}
}

func TestNamespaceDefaults(t *testing.T) {
	client := unreachable()
	defer client.Close()

	if ns := NewStore(client, "  ", 0).Namespace(); ns != DefaultNamespace {
		t.Errorf("Namespace() = %q, want %q", ns, DefaultNamespace)
	}
}

func TestExtractNamespace(t *testing.T) {
	ns, err := ExtractNamespace(DocumentKey("proj"))
	if err != nil || ns != "proj" {
		t.Errorf("ExtractNamespace = %q, %v; want proj", ns, err)
	}

	for _, bad := range []string{"", "favorites:document:", "jump:service:x"} {
		if _, err := ExtractNamespace(bad); err == nil {
			t.Errorf("ExtractNamespace(%q) should fail", bad)
		}
	}
}

// unreachable points at a port nothing listens on.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestStoreReportsConnectionErrors(t *testing.T) {
	client := unreachable()
	defer client.Close()

	s := NewStore(client, "proj", 500*time.Millisecond)

	if s.Namespace() != "proj" {
		t.Errorf("Namespace() = %q, want proj", s.Namespace())
	}
	if !strings.HasSuffix(s.Location(), "/favorites:document:proj") {
		t.Errorf("unexpected location %q", s.Location())
	}
	if _, err := s.Load(); err == nil {
		t.Error("Load should fail without a server")
	}
	if err := s.Save(&store.Document{}); err == nil {
		t.Error("Save should fail without a server")
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping should fail without a server")
	}
}

func TestNewStoreDefaultsTimeout(t *testing.T) {
	client := unreachable()
	defer client.Close()

	if s := NewStore(client, "", 0); s.opTimeout != DefaultOpTimeout {
		t.Errorf("opTimeout = %v, want %v", s.opTimeout, DefaultOpTimeout)
	}
}
