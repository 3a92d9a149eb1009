package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/favorites/internal/host/hosttest"
	"github.com/MrSnakeDoc/favorites/internal/logger"
	"github.com/MrSnakeDoc/favorites/internal/metrics"
	"github.com/MrSnakeDoc/favorites/internal/registry"
	"github.com/MrSnakeDoc/favorites/internal/store"
)

// countingCleaner reports every pass on a channel.
type countingCleaner struct {
	passes chan struct{}
}

func newCountingCleaner() *countingCleaner {
	return &countingCleaner{passes: make(chan struct{}, 16)}
}

func (c *countingCleaner) CleanupInvalid() int {
	select {
	case c.passes <- struct{}{}:
	default:
	}
	return 0
}

func waitPass(t *testing.T, c *countingCleaner, what string) {
	t.Helper()
	select {
	case <-c.passes:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s cleanup pass", what)
	}
}

func TestCleanupRunnerRemovesStaleFavorites(t *testing.T) {
	log := logger.New("error", false)
	fake := hosttest.New()
	now := time.Now()
	fake.Put("Assets/keep.png", "Texture2D", now)
	fake.Put("Assets/gone.png", "Texture2D", now)

	reg := registry.Open(registry.Options{Host: fake, Store: store.NewMemory(), Logger: log})
	reg.Add("Assets/keep.png")
	reg.Add("Assets/gone.png")

	runner := NewCleanupRunner(reg, log, metrics.New(), 0)

	if removed := runner.Run(TriggerManual); removed != 0 {
		t.Fatalf("expected nothing removed, got %d", removed)
	}

	fake.Delete("Assets/gone.png")

	if removed := runner.Run(TriggerManual); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 favorite left, got %d", reg.Count())
	}
	if removed := runner.Run(TriggerManual); removed != 0 {
		t.Errorf("second pass should remove nothing, got %d", removed)
	}
}

func TestCleanupRunnerStartAndTrigger(t *testing.T) {
	cleaner := newCountingCleaner()
	runner := NewCleanupRunner(cleaner, logger.New("error", false), nil, 0)

	runner.Start(context.Background())
	waitPass(t, cleaner, "startup")

	runner.Trigger(TriggerManual)
	waitPass(t, cleaner, "triggered")

	runner.Stop()
	runner.Stop()

	// Triggers after Stop are dropped without blocking.
	runner.Trigger(TriggerManual)
	runner.Trigger(TriggerManual)
}

func TestCleanupRunnerInterval(t *testing.T) {
	cleaner := newCountingCleaner()
	runner := NewCleanupRunner(cleaner, logger.New("error", false), nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	runner.Start(ctx)
	waitPass(t, cleaner, "startup")
	waitPass(t, cleaner, "interval")

	cancel()
	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on context cancel")
	}
}

func TestWatcherTriggersOnRemove(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "Assets")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(sub, "a.png")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	triggered := make(chan string, 8)
	w, err := NewWatcher(root, func(reason string) { triggered <- reason }, logger.New("error", false))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	w.Start()

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}

	select {
	case reason := <-triggered:
		if reason != TriggerWatch {
			t.Errorf("expected reason %q, got %q", TriggerWatch, reason)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the removal")
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), func(string) {}, logger.New("error", false))
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
}
