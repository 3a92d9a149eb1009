// Package redis stores the favorites document in Redis, as the same JSON
// the file store writes, under one key per namespace.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/favorites/internal/store"
)

// DefaultOpTimeout bounds a single load or save
const DefaultOpTimeout = 3 * time.Second

// Store keeps the document under DocumentKey(namespace)
type Store struct {
	client    *redis.Client
	key       string
	opTimeout time.Duration
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Redis document store
func NewStore(client *redis.Client, namespace string, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &Store{
		client:    client,
		key:       DocumentKey(namespace),
		opTimeout: opTimeout,
	}
}

// Namespace is the project namespace the document key was built from.
func (s *Store) Namespace() string {
	ns, err := ExtractNamespace(s.key)
	if err != nil {
		return DefaultNamespace
	}
	return ns
}

func (s *Store) Location() string {
	return fmt.Sprintf("redis://%s/%s", s.client.Options().Addr, s.key)
}

// Load reads the document. A missing key is not an error.
func (s *Store) Load() (*store.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get favorites document: %w", err)
	}

	return store.Decode(data)
}

// Save replaces the document.
func (s *Store) Save(doc *store.Document) error {
	data, err := store.Encode(doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save favorites document: %w", err)
	}
	return nil
}

// Ping checks the connection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
