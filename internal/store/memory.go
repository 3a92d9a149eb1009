package store

import "sync"

// Memory keeps the encoded document in memory. It backs the "memory" store
// setting and tests; Err makes every Save fail.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saves int

	Err error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Location() string {
	return "memory"
}

func (m *Memory) Load() (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	return Decode(m.data)
}

func (m *Memory) Save(doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// Saves counts successful saves.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// SetRaw replaces the stored bytes, including with invalid JSON.
func (m *Memory) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}
