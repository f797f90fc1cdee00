package store

import (
	"sync"

	"mooers.net/trac64/internal/form"
)

// Memory is an in-memory block store for testing.
type Memory struct {
	mu     sync.RWMutex
	blocks map[string][]form.Image
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{blocks: make(map[string][]form.Image)}
}

// LoadAll returns the named block's forms.
func (m *Memory) LoadAll(block string) ([]form.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	imgs, ok := m.blocks[block]
	if !ok {
		return nil, ErrNoBlock
	}
	out := make([]form.Image, len(imgs))
	copy(out, imgs)
	return out, nil
}

// SaveAll replaces the named block's contents.
func (m *Memory) SaveAll(block string, imgs []form.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]form.Image, len(imgs))
	copy(kept, imgs)
	m.blocks[block] = kept
	return nil
}

// Erase removes the named block.
func (m *Memory) Erase(block string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blocks[block]; !ok {
		return ErrNoBlock
	}
	delete(m.blocks, block)
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
