package storage

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process store. Values are lost on exit.
type Memory struct {
	data map[string][]byte
	mu   sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	if err := checkValue(key, data); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = slices.Clone(data)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *Memory) Close() error { return nil }
