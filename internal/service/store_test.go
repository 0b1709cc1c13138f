package service

import (
	"encoding/json"
	"errors"
	"sync"
)

var errStoreDown = errors.New("store down")

// memStore keeps JSON blobs in memory. When failing is set every Save fails.
type memStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	saves   int
	failing bool
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Load(key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (m *memStore) Save(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.failing {
		return errStoreDown
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.blobs[key] = data
	return nil
}

func (m *memStore) setFailing(v bool) {
	m.mu.Lock()
	m.failing = v
	m.mu.Unlock()
}
