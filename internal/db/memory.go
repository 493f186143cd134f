package db

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/freedom_case_2/callemail/internal/models"
)

// MemoryStore keeps records for the life of the process. Records are stored
// encoded so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int64
	docs     map[int64][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{counters: map[string]int64{}, docs: map[int64][]byte{}}
}

func (m *MemoryStore) Close() {}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) NextID(_ context.Context, seq string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[seq]++
	return m.counters[seq], nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (models.CallEmail, error) {
	m.mu.Lock()
	doc, ok := m.docs[id]
	m.mu.Unlock()
	if !ok {
		return models.CallEmail{}, ErrNotFound
	}
	var rec models.CallEmail
	err := json.Unmarshal(doc, &rec)
	return rec, err
}

func (m *MemoryStore) Put(_ context.Context, rec models.CallEmail) error {
	if rec.ID == nil {
		return errors.New("put call_email: record has no id")
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[*rec.ID] = doc
	return nil
}
