package baseline

import (
	"context"
	"sort"
	"sync"
)

// Store persists baselines keyed by patient. Implementations must be safe
// for concurrent use; serialization of read-modify-write cycles per patient
// is the Manager's job.
type Store interface {
	// Get returns the patient's baseline or ErrBaselineNotFound.
	Get(ctx context.Context, patientID string) (*Baseline, error)

	// Put inserts or replaces the patient's baseline.
	Put(ctx context.Context, b *Baseline) error

	// Delete removes the patient's baseline, returning ErrBaselineNotFound
	// if none exists.
	Delete(ctx context.Context, patientID string) error

	// List returns all patient IDs with a stored baseline, sorted.
	List(ctx context.Context) ([]string, error)
}

// MemoryStore is an in-memory Store for tests, examples, and single-process
// deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	baselines map[string]*Baseline
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{baselines: make(map[string]*Baseline)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, patientID string) (*Baseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.baselines[patientID]
	if !ok {
		return nil, ErrBaselineNotFound
	}
	return b.Clone(), nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, b *Baseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.baselines[b.PatientID] = b.Clone()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, patientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.baselines[patientID]; !ok {
		return ErrBaselineNotFound
	}
	delete(m.baselines, patientID)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.baselines))
	for id := range m.baselines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
