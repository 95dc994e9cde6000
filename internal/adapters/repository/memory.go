package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/wanderlist/internal/domain/destination"
)

// MemoryStore keeps destinations in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	seq     uint64
	cfg     settings
}

type memoryRecord struct {
	d   destination.Destination
	seq uint64
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Clearer = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		cfg:     newSettings(opts),
	}
}

// FindAll returns every destination, newest first.
func (s *MemoryStore) FindAll(_ context.Context) ([]destination.Destination, error) {
	s.mu.RLock()
	rows := make([]memoryRecord, 0, len(s.records))
	for _, r := range s.records {
		rows = append(rows, r)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].d.CreatedAt.Equal(rows[j].d.CreatedAt) {
			return rows[i].d.CreatedAt.After(rows[j].d.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]destination.Destination, len(rows))
	for i, r := range rows {
		out[i] = r.d
	}
	return out, nil
}

// FindByID returns a single destination.
func (s *MemoryStore) FindByID(_ context.Context, id string) (destination.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return destination.Destination{}, ErrNotFound
	}
	return r.d, nil
}

// Insert stores a new destination.
func (s *MemoryStore) Insert(_ context.Context, f destination.Fields) (destination.Destination, error) {
	now := s.cfg.now()
	d := destination.Destination{ID: s.cfg.newID(), CreatedAt: now, UpdatedAt: now}.Apply(f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.records[d.ID] = memoryRecord{d: d, seq: s.seq}
	return d, nil
}

// Update replaces the writable fields of an existing destination.
func (s *MemoryStore) Update(_ context.Context, id string, f destination.Fields) (destination.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return destination.Destination{}, ErrNotFound
	}
	r.d = r.d.Apply(f)
	r.d.UpdatedAt = s.cfg.now()
	s.records[id] = r
	return r.d, nil
}

// Delete removes a destination.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// DeleteAll removes every destination.
func (s *MemoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.records))
	s.records = make(map[string]memoryRecord)
	return n, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
