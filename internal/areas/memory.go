package areas

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps area records in process.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[Area]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[Area]*Record)}
}

func (m *MemoryRepository) GetByArea(_ context.Context, area Area) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[area]
	if !ok {
		return nil, &NotFoundError{Resource: "content_area", Key: string(area)}
	}
	return cloneRecord(rec), nil
}

func (m *MemoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	area := Area(record.Area)
	if _, exists := m.records[area]; exists {
		return nil, ErrRecordExists
	}
	m.records[area] = cloneRecord(record)
	return cloneRecord(record), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	area := Area(record.Area)
	existing, ok := m.records[area]
	if !ok {
		return nil, &NotFoundError{Resource: "content_area", Key: record.Area}
	}
	updated := cloneRecord(record)
	updated.CreatedAt = existing.CreatedAt
	m.records[area] = updated
	return cloneRecord(updated), nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Area < out[j].Area })
	return out, nil
}
