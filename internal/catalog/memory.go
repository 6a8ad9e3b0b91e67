package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryProjectRepository keeps projects in process.
type MemoryProjectRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Project
	slugIndex map[string]uuid.UUID
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		records:   make(map[uuid.UUID]*Project),
		slugIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryProjectRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.slugIndex[record.Slug]; taken {
		return nil, ErrSlugConflict
	}
	copied := cloneProject(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryProjectRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: id.String()}
	}
	return cloneProject(rec), nil
}

func (m *MemoryProjectRepository) GetBySlug(_ context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: slug}
	}
	return cloneProject(m.records[id]), nil
}

func (m *MemoryProjectRepository) List(_ context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Project, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneProject(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].SortOrder, out[j].SortOrder, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryProjectRepository) Update(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: record.ID.String()}
	}
	if owner, taken := m.slugIndex[record.Slug]; taken && owner != record.ID {
		return nil, ErrSlugConflict
	}
	delete(m.slugIndex, existing.Slug)
	copied := cloneProject(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneProject(copied), nil
}

func (m *MemoryProjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return &NotFoundError{Resource: "project", Key: id.String()}
	}
	delete(m.slugIndex, existing.Slug)
	delete(m.records, id)
	return nil
}

// MemoryClientRepository keeps clients in process.
type MemoryClientRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Client
}

func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{records: make(map[uuid.UUID]*Client)}
}

func (m *MemoryClientRepository) Create(_ context.Context, record *Client) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneClient(record)
	m.records[copied.ID] = copied
	return cloneClient(copied), nil
}

func (m *MemoryClientRepository) GetByID(_ context.Context, id uuid.UUID) (*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "client", Key: id.String()}
	}
	return cloneClient(rec), nil
}

func (m *MemoryClientRepository) List(_ context.Context) ([]*Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Client, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneClient(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].SortOrder, out[j].SortOrder, out[i].CreatedAt, out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryClientRepository) Update(_ context.Context, record *Client) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "client", Key: record.ID.String()}
	}
	copied := cloneClient(record)
	m.records[copied.ID] = copied
	return cloneClient(copied), nil
}

func (m *MemoryClientRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Resource: "client", Key: id.String()}
	}
	delete(m.records, id)
	return nil
}
