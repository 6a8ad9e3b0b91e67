package contact

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// Submission is a stored contact message.
type Submission struct {
	bun.BaseModel `bun:"table:contact_submissions,alias:cs"`

	ID        uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Locale    locale.Locale `bun:"locale,notnull" json:"locale"`
	Name      string        `bun:"name,notnull" json:"name"`
	Email     string        `bun:"email,notnull" json:"email"`
	Phone     string        `bun:"phone" json:"phone"`
	Subject   string        `bun:"subject,notnull" json:"subject"`
	Message   string        `bun:"message,notnull" json:"message"`
	CreatedAt time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
}

// Repository persists submissions.
type Repository interface {
	Create(ctx context.Context, submission *Submission) (*Submission, error)
	List(ctx context.Context, limit, offset int) ([]*Submission, int, error)
}

// MemoryRepository keeps submissions in process.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []*Submission
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Create(_ context.Context, submission *Submission) (*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *submission
	m.records = append(m.records, &copied)
	out := copied
	return &out, nil
}

// List returns newest first.
func (m *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Submission, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := make([]*Submission, len(m.records))
	copy(sorted, m.records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	total := len(sorted)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]*Submission, 0, end-offset)
	for _, rec := range sorted[offset:end] {
		copied := *rec
		out = append(out, &copied)
	}
	return out, total, nil
}

// NewSubmissionRecordRepository returns the go-repository-bun repository for
// submissions.
func NewSubmissionRecordRepository(db *bun.DB) repository.Repository[*Submission] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Submission]{
		NewRecord: func() *Submission { return &Submission{} },
		GetID: func(s *Submission) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Submission, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(s *Submission) string {
			return s.ID.String()
		},
	})
}

// BunRepository stores submissions through Bun.
type BunRepository struct {
	repo repository.Repository[*Submission]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewSubmissionRecordRepository(db)}
}

func (r *BunRepository) Create(ctx context.Context, submission *Submission) (*Submission, error) {
	created, err := r.repo.Create(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("contact_submission repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) List(ctx context.Context, limit, offset int) ([]*Submission, int, error) {
	newestFirst := repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at DESC")
	})
	var (
		records []*Submission
		total   int
		err     error
	)
	if limit > 0 {
		records, total, err = r.repo.List(ctx, newestFirst, repository.SelectPaginate(limit, offset))
	} else {
		records, total, err = r.repo.List(ctx, newestFirst)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("contact_submission repository error: %w", err)
	}
	return records, total, nil
}
