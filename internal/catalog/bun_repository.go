package catalog

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewProjectRecordRepository returns the go-repository-bun repository for
// projects, identified by slug.
func NewProjectRecordRepository(db *bun.DB) repository.Repository[*Project] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Project]{
		NewRecord: func() *Project { return &Project{} },
		GetID: func(p *Project) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Project, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Project) string {
			return p.Slug
		},
	})
}

// NewClientRecordRepository returns the go-repository-bun repository for
// clients.
func NewClientRecordRepository(db *bun.DB) repository.Repository[*Client] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Client]{
		NewRecord: func() *Client { return &Client{} },
		GetID: func(c *Client) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Client, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(c *Client) string {
			return c.ID.String()
		},
	})
}

var projectColumns = []string{
	"slug", "title", "description", "location", "category", "type", "year",
	"cover_image", "images", "published", "sort_order", "updated_by", "updated_at",
}

var clientColumns = []string{
	"name", "description", "logo", "website", "published", "sort_order",
	"updated_by", "updated_at",
}

func orderBySortThenCreated(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("sort_order ASC", "created_at ASC")
}

// BunProjectRepository stores projects through Bun.
type BunProjectRepository struct {
	repo repository.Repository[*Project]
}

func NewBunProjectRepository(db *bun.DB) *BunProjectRepository {
	return NewBunProjectRepositoryWithCache(db, nil, nil)
}

func NewBunProjectRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProjectRepository {
	return &BunProjectRepository{repo: wrapWithCache(NewProjectRecordRepository(db), cacheService, keySerializer)}
}

func (r *BunProjectRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapWriteError(err, "project")
	}
	return created, nil
}

func (r *BunProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "project", id.String())
	}
	return result, nil
}

func (r *BunProjectRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "project", slug)
	}
	return result, nil
}

func (r *BunProjectRepository) List(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(orderBySortThenCreated))
	if err != nil {
		return nil, mapRepositoryError(err, "project", "")
	}
	return records, nil
}

func (r *BunProjectRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(projectColumns...),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugConflict
		}
		return nil, mapRepositoryError(err, "project", record.ID.String())
	}
	return updated, nil
}

func (r *BunProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Project{ID: id}); err != nil {
		return mapRepositoryError(err, "project", id.String())
	}
	return nil
}

// BunClientRepository stores clients through Bun.
type BunClientRepository struct {
	repo repository.Repository[*Client]
}

func NewBunClientRepository(db *bun.DB) *BunClientRepository {
	return NewBunClientRepositoryWithCache(db, nil, nil)
}

func NewBunClientRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunClientRepository {
	return &BunClientRepository{repo: wrapWithCache(NewClientRecordRepository(db), cacheService, keySerializer)}
}

func (r *BunClientRepository) Create(ctx context.Context, record *Client) (*Client, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapWriteError(err, "client")
	}
	return created, nil
}

func (r *BunClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "client", id.String())
	}
	return result, nil
}

func (r *BunClientRepository) List(ctx context.Context) ([]*Client, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(orderBySortThenCreated))
	if err != nil {
		return nil, mapRepositoryError(err, "client", "")
	}
	return records, nil
}

func (r *BunClientRepository) Update(ctx context.Context, record *Client) (*Client, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(clientColumns...),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "client", record.ID.String())
	}
	return updated, nil
}

func (r *BunClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &Client{ID: id}); err != nil {
		return mapRepositoryError(err, "client", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func mapWriteError(err error, resource string) error {
	if isUniqueViolation(err) && resource == "project" {
		return ErrSlugConflict
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

// isUniqueViolation matches the sqlite and postgres unique constraint
// messages.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
