package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// ListOptions filters list results.
type ListOptions struct {
	PublishedOnly bool
	Category      string
}

// ProjectService manages projects.
type ProjectService interface {
	Create(ctx context.Context, input ProjectInput, actor uuid.UUID) (*Project, error)
	Get(ctx context.Context, id uuid.UUID) (*Project, error)
	GetBySlug(ctx context.Context, slug string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]*Project, error)
	Update(ctx context.Context, id uuid.UUID, input ProjectInput, actor uuid.UUID) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClientService manages clients.
type ClientService interface {
	Create(ctx context.Context, input ClientInput, actor uuid.UUID) (*Client, error)
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, opts ListOptions) ([]*Client, error)
	Update(ctx context.Context, id uuid.UUID, input ClientInput, actor uuid.UUID) (*Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var ErrRepositoryMissing = errors.New("catalog: repository is not configured")

// maxSlugAttempts bounds the numeric suffix search for derived slugs.
const maxSlugAttempts = 50

type options struct {
	logger  interfaces.Logger
	now     func() time.Time
	id      func() uuid.UUID
	locales locale.Set
}

// ServiceOption configures the catalog services.
type ServiceOption func(*options)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(id func() uuid.UUID) ServiceOption {
	return func(o *options) {
		if id != nil {
			o.id = id
		}
	}
}

func WithLocales(set locale.Set) ServiceOption {
	return func(o *options) {
		o.locales = set
	}
}

func buildOptions(opts []ServiceOption) options {
	o := options{
		logger:  logging.NoOp(),
		now:     time.Now,
		id:      uuid.New,
		locales: locale.DefaultSet(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

type projectService struct {
	repo ProjectRepository
	options
}

// NewProjectService wires the project service.
func NewProjectService(repo ProjectRepository, opts ...ServiceOption) (ProjectService, error) {
	if repo == nil {
		return nil, ErrRepositoryMissing
	}
	return &projectService{repo: repo, options: buildOptions(opts)}, nil
}

func (s *projectService) Create(ctx context.Context, input ProjectInput, actor uuid.UUID) (*Project, error) {
	if err := input.Validate(s.locales); err != nil {
		return nil, err
	}
	explicit := strings.TrimSpace(input.Slug) != ""
	base, err := deriveSlug(input.Slug, input.Title, s.locales)
	if err != nil {
		return nil, err
	}
	candidate, err := s.availableSlug(ctx, base, uuid.Nil, explicit)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := s.apply(&Project{ID: s.id(), CreatedBy: actor, CreatedAt: now}, input, actor, now)
	record.Slug = candidate

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error("catalog.project.create.failed", "slug", candidate, "error", err)
		return nil, err
	}
	s.logger.Info("catalog.project.created", "project_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *projectService) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *projectService) List(ctx context.Context, opts ListOptions) ([]*Project, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, rec := range records {
		if opts.PublishedOnly && !rec.Published {
			continue
		}
		if opts.Category != "" && !strings.EqualFold(rec.Category, opts.Category) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, input ProjectInput, actor uuid.UUID) (*Project, error) {
	if err := input.Validate(s.locales); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate := existing.Slug
	if strings.TrimSpace(input.Slug) != "" {
		base, err := deriveSlug(input.Slug, input.Title, s.locales)
		if err != nil {
			return nil, err
		}
		if candidate, err = s.availableSlug(ctx, base, id, true); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	record := s.apply(existing, input, actor, now)
	record.Slug = candidate

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		s.logger.Error("catalog.project.update.failed", "project_id", id, "error", err)
		return nil, err
	}
	s.logger.Info("catalog.project.updated", "project_id", id, "slug", updated.Slug)
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("catalog.project.deleted", "project_id", id)
	return nil
}

func (s *projectService) apply(record *Project, input ProjectInput, actor uuid.UUID, now time.Time) *Project {
	record.Title = input.Title.Restrict(s.locales)
	record.Description = input.Description.Restrict(s.locales)
	record.Location = input.Location.Restrict(s.locales)
	record.Category = strings.TrimSpace(input.Category)
	record.Type = strings.TrimSpace(input.Type)
	record.Year = input.Year
	record.CoverImage = strings.TrimSpace(input.CoverImage)
	record.Images = cleanImages(input.Images)
	record.Published = input.Published
	record.SortOrder = input.SortOrder
	record.UpdatedBy = actor
	record.UpdatedAt = now
	return record
}

// availableSlug returns base when it is free. Derived slugs get a numeric
// suffix on conflict; explicit slugs fail with ErrSlugConflict.
func (s *projectService) availableSlug(ctx context.Context, base string, owner uuid.UUID, explicit bool) (string, error) {
	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		existing, err := s.repo.GetBySlug(ctx, candidate)
		if err != nil {
			if IsNotFound(err) {
				return candidate, nil
			}
			return "", err
		}
		if existing.ID == owner {
			return candidate, nil
		}
		if explicit {
			return "", ErrSlugConflict
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", ErrSlugConflict
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type clientService struct {
	repo ClientRepository
	options
}

// NewClientService wires the client service.
func NewClientService(repo ClientRepository, opts ...ServiceOption) (ClientService, error) {
	if repo == nil {
		return nil, ErrRepositoryMissing
	}
	return &clientService{repo: repo, options: buildOptions(opts)}, nil
}

func (s *clientService) Create(ctx context.Context, input ClientInput, actor uuid.UUID) (*Client, error) {
	if err := input.Validate(s.locales); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	record := s.apply(&Client{ID: s.id(), CreatedBy: actor, CreatedAt: now}, input, actor, now)

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error("catalog.client.create.failed", "error", err)
		return nil, err
	}
	s.logger.Info("catalog.client.created", "client_id", created.ID)
	return created, nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) List(ctx context.Context, opts ListOptions) ([]*Client, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if !opts.PublishedOnly {
		return records, nil
	}
	out := records[:0]
	for _, rec := range records {
		if rec.Published {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, input ClientInput, actor uuid.UUID) (*Client, error) {
	if err := input.Validate(s.locales); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record := s.apply(existing, input, actor, s.now().UTC())

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		s.logger.Error("catalog.client.update.failed", "client_id", id, "error", err)
		return nil, err
	}
	s.logger.Info("catalog.client.updated", "client_id", id)
	return updated, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("catalog.client.deleted", "client_id", id)
	return nil
}

func (s *clientService) apply(record *Client, input ClientInput, actor uuid.UUID, now time.Time) *Client {
	record.Name = input.Name.Restrict(s.locales)
	record.Description = input.Description.Restrict(s.locales)
	record.Logo = strings.TrimSpace(input.Logo)
	record.Website = strings.TrimSpace(input.Website)
	record.Published = input.Published
	record.SortOrder = input.SortOrder
	record.UpdatedBy = actor
	record.UpdatedAt = now
	return record
}
