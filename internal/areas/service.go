package areas

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Service reads and writes content areas one locale at a time.
type Service interface {
	Definitions() []Definition
	Definition(area string) (Definition, error)
	Get(ctx context.Context, req GetRequest) (*View, error)
	Save(ctx context.Context, req SaveRequest) (*View, error)
	Import(ctx context.Context, req ImportRequest) error
	Export(ctx context.Context, area string) (map[string]any, error)
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// GetRequest selects an area projection.
//
// Fallback fills blank localized values from the default locale. The admin
// surface reads strictly so editors see exactly what each locale holds;
// public pages read with fallback.
type GetRequest struct {
	Area           string
	Locale         locale.Locale
	Fallback       bool
	IncludePrivate bool
	RenderRichText bool
}

// SaveRequest is a flat single-locale update. Keys absent from Values keep
// their stored value.
type SaveRequest struct {
	Area    string
	Locale  locale.Locale
	Values  map[string]any
	ActorID uuid.UUID
}

// ImportRequest loads a record in the legacy wide shape (base keys for the
// default locale, suffixed keys for the secondary locale).
type ImportRequest struct {
	Area    string
	Values  map[string]any
	ActorID uuid.UUID
}

// View is the flat projection of an area for one locale.
type View struct {
	Area      Area           `json:"area"`
	Locale    locale.Locale  `json:"locale"`
	Values    map[string]any `json:"values"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

var (
	ErrLocaleRequired    = errors.New("areas: locale is required")
	ErrRepositoryMissing = errors.New("areas: repository is not configured")
)

// RichTextRenderer converts stored markdown into display HTML.
type RichTextRenderer interface {
	RenderOrEscape(markdown string) string
}

// ServiceOption configures the service.
type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithLocales(set locale.Set) ServiceOption {
	return func(s *service) {
		s.locales = set
	}
}

func WithRegistry(registry *Registry) ServiceOption {
	return func(s *service) {
		if registry != nil {
			s.registry = registry
		}
	}
}

func WithRichText(renderer RichTextRenderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

type service struct {
	repo        RecordRepository
	registry    *Registry
	locales     locale.Set
	renderer    RichTextRenderer
	validators  map[Area]*validation.Validator
	locks       map[Area]*sync.Mutex
	broadcaster *changeBroadcaster
	logger      interfaces.Logger
	now         func() time.Time
}

// NewService builds the area service. Validators are compiled for every
// registered area up front.
func NewService(repo RecordRepository, opts ...ServiceOption) (Service, error) {
	s := &service{
		repo:        repo,
		registry:    DefaultRegistry(),
		locales:     locale.DefaultSet(),
		broadcaster: newChangeBroadcaster(),
		logger:      logging.NoOp(),
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}

	defs := s.registry.Definitions()
	s.validators = make(map[Area]*validation.Validator, len(defs))
	s.locks = make(map[Area]*sync.Mutex, len(defs))
	for _, def := range defs {
		v, err := validation.NewValidator(def.Schema)
		if err != nil {
			return nil, fmt.Errorf("areas: compile schema for %s: %w", def.Area, err)
		}
		s.validators[def.Area] = v
		s.locks[def.Area] = &sync.Mutex{}
	}
	return s, nil
}

func (s *service) Definitions() []Definition {
	return s.registry.Definitions()
}

func (s *service) Definition(area string) (Definition, error) {
	return s.registry.Lookup(area)
}

func (s *service) Get(ctx context.Context, req GetRequest) (*View, error) {
	def, loc, err := s.resolve(req.Area, req.Locale)
	if err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}

	opts := bilingual.ProjectOptions{IncludePrivate: req.IncludePrivate}
	if req.Fallback {
		opts.Fallback = s.locales.Default
	}
	if req.RenderRichText && s.renderer != nil {
		opts.RenderRichText = s.renderer.RenderOrEscape
	}

	return &View{
		Area:      def.Area,
		Locale:    loc,
		Values:    bilingual.Project(def.Schema, rec.Content(), loc, opts),
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (s *service) Save(ctx context.Context, req SaveRequest) (*View, error) {
	def, loc, err := s.resolve(req.Area, req.Locale)
	if err != nil {
		return nil, err
	}
	logger := logging.WithAreaContext(s.logger, string(def.Area), string(loc)).WithContext(ctx)

	if err := s.validators[def.Area].ValidatePartial(req.Values); err != nil {
		logger.Warn("content.save.invalid", "error", err)
		return nil, err
	}

	lock := s.locks[def.Area]
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.load(ctx, def)
	if err != nil {
		logger.Error("content.save.load_failed", "error", err)
		return nil, err
	}

	merged, keys, err := bilingual.Merge(def.Schema, rec.Content(), loc, req.Values)
	if err != nil {
		logger.Warn("content.save.invalid", "error", err)
		return nil, err
	}

	rec.SetContent(merged)
	rec.UpdatedAt = s.now().UTC()
	if req.ActorID != uuid.Nil {
		actor := req.ActorID
		rec.UpdatedBy = &actor
	}

	stored, err := s.repo.Update(ctx, rec)
	if err != nil {
		logger.Error("content.save.failed", "error", err)
		return nil, err
	}

	logger.Info("content.save.success", "keys", keys)
	s.broadcaster.Broadcast(ChangeEvent{
		Type:    ChangeUpdated,
		Area:    def.Area,
		Locale:  loc,
		Keys:    keys,
		ActorID: req.ActorID,
	})

	return &View{
		Area:      def.Area,
		Locale:    loc,
		Values:    bilingual.Project(def.Schema, stored.Content(), loc, bilingual.ProjectOptions{IncludePrivate: true}),
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (s *service) Import(ctx context.Context, req ImportRequest) error {
	def, err := s.registry.Lookup(req.Area)
	if err != nil {
		return err
	}
	updates, err := bilingual.FromWide(def.Schema, s.locales, req.Values)
	if err != nil {
		return err
	}
	for _, loc := range s.locales.All() {
		if len(updates[loc]) == 0 {
			continue
		}
		if _, err := s.Save(ctx, SaveRequest{
			Area:    string(def.Area),
			Locale:  loc,
			Values:  updates[loc],
			ActorID: req.ActorID,
		}); err != nil {
			return fmt.Errorf("import %s (%s): %w", def.Area, loc, err)
		}
	}
	return nil
}

func (s *service) Export(ctx context.Context, area string) (map[string]any, error) {
	def, err := s.registry.Lookup(area)
	if err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}
	return bilingual.Widen(def.Schema, rec.Content(), s.locales), nil
}

func (s *service) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return s.broadcaster.Subscribe(ctx)
}

func (s *service) resolve(area string, loc locale.Locale) (Definition, locale.Locale, error) {
	def, err := s.registry.Lookup(area)
	if err != nil {
		return Definition{}, "", err
	}
	if loc == "" {
		return Definition{}, "", ErrLocaleRequired
	}
	if !s.locales.Contains(loc) {
		return Definition{}, "", fmt.Errorf("%w: %q", locale.ErrUnsupported, loc)
	}
	return def, loc, nil
}

// load returns the area row, creating it with default values on first
// access. A concurrent creator winning the insert is tolerated by reading
// its row back.
func (s *service) load(ctx context.Context, def Definition) (*Record, error) {
	rec, err := s.repo.GetByArea(ctx, def.Area)
	if err == nil {
		return rec, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	fresh := &Record{
		ID:        identity.AreaUUID(string(def.Area)),
		Area:      string(def.Area),
		CreatedAt: now,
		UpdatedAt: now,
	}
	fresh.SetContent(bilingual.NewRecord(def.Schema, s.locales))

	created, createErr := s.repo.Create(ctx, fresh)
	if createErr != nil {
		if existing, getErr := s.repo.GetByArea(ctx, def.Area); getErr == nil {
			return existing, nil
		}
		return nil, createErr
	}

	s.logger.WithContext(ctx).Info("content.area.created", "area", def.Area)
	s.broadcaster.Broadcast(ChangeEvent{Type: ChangeCreated, Area: def.Area})
	return created, nil
}
