package navigation

import (
	"context"
	"errors"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Item is one menu entry.
type Item struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Menu is the site navigation for one locale.
type Menu struct {
	Locale    locale.Locale `json:"locale"`
	Dir       string        `json:"dir"`
	Items     []Item        `json:"items"`
	Alternate string        `json:"alternate"`
}

// SettingsSource is the slice of the areas service navigation reads.
type SettingsSource interface {
	Get(ctx context.Context, req areas.GetRequest) (*areas.View, error)
	Subscribe(ctx context.Context) (<-chan areas.ChangeEvent, error)
}

var ErrSettingsMissing = errors.New("navigation: settings source is not configured")

type entry struct {
	key     string
	route   string
	flag    string
	message string
}

var entries = []entry{
	{"home", RouteHome, "showHome", locale.MsgNavHome},
	{"about", RouteAbout, "showAbout", locale.MsgNavAbout},
	{"projects", RouteProjects, "showProjects", locale.MsgNavProjects},
	{"clients", RouteClients, "showClients", locale.MsgNavClients},
	{"contact", RouteContact, "showContact", locale.MsgNavContact},
}

type ServiceOption func(*Service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithLocales(set locale.Set) ServiceOption {
	return func(s *Service) {
		s.locales = set
	}
}

// Service builds and caches per-locale menus.
type Service struct {
	settings SettingsSource
	manager  *urlkit.RouteManager
	locales  locale.Set
	logger   interfaces.Logger

	mu    sync.RWMutex
	cache map[locale.Locale]*Menu
}

func NewService(settings SettingsSource, manager *urlkit.RouteManager, opts ...ServiceOption) (*Service, error) {
	if settings == nil {
		return nil, ErrSettingsMissing
	}
	s := &Service{
		settings: settings,
		manager:  manager,
		locales:  locale.DefaultSet(),
		logger:   logging.NoOp(),
		cache:    make(map[locale.Locale]*Menu),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.manager == nil {
		s.manager = urlkit.NewRouteManager(DefaultRouteConfig("", s.locales))
	}
	return s, nil
}

// Menu returns the menu for loc.
func (s *Service) Menu(ctx context.Context, loc locale.Locale) (*Menu, error) {
	if !s.locales.Contains(loc) {
		return nil, locale.ErrUnsupported
	}
	s.mu.RLock()
	cached, ok := s.cache[loc]
	s.mu.RUnlock()
	if ok {
		return cloneMenu(cached), nil
	}

	menu, err := s.build(ctx, loc)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[loc] = menu
	s.mu.Unlock()
	return cloneMenu(menu), nil
}

// URL builds a public URL for route in loc.
func (s *Service) URL(loc locale.Locale, route string, params map[string]any) (string, error) {
	group, err := localeGroup(s.manager, loc)
	if err != nil {
		return "", err
	}
	return buildURL(group, route, params)
}

// ProjectURL links a project detail page.
func (s *Service) ProjectURL(loc locale.Locale, slug string) (string, error) {
	return s.URL(loc, RouteProject, map[string]any{"slug": slug})
}

// Invalidate drops cached menus.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[locale.Locale]*Menu)
	s.mu.Unlock()
}

// Watch invalidates cached menus whenever settings change. It blocks until
// ctx is done.
func (s *Service) Watch(ctx context.Context) error {
	events, err := s.settings.Subscribe(ctx)
	if err != nil {
		return err
	}
	for evt := range events {
		if evt.Area != areas.Settings {
			continue
		}
		s.Invalidate()
		s.logger.Debug("navigation.cache.invalidated", "reason", evt.Type)
	}
	return ctx.Err()
}

func (s *Service) build(ctx context.Context, loc locale.Locale) (*Menu, error) {
	view, err := s.settings.Get(ctx, areas.GetRequest{Area: string(areas.Settings), Locale: loc, Fallback: true})
	if err != nil {
		return nil, err
	}
	group, err := localeGroup(s.manager, loc)
	if err != nil {
		return nil, err
	}

	menu := &Menu{Locale: loc, Dir: loc.Dir(), Items: make([]Item, 0, len(entries))}
	for _, e := range entries {
		if visible, ok := view.Values[e.flag].(bool); ok && !visible {
			continue
		}
		url, err := buildURL(group, e.route, nil)
		if err != nil {
			return nil, err
		}
		menu.Items = append(menu.Items, Item{Key: e.key, Label: locale.Message(loc, e.message), URL: url})
	}

	if other := s.locales.Other(loc); other != "" {
		if altGroup, err := localeGroup(s.manager, other); err == nil {
			menu.Alternate, _ = buildURL(altGroup, RouteHome, nil)
		}
	}
	s.logger.Debug("navigation.menu.built", "locale", loc, "items", len(menu.Items))
	return menu, nil
}

func cloneMenu(m *Menu) *Menu {
	out := *m
	out.Items = append([]Item(nil), m.Items...)
	return &out
}
