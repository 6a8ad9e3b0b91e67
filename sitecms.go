package sitecms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/navigation"
	"github.com/goliatone/go-sitecms/internal/uploads"
	"github.com/goliatone/go-sitecms/internal/users"
)

// AreaService reads and writes locale-resolved content areas.
type AreaService = areas.Service

// ProjectService manages the bilingual project catalog.
type ProjectService = catalog.ProjectService

// ClientService manages the bilingual client catalog.
type ClientService = catalog.ClientService

type UserService = users.Service

type UploadService = uploads.Service

type ContactService = contact.Service

type NavigationService = *navigation.Service

// Locale is a supported UI language code.
type Locale = locale.Locale

const (
	Arabic  = locale.Arabic
	English = locale.English
)

// Module represents the top level site runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a site module using the provided configuration and optional
// DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Areas() AreaService {
	return m.container.AreaService()
}

func (m *Module) Projects() ProjectService {
	return m.container.ProjectService()
}

func (m *Module) Clients() ClientService {
	return m.container.ClientService()
}

func (m *Module) Users() UserService {
	return m.container.UserService()
}

func (m *Module) Uploads() UploadService {
	return m.container.UploadService()
}

func (m *Module) Contact() ContactService {
	return m.container.ContactService()
}

func (m *Module) Navigation() NavigationService {
	return m.container.Navigation()
}

// Handler returns the JSON API mounted under the configured base path.
func (m *Module) Handler() http.Handler {
	return m.container.HTTPHandler()
}

// Start runs background watchers until ctx is done.
func (m *Module) Start(ctx context.Context) {
	m.container.StartWatchers(ctx)
}

// Close releases the database when the module opened it.
func (m *Module) Close() error {
	return m.container.Close()
}
