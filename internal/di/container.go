package di

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/catalog"
	sitecmd "github.com/goliatone/go-sitecms/internal/commands/site"
	"github.com/goliatone/go-sitecms/internal/contact"
	sitehttp "github.com/goliatone/go-sitecms/internal/http"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/logging/console"
	"github.com/goliatone/go-sitecms/internal/logging/gologger"
	"github.com/goliatone/go-sitecms/internal/navigation"
	"github.com/goliatone/go-sitecms/internal/richtext"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
	"github.com/goliatone/go-sitecms/internal/storage"
	"github.com/goliatone/go-sitecms/internal/uploads"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Container wires module dependencies. Repositories default to memory for
// the "memory" storage provider and to bun otherwise.
type Container struct {
	Config runtimeconfig.Config

	locales        locale.Set
	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	areaRepo    areas.RecordRepository
	projectRepo catalog.ProjectRepository
	clientRepo  catalog.ClientRepository
	userRepo    users.Repository
	contactRepo contact.Repository
	uploadStore uploads.Store
	notifier    contact.Notifier

	routeManager *urlkit.RouteManager
	tokens       *auth.TokenService

	areaSvc    areas.Service
	projectSvc catalog.ProjectService
	clientSvc  catalog.ClientService
	userSvc    users.Service
	uploadSvc  uploads.Service
	contactSvc contact.Service
	navigation *navigation.Service
	handlers   *sitecmd.HandlerSet
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB uses db instead of opening the configured database. The caller
// keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache sets the cache used by the bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithUploadStore replaces the disk store under the uploads directory.
func WithUploadStore(store uploads.Store) Option {
	return func(c *Container) {
		c.uploadStore = store
	}
}

// WithContactNotifier replaces the log notifier.
func WithContactNotifier(notifier contact.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

func WithAreaService(svc areas.Service) Option {
	return func(c *Container) {
		c.areaSvc = svc
	}
}

func WithUserService(svc users.Service) Option {
	return func(c *Container) {
		c.userSvc = svc
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	set, err := cfg.LocaleSet()
	if err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		locales:  set,
		cacheTTL: cacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureRepositories(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		logCfg := c.Config.Logging
		switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     logCfg.Level,
				Format:    logCfg.Format,
				AddSource: logCfg.AddSource,
				Focus:     logCfg.Focus,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		default:
			level := console.ParseLevel(logCfg.Level)
			c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "sitecms.di")
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			c.logger.Warn("cache.disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() error {
	provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
	if provider == "memory" && c.bunDB == nil {
		c.areaRepo = areas.NewMemoryRepository()
		c.projectRepo = catalog.NewMemoryProjectRepository()
		c.clientRepo = catalog.NewMemoryClientRepository()
		c.userRepo = users.NewMemoryRepository()
		if c.Config.Contact.StoreSubmissions {
			c.contactRepo = contact.NewMemoryRepository()
		}
		c.logger.Info("storage.configured", "provider", "memory")
		return nil
	}

	ctx := context.Background()
	if c.bunDB == nil {
		db, err := storage.Open(ctx, c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.Config.Storage.AutoMigrate {
		if err := storage.Migrate(ctx, c.bunDB); err != nil {
			_ = c.Close()
			return err
		}
	}

	if c.cacheService != nil {
		c.areaRepo = areas.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.projectRepo = catalog.NewBunProjectRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.clientRepo = catalog.NewBunClientRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.areaRepo = areas.NewBunRepository(c.bunDB)
		c.projectRepo = catalog.NewBunProjectRepository(c.bunDB)
		c.clientRepo = catalog.NewBunClientRepository(c.bunDB)
	}
	c.userRepo = users.NewBunRepository(c.bunDB)
	if c.Config.Contact.StoreSubmissions {
		c.contactRepo = contact.NewBunRepository(c.bunDB)
	}
	c.logger.Info("storage.configured", "provider", "bun", "driver", c.Config.Storage.Driver, "cache", c.cacheService != nil)
	return nil
}

func (c *Container) configureServices() error {
	var err error
	provider := c.loggerProvider

	if c.areaSvc == nil {
		c.areaSvc, err = areas.NewService(c.areaRepo,
			areas.WithLocales(c.locales),
			areas.WithLogger(logging.ContentLogger(provider)),
			areas.WithRichText(richtext.New()),
		)
		if err != nil {
			return fmt.Errorf("areas service: %w", err)
		}
	}

	catalogOpts := []catalog.ServiceOption{
		catalog.WithLocales(c.locales),
		catalog.WithLogger(logging.CatalogLogger(provider)),
	}
	if c.projectSvc, err = catalog.NewProjectService(c.projectRepo, catalogOpts...); err != nil {
		return fmt.Errorf("project service: %w", err)
	}
	if c.clientSvc, err = catalog.NewClientService(c.clientRepo, catalogOpts...); err != nil {
		return fmt.Errorf("client service: %w", err)
	}

	if c.userSvc == nil {
		if c.userSvc, err = users.NewService(c.userRepo, users.WithLogger(logging.UsersLogger(provider))); err != nil {
			return fmt.Errorf("user service: %w", err)
		}
	}

	if c.uploadStore == nil {
		c.uploadStore = uploads.NewDiskStore(c.Config.Uploads.Dir)
	}
	c.uploadSvc, err = uploads.NewService(c.uploadStore,
		uploads.WithLogger(logging.UploadsLogger(provider)),
		uploads.WithMaxBytes(c.Config.Uploads.MaxBytes),
		uploads.WithPublicPrefix(c.Config.Uploads.PublicPrefix),
	)
	if err != nil {
		return fmt.Errorf("upload service: %w", err)
	}

	contactLogger := logging.ContactLogger(provider)
	if c.notifier == nil {
		c.notifier = contact.LogNotifier{Logger: contactLogger, Recipient: c.Config.Contact.Recipient}
	}
	contactOpts := []contact.ServiceOption{
		contact.WithLogger(contactLogger),
		contact.WithNotifier(c.notifier),
	}
	if c.contactRepo != nil {
		contactOpts = append(contactOpts, contact.WithRepository(c.contactRepo))
	}
	c.contactSvc = contact.NewService(contactOpts...)

	c.routeManager = urlkit.NewRouteManager(navigation.DefaultRouteConfig(c.Config.Navigation.BaseURL, c.locales))
	c.navigation, err = navigation.NewService(c.areaSvc, c.routeManager,
		navigation.WithLocales(c.locales),
		navigation.WithLogger(logging.NavigationLogger(provider)),
	)
	if err != nil {
		return fmt.Errorf("navigation service: %w", err)
	}

	if err := c.configureTokens(); err != nil {
		return err
	}

	c.handlers, err = sitecmd.RegisterSiteCommands(nil, sitecmd.Services{
		Areas:    c.areaSvc,
		Projects: c.projectSvc,
		Clients:  c.clientSvc,
		Contact:  c.contactSvc,
	}, provider)
	return err
}

// configureTokens uses the configured secret or, when it is blank, a random
// one. Random secrets invalidate sessions on restart.
func (c *Container) configureTokens() error {
	secret := []byte(c.Config.Auth.Secret)
	if len(secret) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("auth secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(buf))
		c.logger.Warn("auth.secret.generated", "reason", "no secret configured")
	}
	tokens, err := auth.NewTokenService(secret,
		auth.WithIssuer(c.Config.Auth.Issuer),
		auth.WithTTL(c.Config.Auth.TokenTTL),
	)
	if err != nil {
		return err
	}
	c.tokens = tokens
	return nil
}

// HTTPHandler builds the API handler over the container services.
func (c *Container) HTTPHandler() http.Handler {
	api := sitehttp.NewAPI(
		sitehttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		sitehttp.WithAuthLogger(logging.AuthLogger(c.loggerProvider)),
		sitehttp.WithBasePath(c.Config.HTTP.APIBase),
		sitehttp.WithMaxBodyBytes(c.Config.HTTP.MaxBodyBytes),
		sitehttp.WithUploadsRoute(c.Config.HTTP.UploadsRoute, c.Config.Uploads.Dir),
		sitehttp.WithNegotiator(locale.NewNegotiator(c.locales)),
		sitehttp.WithAuth(c.tokens, c.Config.Auth.CookieName),
		sitehttp.WithAreaService(c.areaSvc),
		sitehttp.WithProjectService(c.projectSvc),
		sitehttp.WithClientService(c.clientSvc),
		sitehttp.WithUserService(c.userSvc),
		sitehttp.WithUploadService(c.uploadSvc),
		sitehttp.WithContactService(c.contactSvc),
		sitehttp.WithNavigation(c.navigation),
	)
	return api.Handler()
}

// StartWatchers keeps cached menus in step with settings changes until ctx
// is done.
func (c *Container) StartWatchers(ctx context.Context) {
	go func() {
		if err := c.navigation.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Warn("navigation.watch.stopped", "error", err)
		}
	}()
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) Locales() locale.Set {
	return c.locales
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB is nil for the memory provider.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) AreaService() areas.Service {
	return c.areaSvc
}

func (c *Container) ProjectService() catalog.ProjectService {
	return c.projectSvc
}

func (c *Container) ClientService() catalog.ClientService {
	return c.clientSvc
}

func (c *Container) UserService() users.Service {
	return c.userSvc
}

func (c *Container) UploadService() uploads.Service {
	return c.uploadSvc
}

func (c *Container) ContactService() contact.Service {
	return c.contactSvc
}

func (c *Container) Navigation() *navigation.Service {
	return c.navigation
}

func (c *Container) Tokens() *auth.TokenService {
	return c.tokens
}

func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// Commands returns the site command handlers.
func (c *Container) Commands() *sitecmd.HandlerSet {
	return c.handlers
}
