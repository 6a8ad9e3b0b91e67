package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/navigation"
	"github.com/goliatone/go-sitecms/internal/uploads"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// MenuSource builds the navigation menu for a locale.
type MenuSource interface {
	Menu(ctx context.Context, loc locale.Locale) (*navigation.Menu, error)
}

// API registers the site endpoints.
type API struct {
	basePath     string
	uploadsRoute string
	uploadsDir   string
	cookieName   string
	maxBodyBytes int64

	areas      areas.Service
	projects   catalog.ProjectService
	clients    catalog.ClientService
	users      users.Service
	uploads    uploads.Service
	contact    contact.Service
	navigation MenuSource

	tokens     *auth.TokenService
	authn      auth.Authenticator
	guard      *auth.Middleware
	negotiator *locale.Negotiator
	logger     interfaces.Logger
	authLogger interfaces.Logger
}

// DefaultMaxBodyBytes caps JSON request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API. Without WithAuth every protected route answers
// 401.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:     "/api",
		cookieName:   "sitecms_session",
		maxBodyBytes: DefaultMaxBodyBytes,
		negotiator:   locale.NewNegotiator(locale.DefaultSet()),
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	authLogger := api.authLogger
	if authLogger == nil {
		authLogger = api.logger
	}
	api.guard = auth.NewMiddleware(api.authn, auth.WithLogger(authLogger))
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithMaxBodyBytes overrides the JSON body cap. Uploads are capped by the
// upload service limit instead.
func WithMaxBodyBytes(limit int64) Option {
	return func(api *API) {
		if limit > 0 {
			api.maxBodyBytes = limit
		}
	}
}

// WithUploadsRoute serves files stored under dir at route.
func WithUploadsRoute(route, dir string) Option {
	return func(api *API) {
		api.uploadsRoute = strings.TrimSpace(route)
		api.uploadsDir = strings.TrimSpace(dir)
	}
}

// WithAuth wires token issuing and request authentication. Tokens are read
// from the Authorization header or the named cookie.
func WithAuth(tokens *auth.TokenService, cookieName string) Option {
	return func(api *API) {
		if tokens == nil {
			return
		}
		api.tokens = tokens
		if name := strings.TrimSpace(cookieName); name != "" {
			api.cookieName = name
		}
		api.authn = auth.RequestAuthenticator{Tokens: tokens, CookieName: api.cookieName}
	}
}

// WithAuthLogger sets the logger used for rejected requests. Defaults to the
// API logger.
func WithAuthLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.authLogger = logger
		}
	}
}

func WithAreaService(service areas.Service) Option {
	return func(api *API) {
		api.areas = service
	}
}

func WithProjectService(service catalog.ProjectService) Option {
	return func(api *API) {
		api.projects = service
	}
}

func WithClientService(service catalog.ClientService) Option {
	return func(api *API) {
		api.clients = service
	}
}

func WithUserService(service users.Service) Option {
	return func(api *API) {
		api.users = service
	}
}

func WithUploadService(service uploads.Service) Option {
	return func(api *API) {
		api.uploads = service
	}
}

func WithContactService(service contact.Service) Option {
	return func(api *API) {
		api.contact = service
	}
}

func WithNavigation(source MenuSource) Option {
	return func(api *API) {
		api.navigation = source
	}
}

// WithNegotiator sets how the request locale is resolved when the caller
// does not pass one explicitly.
func WithNegotiator(negotiator *locale.Negotiator) Option {
	return func(api *API) {
		if negotiator != nil {
			api.negotiator = negotiator
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register wires every route onto mux.
func (api *API) Register(mux *http.ServeMux) {
	if api == nil || mux == nil {
		return
	}
	base := api.basePath
	api.registerAreaRoutes(mux, base)
	api.registerContentRoutes(mux, base)
	api.registerProjectRoutes(mux, base)
	api.registerClientRoutes(mux, base)
	api.registerUserRoutes(mux, base)
	api.registerAuthRoutes(mux, base)
	api.registerUploadRoutes(mux, base)
	api.registerContactRoutes(mux, base)
	api.registerNavigationRoutes(mux, base)
}

// Handler returns a mux with every route registered, wrapped in locale
// negotiation, request logging and panic recovery.
func (api *API) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux)
	return api.recoverer(api.requestLogger(api.negotiator.Middleware(mux)))
}

func (api *API) protect(fn http.HandlerFunc) http.Handler {
	return api.guard.Require(fn)
}

func (api *API) optional(fn http.HandlerFunc) http.Handler {
	return api.guard.Optional(fn)
}
