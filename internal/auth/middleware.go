package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(r *http.Request) (Identity, error)

func (fn AuthenticatorFunc) Authenticate(r *http.Request) (Identity, error) {
	return fn(r)
}

// RequestAuthenticator reads a bearer token or the session cookie.
type RequestAuthenticator struct {
	Tokens     *TokenService
	CookieName string
}

func (a RequestAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	return a.Tokens.Verify(a.token(r))
}

func (a RequestAuthenticator) token(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value)
		}
	}
	if a.CookieName != "" {
		if cookie, err := r.Cookie(a.CookieName); err == nil {
			return cookie.Value
		}
	}
	return ""
}

type identityKey struct{}

// WithIdentity stores id and its role permissions on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, identityKey{}, id)
	return permissions.WithRole(ctx, id.Role)
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*Middleware)

func WithLogger(logger interfaces.Logger) MiddlewareOption {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithUnauthorizedHandler replaces the default 401 response.
func WithUnauthorizedHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(m *Middleware) {
		if fn != nil {
			m.unauthorized = fn
		}
	}
}

// Middleware guards handlers that write.
type Middleware struct {
	authn        Authenticator
	logger       interfaces.Logger
	unauthorized func(w http.ResponseWriter, r *http.Request, err error)
}

func NewMiddleware(authn Authenticator, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		authn:        authn,
		logger:       logging.NoOp(),
		unauthorized: writeUnauthorized,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Require rejects unauthenticated requests with 401 before next runs.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.authenticate(r)
		if err != nil {
			m.logger.Warn("auth.rejected", "method", r.Method, "path", r.URL.Path, "error", err)
			m.unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Optional attaches the identity when the request carries a valid token.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := m.authenticate(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) authenticate(r *http.Request) (Identity, error) {
	if m.authn == nil {
		return Identity{}, ErrMissingToken
	}
	return m.authn.Authenticate(r)
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, _ error) {
	loc := locale.FromContextOr(r.Context(), locale.Arabic)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="sitecms"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": locale.Message(loc, locale.MsgUnauthorized),
	})
}
