package locale

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// DefaultCookie is the cookie the site uses to remember a visitor's locale.
const DefaultCookie = "site_locale"

// Negotiator resolves the locale of an incoming request.
type Negotiator struct {
	set     Set
	matcher language.Matcher
	cookie  string
}

// NegotiatorOption customises a Negotiator.
type NegotiatorOption func(*Negotiator)

// WithCookieName overrides the locale cookie name.
func WithCookieName(name string) NegotiatorOption {
	return func(n *Negotiator) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			n.cookie = trimmed
		}
	}
}

func NewNegotiator(set Set, opts ...NegotiatorOption) *Negotiator {
	n := &Negotiator{
		set:     set,
		matcher: language.NewMatcher([]language.Tag{set.Default.Tag(), set.Secondary.Tag()}),
		cookie:  DefaultCookie,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Set returns the locale pair the negotiator resolves into.
func (n *Negotiator) Set() Set {
	return n.set
}

// Explicit returns the locale named by the "locale" (or "lang") query
// parameter. ok is false when the request names none; err is set when the
// named locale is not served.
func (n *Negotiator) Explicit(r *http.Request) (loc Locale, ok bool, err error) {
	query := r.URL.Query()
	raw := query.Get("locale")
	if raw == "" {
		raw = query.Get("lang")
	}
	if strings.TrimSpace(raw) == "" {
		return "", false, nil
	}
	loc, err = n.set.Parse(raw)
	return loc, true, err
}

// Resolve picks the request locale from, in order, the query string, the
// locale cookie and the Accept-Language header, falling back to the default
// locale. Invalid explicit values are ignored here.
func (n *Negotiator) Resolve(r *http.Request) Locale {
	if loc, ok, err := n.Explicit(r); ok && err == nil {
		return loc
	}
	if c, err := r.Cookie(n.cookie); err == nil {
		if loc, err := n.set.Parse(c.Value); err == nil {
			return loc
		}
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			_, index, confidence := n.matcher.Match(tags...)
			if confidence != language.No {
				return n.set.All()[index]
			}
		}
	}
	return n.set.Default
}

// Middleware stores the resolved locale on the request context and
// advertises it in the response headers.
func (n *Negotiator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc := n.Resolve(r)
		w.Header().Set("Content-Language", loc.String())
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), loc)))
	})
}
