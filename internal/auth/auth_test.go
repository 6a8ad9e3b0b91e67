package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/permissions"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tokens, err := NewTokenService(testSecret, WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	id := Identity{UserID: uuid.New(), Email: "editor@example.com", Role: permissions.RoleEditor}

	token, expires, err := tokens.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expires)
	}
	got, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != id {
		t.Fatalf("expected %+v, got %+v", id, got)
	}

	now = now.Add(2 * time.Hour)
	if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewTokenService([]byte("another-secret-of-enough-length"))
	verifier, _ := NewTokenService(testSecret)

	token, _, err := issuer.Issue(Identity{UserID: uuid.New(), Role: permissions.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := verifier.Verify(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := NewTokenService([]byte("short")); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
}

func TestRequireRejectsBeforeHandler(t *testing.T) {
	tokens, _ := NewTokenService(testSecret)
	mw := NewMiddleware(RequestAuthenticator{Tokens: tokens, CookieName: "session"})

	called := false
	handler := mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, ok := IdentityFromContext(r.Context())
		if !ok || id.Role != permissions.RoleEditor {
			t.Fatalf("expected editor identity, got %+v %v", id, ok)
		}
		if err := permissions.Require(r.Context(), permissions.UsersCreate); err == nil {
			t.Fatalf("expected editor denied users:create")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/content/home", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without reaching handler, got %d called=%v", rec.Code, called)
	}

	token, _, _ := tokens.Issue(Identity{UserID: uuid.New(), Role: permissions.RoleEditor})
	req := httptest.NewRequest(http.MethodPut, "/api/content/home", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || !called {
		t.Fatalf("expected handler reached with cookie token, got %d", rec.Code)
	}
}

func TestOptionalPassesAnonymous(t *testing.T) {
	tokens, _ := NewTokenService(testSecret)
	mw := NewMiddleware(RequestAuthenticator{Tokens: tokens})

	var authenticated bool
	handler := mw.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, authenticated = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if authenticated {
		t.Fatalf("expected anonymous request")
	}

	token, _, _ := tokens.Issue(Identity{UserID: uuid.New(), Role: permissions.RoleAdmin})
	req = httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !authenticated {
		t.Fatalf("expected identity attached")
	}
}
