package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/locale"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("  "); !errors.Is(err, ErrBaseURLRequired) {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

func TestContentRoundTripSendsTokenAndLocale(t *testing.T) {
	stored := map[string]any{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok-1", "user": map[string]string{"email": "a@b.co"}})
	})
	mux.HandleFunc("GET /api/content/{area}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("locale") != "en" {
			t.Errorf("expected locale query, got %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"area": r.PathValue("area"), "locale": "en", "values": stored})
	})
	mux.HandleFunc("PUT /api/content/{area}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "message": "Unauthorized"})
			return
		}
		var in contentPayload
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode: %v", err)
		}
		if in.Locale != locale.English {
			t.Errorf("expected en locale in body, got %q", in.Locale)
		}
		for k, v := range in.Values {
			stored[k] = v
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"area": "home", "locale": "en", "values": stored})
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.SaveContent(ctx, "home", locale.English, map[string]any{"heroTitle": "Hello"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before login, got %v", err)
	}

	if _, err := c.Login(ctx, "a@b.co", "secret-password"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	saved, err := c.SaveContent(ctx, "home", locale.English, map[string]any{"heroTitle": "Hello"})
	if err != nil {
		t.Fatalf("SaveContent: %v", err)
	}
	if saved["heroTitle"] != "Hello" {
		t.Fatalf("unexpected save response %+v", saved)
	}
	got, err := c.FetchContent(ctx, "home", locale.English)
	if err != nil {
		t.Fatalf("FetchContent: %v", err)
	}
	if got["heroTitle"] != "Hello" {
		t.Fatalf("unexpected fetch %+v", got)
	}
}

func TestUploadImageSendsMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/uploads", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if string(body) != "png-bytes" || header.Header.Get("Content-Type") != "image/png" {
			t.Errorf("unexpected part %q %q", body, header.Header.Get("Content-Type"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "path": "/uploads/2026/10/x.png"})
	})
	c, _ := newTestClient(t, mux)

	path, err := c.UploadImage(context.Background(), editor.File{
		Name:        "logo.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if path != "/uploads/2026/10/x.png" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestSubmitContactValidatesWithoutNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	err := c.SubmitContact(context.Background(), locale.English, contact.Form{Email: "not-an-email"})
	var verrs contact.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{"name", "subject", "message"} {
		fe, ok := verrs.Field(field)
		if !ok || fe.Code != contact.RequiredField {
			t.Fatalf("expected RequiredField for %s, got %+v", field, fe)
		}
	}
	if fe, _ := verrs.Field("email"); fe.Code != contact.InvalidEmail || fe.Message == "" {
		t.Fatalf("expected localized InvalidEmail, got %+v", fe)
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid form must not reach the network")
	}
}

func TestSubmitContactServerOutcomes(t *testing.T) {
	fail := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "mail server down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	form := contact.Form{Name: "Sara", Email: "sara@example.com", Subject: "Hi", Message: "Hello there"}

	if err := c.SubmitContact(context.Background(), locale.Arabic, form); err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	fail = true
	err := c.SubmitContact(context.Background(), locale.Arabic, form)
	var cerr *ContactError
	if !errors.As(err, &cerr) || cerr.Message != "mail server down" {
		t.Fatalf("expected server message, got %v", err)
	}
}
