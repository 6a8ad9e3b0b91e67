package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/uploads"
	"github.com/goliatone/go-sitecms/internal/users"
)

const testPassword = "correct-horse"

type testServer struct {
	handler  http.Handler
	areas    areas.Service
	projects catalog.ProjectService
	store    *uploads.MemoryStore
}

func setupAPI(t *testing.T) testServer {
	t.Helper()
	content, err := areas.NewService(areas.NewMemoryRepository())
	if err != nil {
		t.Fatalf("areas service: %v", err)
	}
	projects, err := catalog.NewProjectService(catalog.NewMemoryProjectRepository())
	if err != nil {
		t.Fatalf("project service: %v", err)
	}
	clients, err := catalog.NewClientService(catalog.NewMemoryClientRepository())
	if err != nil {
		t.Fatalf("client service: %v", err)
	}
	accounts, err := users.NewService(users.NewMemoryRepository(), users.WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	for _, in := range []users.CreateInput{
		{Email: "admin@example.com", Role: "admin", Password: testPassword},
		{Email: "editor@example.com", Role: "editor", Password: testPassword},
	} {
		if _, err := accounts.Create(t.Context(), in); err != nil {
			t.Fatalf("create %s: %v", in.Email, err)
		}
	}
	tokens, err := auth.NewTokenService([]byte("test-secret-0123456789"))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	store := uploads.NewMemoryStore()
	uploader, err := uploads.NewService(store, uploads.WithMaxBytes(1024))
	if err != nil {
		t.Fatalf("upload service: %v", err)
	}

	api := NewAPI(
		WithAreaService(content),
		WithProjectService(projects),
		WithClientService(clients),
		WithUserService(accounts),
		WithUploadService(uploader),
		WithContactService(contact.NewService(contact.WithRepository(contact.NewMemoryRepository()))),
		WithAuth(tokens, "sitecms_session"),
	)
	return testServer{handler: api.Handler(), areas: content, projects: projects, store: store}
}

func doJSONRequest(t *testing.T, h http.Handler, method, path, token string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected status %d got %d (%s)", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func login(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := doJSONRequest(t, h, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": testPassword,
	}, http.StatusOK)
	var session sessionResponse
	decodeJSONBody(t, rec, &session)
	if session.Token == "" || session.User.Email != email {
		t.Fatalf("unexpected session %+v", session)
	}
	var cookie bool
	for _, c := range rec.Result().Cookies() {
		cookie = cookie || (c.Name == "sitecms_session" && c.Value == session.Token)
	}
	if !cookie {
		t.Fatalf("expected session cookie")
	}
	return session.Token
}

func contentValue(t *testing.T, h http.Handler, area, loc, key string) any {
	t.Helper()
	rec := doJSONRequest(t, h, http.MethodGet, "/api/content/"+area+"?locale="+loc, "", nil, http.StatusOK)
	var view areas.View
	decodeJSONBody(t, rec, &view)
	if string(view.Locale) != loc {
		t.Fatalf("expected locale %s got %s", loc, view.Locale)
	}
	value, ok := view.Values[key]
	if !ok {
		t.Fatalf("expected key %s in %+v", key, view.Values)
	}
	return value
}

func TestContentRoundTripOnEmptyStore(t *testing.T) {
	srv := setupAPI(t)

	if got := contentValue(t, srv.handler, "home", "ar", "heroTitle"); got != "" {
		t.Fatalf("expected empty default heroTitle, got %v", got)
	}

	token := login(t, srv.handler, "editor@example.com")
	rec := doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", token, map[string]any{
		"locale": "ar",
		"values": map[string]any{"heroTitle": "مرحبا"},
	}, http.StatusOK)
	var saved areas.View
	decodeJSONBody(t, rec, &saved)
	if saved.Values["heroTitle"] != "مرحبا" {
		t.Fatalf("expected saved view to carry the edit, got %+v", saved.Values)
	}

	if got := contentValue(t, srv.handler, "home", "ar", "heroTitle"); got != "مرحبا" {
		t.Fatalf("expected arabic heroTitle, got %v", got)
	}
	if got := contentValue(t, srv.handler, "home", "en", "heroTitle"); got != "" {
		t.Fatalf("english heroTitle must stay untouched, got %v", got)
	}
}

func TestFlatSaveBodyAndLocaleQuery(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "admin@example.com")

	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/footer", token, map[string]any{
		"locale":      "en",
		"companyName": "Acme Builders",
	}, http.StatusOK)
	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/footer?locale=ar", token, map[string]any{
		"companyName": "أكمي",
	}, http.StatusOK)

	if got := contentValue(t, srv.handler, "footer", "en", "companyName"); got != "Acme Builders" {
		t.Fatalf("unexpected english company name %v", got)
	}
	if got := contentValue(t, srv.handler, "footer", "ar", "companyName"); got != "أكمي" {
		t.Fatalf("unexpected arabic company name %v", got)
	}
}

func TestSequentialSavesLastWriterWins(t *testing.T) {
	srv := setupAPI(t)
	first := login(t, srv.handler, "admin@example.com")
	second := login(t, srv.handler, "editor@example.com")

	for _, step := range []struct {
		token string
		value string
	}{{first, "A"}, {second, "B"}} {
		doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", step.token, map[string]any{
			"locale": "en",
			"values": map[string]any{"heroTitle": step.value},
		}, http.StatusOK)
	}

	if got := contentValue(t, srv.handler, "home", "en", "heroTitle"); got != "B" {
		t.Fatalf("expected last writer value B, got %v", got)
	}
}

func TestWritesRequireAuthentication(t *testing.T) {
	srv := setupAPI(t)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPut, "/api/content/home", map[string]any{"locale": "ar", "values": map[string]any{"heroTitle": "x"}}},
		{http.MethodPost, "/api/projects", map[string]any{"title": map[string]string{"ar": "برج"}}},
		{http.MethodPost, "/api/clients", map[string]any{"name": map[string]string{"ar": "عميل"}}},
		{http.MethodGet, "/api/users", nil},
		{http.MethodGet, "/api/contact", nil},
		{http.MethodGet, "/api/auth/me", nil},
	}
	for _, tc := range cases {
		rec := doJSONRequest(t, srv.handler, tc.method, tc.path, "", tc.body, http.StatusUnauthorized)
		var payload errorResponse
		decodeJSONBody(t, rec, &payload)
		if payload.Error != "unauthorized" || payload.Message == "" {
			t.Fatalf("%s %s: unexpected body %+v", tc.method, tc.path, payload)
		}
	}

	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", "not-a-token",
		map[string]any{"locale": "ar", "values": map[string]any{"heroTitle": "x"}}, http.StatusUnauthorized)

	if got := contentValue(t, srv.handler, "home", "ar", "heroTitle"); got != "" {
		t.Fatalf("rejected write must not reach storage, got %v", got)
	}
	list, err := srv.projects.List(t.Context(), catalog.ListOptions{})
	if err != nil || len(list) != 0 {
		t.Fatalf("rejected create must not reach storage, got %d (%v)", len(list), err)
	}
}

func TestContentErrors(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "admin@example.com")

	doJSONRequest(t, srv.handler, http.MethodGet, "/api/content/blog?locale=ar", "", nil, http.StatusNotFound)
	doJSONRequest(t, srv.handler, http.MethodGet, "/api/content/home?locale=fr", "", nil, http.StatusBadRequest)
	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", token,
		map[string]any{"values": map[string]any{"heroTitle": "x"}}, http.StatusBadRequest)
	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", token,
		map[string]any{"locale": "ar", "values": map[string]any{"bogus": "x"}}, http.StatusUnprocessableEntity)
	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/about-us", token,
		map[string]any{"locale": "ar", "values": map[string]any{"value1Icon": "rocket"}}, http.StatusUnprocessableEntity)
}

func TestAreaSchemas(t *testing.T) {
	srv := setupAPI(t)
	rec := doJSONRequest(t, srv.handler, http.MethodGet, "/api/areas", "", nil, http.StatusOK)
	var out struct {
		Areas []areaSchema `json:"areas"`
	}
	decodeJSONBody(t, rec, &out)
	if len(out.Areas) != 7 {
		t.Fatalf("expected seven areas, got %d", len(out.Areas))
	}

	rec = doJSONRequest(t, srv.handler, http.MethodGet, "/api/areas/home", "", nil, http.StatusOK)
	var home areaSchema
	decodeJSONBody(t, rec, &home)
	if home.Area != areas.Home || len(home.Fields) == 0 || home.Fields[0].Key != "heroTitle" {
		t.Fatalf("unexpected home schema %+v", home)
	}
}

func TestSiteProjectionFallsBack(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "admin@example.com")
	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", token, map[string]any{
		"locale": "ar",
		"values": map[string]any{"heroTitle": "مرحبا"},
	}, http.StatusOK)

	rec := doJSONRequest(t, srv.handler, http.MethodGet, "/api/site/home?locale=en", "", nil, http.StatusOK)
	var view areas.View
	decodeJSONBody(t, rec, &view)
	if view.Values["heroTitle"] != "مرحبا" {
		t.Fatalf("public projection should fall back to arabic, got %v", view.Values["heroTitle"])
	}
	if got := contentValue(t, srv.handler, "home", "en", "heroTitle"); got != "" {
		t.Fatalf("admin projection must stay strict, got %v", got)
	}
}

func TestProjectListingHidesDrafts(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "editor@example.com")

	for _, p := range []map[string]any{
		{"title": map[string]string{"ar": "برج النخيل", "en": "Palm Tower"}, "published": true},
		{"title": map[string]string{"ar": "مسودة"}, "published": false},
	} {
		doJSONRequest(t, srv.handler, http.MethodPost, "/api/projects", token, p, http.StatusCreated)
	}

	rec := doJSONRequest(t, srv.handler, http.MethodGet, "/api/projects?locale=en", "", nil, http.StatusOK)
	var public []catalog.ProjectView
	decodeJSONBody(t, rec, &public)
	if len(public) != 1 || public[0].Title != "Palm Tower" {
		t.Fatalf("expected one published english view, got %+v", public)
	}

	rec = doJSONRequest(t, srv.handler, http.MethodGet, "/api/projects", token, nil, http.StatusOK)
	var all []catalog.Project
	decodeJSONBody(t, rec, &all)
	if len(all) != 2 {
		t.Fatalf("signed-in listing should include drafts, got %d", len(all))
	}

	var draft catalog.Project
	for _, p := range all {
		if !p.Published {
			draft = p
		}
	}
	doJSONRequest(t, srv.handler, http.MethodGet, "/api/projects/"+draft.ID.String(), "", nil, http.StatusNotFound)
	doJSONRequest(t, srv.handler, http.MethodGet, "/api/projects/"+public[0].Slug+"?locale=ar", "", nil, http.StatusOK)
	doJSONRequest(t, srv.handler, http.MethodDelete, "/api/projects/"+draft.ID.String(), token, nil, http.StatusNoContent)
}

func TestEditorCannotManageUsers(t *testing.T) {
	srv := setupAPI(t)
	editor := login(t, srv.handler, "editor@example.com")
	doJSONRequest(t, srv.handler, http.MethodGet, "/api/users", editor, nil, http.StatusForbidden)

	admin := login(t, srv.handler, "admin@example.com")
	rec := doJSONRequest(t, srv.handler, http.MethodGet, "/api/users", admin, nil, http.StatusOK)
	var list []users.User
	decodeJSONBody(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected two users, got %d", len(list))
	}
	doJSONRequest(t, srv.handler, http.MethodPost, "/api/users", admin, users.CreateInput{
		Email: "admin@example.com", Role: "editor", Password: testPassword,
	}, http.StatusConflict)
}

func TestContactSubmission(t *testing.T) {
	srv := setupAPI(t)

	rec := doJSONRequest(t, srv.handler, http.MethodPost, "/api/contact?locale=en", "", contact.Form{
		Name: "Sara", Email: "not-an-email",
	}, http.StatusUnprocessableEntity)
	var failed contactResponse
	decodeJSONBody(t, rec, &failed)
	if failed.Success {
		t.Fatalf("invalid form must not succeed")
	}
	for field, code := range map[string]contact.Code{
		"email":   contact.InvalidEmail,
		"subject": contact.RequiredField,
		"message": contact.RequiredField,
	} {
		fe, ok := failed.Fields.Field(field)
		if !ok || fe.Code != code || fe.Message == "" {
			t.Fatalf("expected %s %s, got %+v", field, code, failed.Fields)
		}
	}

	rec = doJSONRequest(t, srv.handler, http.MethodPost, "/api/contact?locale=ar", "", contact.Form{
		Name: "Sara", Email: "sara@example.com", Subject: "Quote", Message: "Hello",
	}, http.StatusOK)
	var ok contactResponse
	decodeJSONBody(t, rec, &ok)
	if !ok.Success || ok.Message == "" {
		t.Fatalf("unexpected success body %+v", ok)
	}

	admin := login(t, srv.handler, "admin@example.com")
	rec = doJSONRequest(t, srv.handler, http.MethodGet, "/api/contact", admin, nil, http.StatusOK)
	var listed struct {
		Total int `json:"total"`
	}
	decodeJSONBody(t, rec, &listed)
	if listed.Total != 1 {
		t.Fatalf("expected one stored submission, got %d", listed.Total)
	}
}

func uploadRequest(t *testing.T, token, filename, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/uploads?locale=en", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadEndpoint(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "editor@example.com")

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, uploadRequest(t, token, "notes.txt", "text/plain", []byte("hello")))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for non-image, got %d (%s)", rec.Code, rec.Body.String())
	}
	var rejected uploadResponse
	decodeJSONBody(t, rec, &rejected)
	if rejected.Success || rejected.Message == "" {
		t.Fatalf("unexpected rejection body %+v", rejected)
	}

	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, uploadRequest(t, token, "big.png", "image/png", bytes.Repeat([]byte{1}, 2048)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized image, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, uploadRequest(t, token, "hero.png", "image/png", []byte("\x89PNG\r\n\x1a\nfake")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var stored uploadResponse
	decodeJSONBody(t, rec, &stored)
	if !stored.Success || !strings.HasPrefix(stored.Path, "/uploads/") || !strings.HasSuffix(stored.Path, ".png") {
		t.Fatalf("unexpected upload response %+v", stored)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := setupAPI(t)

	rec := doJSONRequest(t, srv.handler, http.MethodGet, "/api/areas", "", nil, http.StatusOK)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/areas", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("expected the caller's request id, got %q", got)
	}
}

func TestUploadEndpointRejectsSpoofedImages(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "editor@example.com")

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, uploadRequest(t, token, "evil.html", "image/x-icon2", []byte("<script>alert(1)</script>")))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 for html content, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestOversizedBodiesAreRejected(t *testing.T) {
	srv := setupAPI(t)
	token := login(t, srv.handler, "editor@example.com")

	rec := httptest.NewRecorder()
	big := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 80<<10)...)
	srv.handler.ServeHTTP(rec, uploadRequest(t, token, "huge.png", "image/png", big))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized multipart body, got %d (%s)", rec.Code, rec.Body.String())
	}
	var upload uploadResponse
	decodeJSONBody(t, rec, &upload)
	if upload.Success || upload.Error != "payload_too_large" {
		t.Fatalf("unexpected upload body %+v", upload)
	}

	message := strings.Repeat("a", int(DefaultMaxBodyBytes)+1)
	rec = doJSONRequest(t, srv.handler, http.MethodPost, "/api/contact?locale=en", "", map[string]string{
		"name": "Sara", "email": "sara@example.com", "subject": "Quote", "message": message,
	}, http.StatusRequestEntityTooLarge)
	var reply contactResponse
	decodeJSONBody(t, rec, &reply)
	if reply.Success || reply.Error != "payload_too_large" {
		t.Fatalf("unexpected contact body %+v", reply)
	}

	doJSONRequest(t, srv.handler, http.MethodPut, "/api/content/home", token, map[string]any{
		"locale": "en", "values": map[string]any{"heroTitle": message},
	}, http.StatusRequestEntityTooLarge)
	if got := contentValue(t, srv.handler, "home", "en", "heroTitle"); got != "" {
		t.Fatalf("oversized save must not reach storage, got %.20v", got)
	}
}

func TestUploadedFilesAreServedInert(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	handler := NewAPI(WithUploadsRoute("/uploads", dir)).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/logo.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || !strings.Contains(rec.Header().Get("Content-Security-Policy"), "sandbox") {
		t.Fatalf("expected inert headers, got %v", rec.Header())
	}
}
