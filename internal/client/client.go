// Package client talks to the site API on behalf of the admin editors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const defaultTimeout = 15 * time.Second

var (
	ErrBaseURLRequired = errors.New("client: base url is required")
	ErrUnauthorized    = errors.New("client: unauthorized")
	ErrNotFound        = errors.New("client: not found")
)

// APIError is a non-success response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("client: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("client: status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// ContactError is a rejected contact submission.
type ContactError struct {
	Message string
	Fields  contact.ValidationErrors
}

func (e *ContactError) Error() string {
	if e.Message == "" {
		return "client: contact submission failed"
	}
	return "client: contact submission failed: " + e.Message
}

func (e *ContactError) Unwrap() error {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	return nil
}

// AreaSchema describes the editable fields of an area.
type AreaSchema struct {
	Area   string            `json:"area"`
	Label  string            `json:"label"`
	Fields []bilingual.Field `json:"fields"`
}

// Session is the result of a login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithLogger sets the client logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client calls the API rooted at baseURL (for example http://localhost:8080/api).
type Client struct {
	baseURL string
	http    *http.Client
	logger  interfaces.Logger

	mu    sync.RWMutex
	token string
}

var (
	_ editor.Backend  = (*Client)(nil)
	_ editor.Uploader = (*Client)(nil)
)

// New constructs a client.
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("client: base url: %w", err)
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint(nil, "auth", "login"), body, &session); err != nil {
		return Session{}, err
	}
	c.SetToken(session.Token)
	return session, nil
}

// Areas lists the content areas and their fields.
func (c *Client) Areas(ctx context.Context) ([]AreaSchema, error) {
	var out struct {
		Areas []AreaSchema `json:"areas"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "areas"), nil, &out); err != nil {
		return nil, err
	}
	return out.Areas, nil
}

// Schema returns the fields of one area.
func (c *Client) Schema(ctx context.Context, area string) (AreaSchema, error) {
	var out AreaSchema
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(nil, "areas", area), nil, &out); err != nil {
		return AreaSchema{}, err
	}
	return out, nil
}

type contentPayload struct {
	Area   string         `json:"area,omitempty"`
	Locale locale.Locale  `json:"locale"`
	Values map[string]any `json:"values"`
}

// FetchContent reads the admin projection of area for loc.
func (c *Client) FetchContent(ctx context.Context, area string, loc locale.Locale) (map[string]any, error) {
	var out contentPayload
	query := url.Values{"locale": {loc.String()}}
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint(query, "content", area), nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// SaveContent writes a flat single-locale update and returns the stored view.
func (c *Client) SaveContent(ctx context.Context, area string, loc locale.Locale, values map[string]any) (map[string]any, error) {
	var out contentPayload
	in := contentPayload{Locale: loc, Values: values}
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(nil, "content", area), in, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// UploadImage sends file as multipart form data and returns its public path.
func (c *Client) UploadImage(ctx context.Context, file editor.File) (string, error) {
	if file.Body == nil {
		return "", errors.New("client: upload body is required")
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", file.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(nil, "uploads"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if !out.Success || out.Path == "" {
		return "", &APIError{Status: http.StatusOK, Message: out.Message}
	}
	return out.Path, nil
}

// SubmitContact validates form locally and sends it. An invalid form is
// returned as contact.ValidationErrors without any request.
func (c *Client) SubmitContact(ctx context.Context, loc locale.Locale, form contact.Form) error {
	if errs := contact.Validate(form); len(errs) > 0 {
		return errs.Localize(loc)
	}

	payload, err := json.Marshal(form)
	if err != nil {
		return err
	}
	query := url.Values{"locale": {loc.String()}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(query, "contact"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &ContactError{Message: locale.Message(loc, locale.MsgContactFailed)}
	}
	defer resp.Body.Close()

	var out struct {
		Success bool                     `json:"success"`
		Error   string                   `json:"error"`
		Message string                   `json:"message"`
		Fields  contact.ValidationErrors `json:"fields"`
	}
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out)
	if resp.StatusCode < 300 && decodeErr == nil && out.Success {
		return nil
	}
	message := firstNonEmpty(out.Message, out.Error)
	if message == "" {
		message = locale.Message(loc, locale.MsgContactFailed)
	}
	return &ContactError{Message: message, Fields: out.Fields}
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	endpoint := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("client.request.failed", "method", req.Method, "url", req.URL.Path, "error", err)
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("client.request", "method", req.Method, "url", req.URL.Path, "status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds())

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Code = payload.Error
		apiErr.Message = firstNonEmpty(payload.Message, payload.Error)
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
