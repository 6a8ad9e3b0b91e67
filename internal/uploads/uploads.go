package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

var (
	ErrNotImage     = errors.New("uploads: file is not an image")
	ErrTooLarge     = errors.New("uploads: file exceeds the size limit")
	ErrEmpty        = errors.New("uploads: file is empty")
	ErrStoreMissing = errors.New("uploads: store is not configured")
)

// DefaultMaxBytes caps uploads when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// Upload is a file received from an editor.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result points at the stored file.
type Result struct {
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Store writes file bodies under a relative name.
type Store interface {
	Save(ctx context.Context, name string, body io.Reader, limit int64) (int64, error)
}

// Service accepts image uploads.
type Service interface {
	Upload(ctx context.Context, upload Upload) (*Result, error)
	MaxBytes() int64
}

type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithMaxBytes(limit int64) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.maxBytes = limit
		}
	}
}

// WithPublicPrefix sets the URL prefix returned in Result.Path.
func WithPublicPrefix(prefix string) ServiceOption {
	return func(s *service) {
		s.prefix = "/" + strings.Trim(prefix, "/")
	}
}

func WithNameGenerator(fn func() string) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.name = fn
		}
	}
}

type service struct {
	store    Store
	logger   interfaces.Logger
	now      func() time.Time
	name     func() string
	maxBytes int64
	prefix   string
}

func NewService(store Store, opts ...ServiceOption) (Service, error) {
	if store == nil {
		return nil, ErrStoreMissing
	}
	s := &service{
		store:    store,
		logger:   logging.NoOp(),
		now:      time.Now,
		name:     uuid.NewString,
		maxBytes: DefaultMaxBytes,
		prefix:   "/uploads",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *service) MaxBytes() int64 {
	return s.maxBytes
}

func (s *service) Upload(ctx context.Context, upload Upload) (*Result, error) {
	if _, err := imageType(upload.ContentType); err != nil {
		s.logger.Warn("uploads.rejected", "filename", upload.Filename, "content_type", upload.ContentType, "reason", "not_image")
		return nil, err
	}
	if upload.Size > s.maxBytes {
		s.logger.Warn("uploads.rejected", "filename", upload.Filename, "size", upload.Size, "reason", "too_large")
		return nil, ErrTooLarge
	}
	if upload.Body == nil {
		return nil, ErrEmpty
	}

	body, mediaType, err := sniff(upload.Body)
	if err != nil {
		if errors.Is(err, ErrNotImage) {
			s.logger.Warn("uploads.rejected", "filename", upload.Filename, "content_type", upload.ContentType, "reason", "content_mismatch")
		}
		return nil, err
	}

	now := s.now().UTC()
	name := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), s.name()+imageExtensions[mediaType])

	written, err := s.store.Save(ctx, name, body, s.maxBytes)
	if err != nil {
		s.logger.Error("uploads.store.failed", "name", name, "error", err)
		return nil, err
	}
	if written == 0 {
		return nil, ErrEmpty
	}

	result := &Result{
		Path:        strings.TrimSuffix(s.prefix, "/") + "/" + name,
		Size:        written,
		ContentType: mediaType,
	}
	s.logger.Info("uploads.stored", "path", result.Path, "size", written)
	return result, nil
}

// imageType checks the declared media type. Only image/* is accepted.
func imageType(declared string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(declared))
	if err != nil {
		return "", ErrNotImage
	}
	if !strings.HasPrefix(mediaType, "image/") || mediaType == "image/" {
		return "", ErrNotImage
	}
	return mediaType, nil
}

// imageExtensions lists the stored formats. The stored name and served type
// come from the sniffed content, never from the client.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

const sniffLen = 512

// sniff detects the media type from the first bytes of body and returns a
// reader that still yields the whole body.
func sniff(body io.Reader) (io.Reader, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	if n == 0 {
		return nil, "", ErrEmpty
	}
	head = head[:n]
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	if _, ok := imageExtensions[mediaType]; !ok {
		return nil, "", ErrNotImage
	}
	return io.MultiReader(bytes.NewReader(head), body), mediaType, nil
}
