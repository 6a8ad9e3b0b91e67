package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// DefaultFallbackImage is shown when an image field is empty.
const DefaultFallbackImage = "/static/placeholder.svg"

var (
	ErrNotImage         = errors.New("editor: file is not an image")
	ErrUploadInProgress = errors.New("editor: an upload is already in progress")
	ErrUploadFailed     = errors.New("editor: upload failed")
	ErrUploaderMissing  = errors.New("editor: uploader is not configured")
)

// File is a picked file.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores an image and returns its public path.
type Uploader interface {
	UploadImage(ctx context.Context, file File) (string, error)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, file File) (string, error)

func (fn UploaderFunc) UploadImage(ctx context.Context, file File) (string, error) {
	return fn(ctx, file)
}

// ImageOption configures an ImageEditor.
type ImageOption func(*ImageEditor)

// WithFallback sets the image shown while the source is empty.
func WithFallback(src string) ImageOption {
	return func(e *ImageEditor) {
		e.fallback = src
	}
}

// WithImageChange registers the callback that receives uploaded paths.
func WithImageChange(fn func(string)) ImageOption {
	return func(e *ImageEditor) {
		e.onChange = fn
	}
}

// WithAlert registers the callback that shows blocking messages.
func WithAlert(fn func(string)) ImageOption {
	return func(e *ImageEditor) {
		e.onAlert = fn
	}
}

// WithAlertLocale sets the language of alert messages.
func WithAlertLocale(loc locale.Locale) ImageOption {
	return func(e *ImageEditor) {
		if loc != "" {
			e.locale = loc
		}
	}
}

// ImageEditor replaces an image by uploading a picked file. At most one
// upload runs per editor.
type ImageEditor struct {
	uploader  Uploader
	fallback  string
	locale    locale.Locale
	onChange  func(string)
	onAlert   func(string)
	uploading atomic.Bool

	mu  sync.RWMutex
	src string
}

// NewImageEditor returns an idle editor showing src.
func NewImageEditor(src string, uploader Uploader, opts ...ImageOption) *ImageEditor {
	e := &ImageEditor{
		uploader: uploader,
		fallback: DefaultFallbackImage,
		locale:   locale.Arabic,
		src:      src,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Select uploads file and swaps the image on success.
//
// Files whose declared media type is not image/* are rejected before any
// upload. Selecting while an upload runs returns ErrUploadInProgress.
// Failures raise an alert and leave the image unchanged; nothing is retried.
func (e *ImageEditor) Select(ctx context.Context, file File) error {
	if !IsImage(file.ContentType) {
		e.alert(locale.MsgNotAnImage)
		return fmt.Errorf("%w: %q", ErrNotImage, file.ContentType)
	}
	if e.uploader == nil {
		e.alert(locale.MsgUploadFailed)
		return ErrUploaderMissing
	}
	if !e.uploading.CompareAndSwap(false, true) {
		return ErrUploadInProgress
	}
	defer e.uploading.Store(false)

	path, err := e.uploader.UploadImage(ctx, file)
	if err == nil && strings.TrimSpace(path) == "" {
		err = errors.New("empty path in upload response")
	}
	if err != nil {
		e.alert(locale.MsgUploadFailed)
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	e.mu.Lock()
	e.src = path
	e.mu.Unlock()
	if e.onChange != nil {
		e.onChange(path)
	}
	return nil
}

// SetSource replaces the displayed image without uploading.
func (e *ImageEditor) SetSource(src string) {
	e.mu.Lock()
	e.src = src
	e.mu.Unlock()
}

// Src returns the image to display.
func (e *ImageEditor) Src() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if strings.TrimSpace(e.src) == "" {
		return e.fallback
	}
	return e.src
}

// Value returns the stored path, empty when unset.
func (e *ImageEditor) Value() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.src
}

// Uploading reports whether an upload is in flight. The control is disabled
// while it is.
func (e *ImageEditor) Uploading() bool { return e.uploading.Load() }

func (e *ImageEditor) alert(key string) {
	if e.onAlert != nil {
		e.onAlert(locale.Message(e.locale, key))
	}
}

// IsImage reports whether a declared media type is in the image category.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
