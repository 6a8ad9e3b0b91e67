package editor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// NoticeTTL is how long a success notice stays visible.
const NoticeTTL = 3 * time.Second

var ErrNotLoaded = errors.New("editor: page is not loaded")

// Backend reads and writes one content area for one locale.
type Backend interface {
	FetchContent(ctx context.Context, area string, loc locale.Locale) (map[string]any, error)
	SaveContent(ctx context.Context, area string, loc locale.Locale, values map[string]any) (map[string]any, error)
}

// NoticeKind classifies a page notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the banner shown after a save or an upload.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Timer is the handle returned by a notice scheduler.
type Timer interface {
	Stop() bool
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithPageLogger sets the page logger.
func WithPageLogger(logger interfaces.Logger) PageOption {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithUploader sets the uploader used by image fields.
func WithUploader(uploader Uploader) PageOption {
	return func(p *Page) {
		p.uploader = uploader
	}
}

// WithNoticeScheduler replaces time.AfterFunc for clearing notices.
func WithNoticeScheduler(schedule func(time.Duration, func()) Timer) PageOption {
	return func(p *Page) {
		if schedule != nil {
			p.schedule = schedule
		}
	}
}

// WithInitialLocale sets the locale loaded first.
func WithInitialLocale(loc locale.Locale) PageOption {
	return func(p *Page) {
		if loc != "" {
			p.locale = loc
		}
	}
}

// Page is the admin controller for one content area.
//
// It loads the flat model for a locale, binds editors to it and writes the
// whole model back in one request on Save. A failed save leaves the model as
// it was.
type Page struct {
	area     string
	fields   []bilingual.Field
	backend  Backend
	uploader Uploader
	logger   interfaces.Logger
	schedule func(time.Duration, func()) Timer

	mu          sync.Mutex
	locale      locale.Locale
	model       map[string]any
	loaded      bool
	dirty       bool
	texts       map[string]*FieldEditor
	images      map[string]*ImageEditor
	notice      *Notice
	noticeTimer Timer
	generation  uint64
}

// NewPage builds an unloaded controller for area.
func NewPage(area string, fields []bilingual.Field, backend Backend, opts ...PageOption) (*Page, error) {
	if backend == nil {
		return nil, errors.New("editor: backend is required")
	}
	if area == "" {
		return nil, errors.New("editor: area is required")
	}
	p := &Page{
		area:    area,
		fields:  append([]bilingual.Field(nil), fields...),
		backend: backend,
		logger:  logging.NoOp(),
		locale:  locale.Arabic,
		schedule: func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Load fetches the model for the current locale and rebinds every editor.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	loc := p.locale
	p.mu.Unlock()
	return p.load(ctx, loc)
}

// SetLocale switches the page to loc and reloads. On failure the page keeps
// its previous locale and model.
func (p *Page) SetLocale(ctx context.Context, loc locale.Locale) error {
	if loc == "" {
		return errors.New("editor: locale is required")
	}
	return p.load(ctx, loc)
}

func (p *Page) load(ctx context.Context, loc locale.Locale) error {
	values, err := p.backend.FetchContent(ctx, p.area, loc)
	if err != nil {
		p.logger.Error("editor.page.load.failed", "area", p.area, "locale", loc, "error", err)
		return fmt.Errorf("editor: load %s/%s: %w", p.area, loc, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.locale = loc
	p.model = maps.Clone(values)
	if p.model == nil {
		p.model = map[string]any{}
	}
	p.loaded = true
	p.dirty = false
	p.generation++
	p.bind(loc)
	p.logger.Debug("editor.page.loaded", "area", p.area, "locale", loc, "fields", len(p.model))
	return nil
}

func (p *Page) bind(loc locale.Locale) {
	gen := p.generation
	p.texts = make(map[string]*FieldEditor)
	p.images = make(map[string]*ImageEditor)
	for _, field := range p.fields {
		if field.Private {
			continue
		}
		key := field.Key
		current, _ := p.model[key].(string)
		switch field.Kind {
		case bilingual.KindImage:
			p.images[key] = NewImageEditor(current, p.uploader,
				WithAlertLocale(loc),
				WithAlert(func(msg string) { p.setNotice(gen, NoticeError, msg) }),
				WithImageChange(func(path string) { p.update(gen, key, path) }),
			)
		case bilingual.KindText, bilingual.KindRichText, bilingual.KindString, bilingual.KindURL:
			p.texts[key] = NewFieldEditor(current,
				WithMultiline(field.Multiline),
				WithPlaceholder(field.Label),
				WithElement(elementFor(field)),
				WithOnChange(func(value string) { p.update(gen, key, value) }),
			)
		}
	}
}

func elementFor(field bilingual.Field) Element {
	switch {
	case field.Kind == bilingual.KindRichText, field.Multiline:
		return ElementParagraph
	default:
		return ElementBlock
	}
}

// update applies an editor change unless the page was reloaded since the
// editor was bound.
func (p *Page) update(gen uint64, key string, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation || p.model == nil {
		return
	}
	if current, ok := p.model[key].(string); ok && current == value {
		return
	}
	p.model[key] = value
	p.dirty = true
}

// Field returns the text editor bound to key.
func (p *Page) Field(key string) (*FieldEditor, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.texts[key]
	return f, ok
}

// Image returns the image editor bound to key.
func (p *Page) Image(key string) (*ImageEditor, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.images[key]
	return e, ok
}

// Fields returns the page fields that have an editor, in schema order.
func (p *Page) Fields() []bilingual.Field {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bilingual.Field, 0, len(p.fields))
	for _, field := range p.fields {
		_, text := p.texts[field.Key]
		_, image := p.images[field.Key]
		if text || image {
			out = append(out, field)
		}
	}
	return out
}

// Model returns a copy of the in-memory model.
func (p *Page) Model() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.model)
}

// Set changes a model value that has no inline editor (flags, numbers,
// icons, image lists).
func (p *Page) Set(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return ErrNotLoaded
	}
	p.model[key] = value
	p.dirty = true
	return nil
}

// Locale returns the locale being edited.
func (p *Page) Locale() locale.Locale {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locale
}

// Area returns the edited area.
func (p *Page) Area() string { return p.area }

// Dirty reports unsaved changes.
func (p *Page) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Notice returns the visible notice, if any.
func (p *Page) Notice() (Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.notice == nil {
		return Notice{}, false
	}
	return *p.notice, true
}

// Save writes the whole model for the current locale in one request.
//
// Success shows a notice that clears after NoticeTTL and adopts the values
// the server returned. Failure shows a save-failed notice and leaves the
// model untouched.
func (p *Page) Save(ctx context.Context) error {
	p.mu.Lock()
	if !p.loaded {
		p.mu.Unlock()
		return ErrNotLoaded
	}
	loc := p.locale
	gen := p.generation
	snapshot := maps.Clone(p.model)
	p.mu.Unlock()

	saved, err := p.backend.SaveContent(ctx, p.area, loc, snapshot)
	if err != nil {
		p.logger.Error("editor.page.save.failed", "area", p.area, "locale", loc, "error", err)
		p.setNotice(gen, NoticeError, locale.Message(loc, locale.MsgSaveFailed))
		return fmt.Errorf("editor: save %s/%s: %w", p.area, loc, err)
	}

	p.mu.Lock()
	if gen == p.generation {
		for key, value := range saved {
			if !sameValue(p.model[key], snapshot[key]) {
				// edited while the request was in flight
				continue
			}
			p.model[key] = value
			s, _ := value.(string)
			if f, ok := p.texts[key]; ok {
				f.SetValue(s)
			}
			if e, ok := p.images[key]; ok {
				e.SetSource(s)
			}
		}
		p.dirty = !equalModels(p.model, saved, snapshot)
	}
	p.mu.Unlock()

	p.logger.Info("editor.page.save.success", "area", p.area, "locale", loc)
	p.setNotice(gen, NoticeSuccess, locale.Message(loc, locale.MsgSaved))
	return nil
}

// equalModels reports whether model holds nothing beyond what was saved.
func equalModels(model, saved, sent map[string]any) bool {
	for key, value := range model {
		if want, ok := saved[key]; ok {
			if !sameValue(value, want) {
				return false
			}
			continue
		}
		if !sameValue(value, sent[key]) {
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func (p *Page) setNotice(gen uint64, kind NoticeKind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return
	}
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
		p.noticeTimer = nil
	}
	notice := &Notice{Kind: kind, Message: message}
	p.notice = notice
	if kind != NoticeSuccess {
		return
	}
	p.noticeTimer = p.schedule(NoticeTTL, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.notice == notice {
			p.notice = nil
			p.noticeTimer = nil
		}
	})
}

// DismissNotice hides the current notice.
func (p *Page) DismissNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
		p.noticeTimer = nil
	}
	p.notice = nil
}
