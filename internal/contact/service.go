package contact

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

var ErrDeliveryFailed = errors.New("contact: message could not be delivered")

// Notifier forwards accepted submissions to the site owner.
type Notifier interface {
	Notify(ctx context.Context, submission *Submission) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, submission *Submission) error

func (fn NotifierFunc) Notify(ctx context.Context, submission *Submission) error {
	return fn(ctx, submission)
}

// LogNotifier records submissions in the log.
type LogNotifier struct {
	Logger    interfaces.Logger
	Recipient string
}

func (n LogNotifier) Notify(_ context.Context, submission *Submission) error {
	logger := n.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	logger.Info("contact.notification",
		"submission_id", submission.ID,
		"recipient", n.Recipient,
		"from", submission.Email,
		"subject", submission.Subject,
	)
	return nil
}

// Service accepts contact submissions.
type Service interface {
	Submit(ctx context.Context, loc locale.Locale, form Form) (*Submission, error)
	List(ctx context.Context, limit, offset int) ([]*Submission, int, error)
}

type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithNotifier(notifier Notifier) ServiceOption {
	return func(s *service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithRepository stores submissions. Without one, delivery relies on the
// notifier alone.
func WithRepository(repo Repository) ServiceOption {
	return func(s *service) {
		s.repo = repo
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo     Repository
	notifier Notifier
	logger   interfaces.Logger
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewService(opts ...ServiceOption) Service {
	s := &service{
		logger: logging.NoOp(),
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}
	return s
}

// Submit validates, sanitizes, stores and forwards a form. Validation
// failures return localized ValidationErrors.
func (s *service) Submit(ctx context.Context, loc locale.Locale, form Form) (*Submission, error) {
	if verrs := Validate(form); len(verrs) > 0 {
		s.logger.Debug("contact.submit.invalid", "fields", len(verrs))
		return nil, verrs.Localize(loc)
	}

	submission := &Submission{
		ID:        uuid.New(),
		Locale:    loc,
		Name:      s.clean(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Phone:     s.clean(form.Phone),
		Subject:   s.clean(form.Subject),
		Message:   s.clean(form.Message),
		CreatedAt: s.now().UTC(),
	}

	stored := false
	if s.repo != nil {
		created, err := s.repo.Create(ctx, submission)
		if err != nil {
			s.logger.Error("contact.submit.store_failed", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
		submission = created
		stored = true
	}

	if err := s.notifier.Notify(ctx, submission); err != nil {
		s.logger.Error("contact.submit.notify_failed", "submission_id", submission.ID, "error", err)
		if !stored {
			return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
	}
	s.logger.Info("contact.submit.success", "submission_id", submission.ID, "locale", loc)
	return submission, nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]*Submission, int, error) {
	if s.repo == nil {
		return []*Submission{}, 0, nil
	}
	return s.repo.List(ctx, limit, offset)
}

// clean strips markup while keeping the text readable.
func (s *service) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(value)))
}
