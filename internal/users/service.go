package users

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/permissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const minPasswordLength = 8

var (
	ErrRepositoryMissing  = errors.New("users: repository is not configured")
	ErrEmailTaken         = errors.New("users: email already registered")
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	ErrLastAdmin          = errors.New("users: cannot remove the last active admin")
)

// CreateInput registers a new account.
type CreateInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (in CreateInput) Validate() error {
	in.Email = normalizeEmail(in.Email)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Role, validation.Required, validation.By(validRole)),
		validation.Field(&in.Password, validation.Required, validation.RuneLength(minPasswordLength, 0)),
		validation.Field(&in.Name, validation.Length(0, 120)),
	)
}

// UpdateInput replaces profile fields. A blank Password keeps the current
// hash and a nil Active keeps the current state.
type UpdateInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
	Active   *bool  `json:"active"`
}

func (in UpdateInput) Validate() error {
	in.Email = normalizeEmail(in.Email)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Role, validation.Required, validation.By(validRole)),
		validation.Field(&in.Password, validation.RuneLength(minPasswordLength, 0)),
		validation.Field(&in.Name, validation.Length(0, 120)),
	)
}

func validRole(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, ok := permissions.ParseRole(raw); !ok {
		return validation.NewError("validation_role", "must be admin or editor")
	}
	return nil
}

// Service manages administrator accounts.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*User, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// ServiceOption configures the service.
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

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) ServiceOption {
	return func(s *service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

type service struct {
	repo      Repository
	logger    interfaces.Logger
	now       func() time.Time
	cost      int
	dummyHash []byte
}

func NewService(repo Repository, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, ErrRepositoryMissing
	}
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("sitecms-timing-guard"), s.cost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = hash
	return s, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}
	role, _ := permissions.ParseRole(input.Role)
	now := s.now().UTC()
	user := &User{
		ID:           uuid.New(),
		Email:        normalizeEmail(input.Email),
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("users.created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	role, _ := permissions.ParseRole(input.Role)
	active := existing.Active
	if input.Active != nil {
		active = *input.Active
	}
	if existing.Role == permissions.RoleAdmin && existing.Active && (role != permissions.RoleAdmin || !active) {
		if err := s.ensureAnotherAdmin(ctx, id); err != nil {
			return nil, err
		}
	}

	existing.Email = normalizeEmail(input.Email)
	existing.Name = strings.TrimSpace(input.Name)
	existing.Role = role
	existing.Active = active
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = string(hash)
	}
	existing.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.logger.Info("users.updated", "user_id", id)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Role == permissions.RoleAdmin && existing.Active {
		if err := s.ensureAnotherAdmin(ctx, id); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("users.deleted", "user_id", id)
	return nil
}

// Authenticate checks credentials. Unknown emails, inactive accounts and
// wrong passwords all return ErrInvalidCredentials.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.logger.Warn("users.auth.failed", "reason", "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("users.auth.failed", "user_id", user.ID, "reason", "password")
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("users.auth.failed", "user_id", user.ID, "reason", "inactive")
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if updated, err := s.repo.Update(ctx, user); err == nil {
		user = updated
	} else {
		s.logger.Warn("users.auth.last_login_failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

func (s *service) ensureAnotherAdmin(ctx context.Context, id uuid.UUID) error {
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range all {
		if u.ID != id && u.Role == permissions.RoleAdmin && u.Active {
			return nil
		}
	}
	return ErrLastAdmin
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
