package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-sitecms/internal/locale"
)

var ErrLocaleInvalid = errors.New("sitecms config: locales are invalid")
var ErrStorageProviderUnknown = errors.New("sitecms config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("sitecms config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("sitecms config: storage dsn is required for the bun provider")
var ErrUploadsDirRequired = errors.New("sitecms config: uploads directory is required")
var ErrUploadsMaxBytesInvalid = errors.New("sitecms config: uploads max bytes must be positive")
var ErrAuthSecretTooShort = errors.New("sitecms config: auth secret must be at least 16 characters")
var ErrAuthTokenTTLInvalid = errors.New("sitecms config: auth token ttl must be positive")
var ErrLoggingProviderUnknown = errors.New("sitecms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitecms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitecms config: logging format is invalid")

// Config aggregates the runtime settings of the site service. Nested structs
// carry env prefixes so LoadFromEnv can populate them.
type Config struct {
	Locales    LocaleConfig     `envPrefix:"LOCALE_"`
	Storage    StorageConfig    `envPrefix:"STORAGE_"`
	Cache      CacheConfig      `envPrefix:"CACHE_"`
	HTTP       HTTPConfig       `envPrefix:"HTTP_"`
	Uploads    UploadsConfig    `envPrefix:"UPLOADS_"`
	Auth       AuthConfig       `envPrefix:"AUTH_"`
	Contact    ContactConfig    `envPrefix:"CONTACT_"`
	Navigation NavigationConfig `envPrefix:"NAV_"`
	Logging    LoggingConfig    `envPrefix:"LOG_"`
}

// LocaleConfig names the default (base field) and secondary locale.
type LocaleConfig struct {
	Default   string `env:"DEFAULT"`
	Secondary string `env:"SECONDARY"`
}

// StorageConfig selects the repository backend. Provider "memory" keeps all
// records in process; "bun" uses Driver and DSN.
type StorageConfig struct {
	Provider     string `env:"PROVIDER"`
	Driver       string `env:"DRIVER"`
	DSN          string `env:"DSN"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE"`
}

type CacheConfig struct {
	Enabled    bool          `env:"ENABLED"`
	DefaultTTL time.Duration `env:"TTL"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR"`
	APIBase         string        `env:"API_BASE"`
	UploadsRoute    string        `env:"UPLOADS_ROUTE"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES"`
}

// UploadsConfig controls where images are written and how they are served.
type UploadsConfig struct {
	Dir          string `env:"DIR"`
	PublicPrefix string `env:"PUBLIC_PREFIX"`
	MaxBytes     int64  `env:"MAX_BYTES"`
}

// AuthConfig configures session tokens. An empty Secret makes the container
// generate a random one per process.
type AuthConfig struct {
	Secret     string        `env:"SECRET"`
	Issuer     string        `env:"ISSUER"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"`
	CookieName string        `env:"COOKIE_NAME"`
}

type ContactConfig struct {
	StoreSubmissions bool   `env:"STORE_SUBMISSIONS"`
	Recipient        string `env:"RECIPIENT"`
}

// NavigationConfig feeds the URL builder used for menus.
type NavigationConfig struct {
	BaseURL string `env:"BASE_URL"`
}

type LoggingConfig struct {
	Provider  string   `env:"PROVIDER"`
	Level     string   `env:"LEVEL"`
	Format    string   `env:"FORMAT"`
	AddSource bool     `env:"ADD_SOURCE"`
	Focus     []string `env:"FOCUS"`
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() Config {
	return Config{
		Locales: LocaleConfig{
			Default:   string(locale.Arabic),
			Secondary: string(locale.English),
		},
		Storage: StorageConfig{
			Provider:     "bun",
			Driver:       "sqlite",
			DSN:          "file:sitecms.db?cache=shared&_fk=1",
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			APIBase:         "/api",
			UploadsRoute:    "/uploads",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Uploads: UploadsConfig{
			Dir:          "uploads",
			PublicPrefix: "/uploads",
			MaxBytes:     10 << 20,
		},
		Auth: AuthConfig{
			Issuer:     "sitecms",
			TokenTTL:   12 * time.Hour,
			CookieName: "sitecms_session",
		},
		Contact: ContactConfig{
			StoreSubmissions: true,
		},
		Navigation: NavigationConfig{
			BaseURL: "",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// LocaleSet returns the parsed locale pair.
func (cfg Config) LocaleSet() (locale.Set, error) {
	set, err := locale.NewSet(cfg.Locales.Default, cfg.Locales.Secondary)
	if err != nil {
		return locale.Set{}, fmt.Errorf("%w: %v", ErrLocaleInvalid, err)
	}
	return set, nil
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	if _, err := cfg.LocaleSet(); err != nil {
		return err
	}

	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		if !isSupportedDriver(normalize(cfg.Storage.Driver)) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if strings.TrimSpace(cfg.Uploads.Dir) == "" {
		return ErrUploadsDirRequired
	}
	if cfg.Uploads.MaxBytes <= 0 {
		return ErrUploadsMaxBytesInvalid
	}

	if secret := cfg.Auth.Secret; secret != "" && len(secret) < 16 {
		return ErrAuthSecretTooShort
	}
	if cfg.Auth.TokenTTL <= 0 {
		return ErrAuthTokenTTLInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	return driver == "sqlite" || driver == "postgres"
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "none":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
