package sitecms_test

import (
	"context"
	"errors"
	"testing"

	sitecms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

type quietProvider struct{}

func (quietProvider) GetLogger(string) interfaces.Logger { return quietLogger{} }

type quietLogger struct{}

func (quietLogger) Trace(string, ...any)                            {}
func (quietLogger) Debug(string, ...any)                            {}
func (quietLogger) Info(string, ...any)                             {}
func (quietLogger) Warn(string, ...any)                             {}
func (quietLogger) Error(string, ...any)                            {}
func (quietLogger) Fatal(string, ...any)                            {}
func (l quietLogger) WithFields(map[string]any) interfaces.Logger   { return l }
func (l quietLogger) WithContext(context.Context) interfaces.Logger { return l }

func TestLoadFromEnvAppliesOverrides(t *testing.T) {
	cfg, err := sitecms.LoadFromEnv(map[string]string{
		"SITECMS_STORAGE_PROVIDER": "memory",
		"SITECMS_HTTP_ADDR":        ":9090",
		"SITECMS_LOCALE_DEFAULT":   "ar",
	})
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Storage.Provider != "memory" || cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNewRejectsUnknownLoggingProvider(t *testing.T) {
	cfg := sitecms.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Uploads.Dir = t.TempDir()
	cfg.Logging.Provider = "syslog"
	if _, err := sitecms.New(cfg); !errors.Is(err, sitecms.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestModuleExposesServices(t *testing.T) {
	cfg := sitecms.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Uploads.Dir = t.TempDir()
	cfg.Auth.Secret = "module-test-secret"

	module, err := sitecms.New(cfg, di.WithLoggerProvider(quietProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if module.Handler() == nil || module.Navigation() == nil {
		t.Fatalf("expected handler and navigation")
	}
	ctx := context.Background()
	if _, err := module.Areas().Save(ctx, areas.SaveRequest{
		Area: "contact-us", Locale: sitecms.English, Values: map[string]any{"email": "info@example.com"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	view, err := module.Areas().Get(ctx, areas.GetRequest{Area: "contact-us", Locale: sitecms.English})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Values["email"] != "info@example.com" {
		t.Fatalf("expected saved email, got %v", view.Values["email"])
	}
}
