package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "sitecms.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModuleField(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ContentLogger(provider).Info("hello")

	if len(provider.requested) != 1 || provider.requested[0] != contentModule {
		t.Fatalf("expected module %s, got %v", contentModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != contentModule {
		t.Fatalf("expected module field %s, got %v", contentModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = ModuleLogger(provider, "")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithAreaContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithAreaContext(rec, "home", "  ")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0]["area"] != "home" {
		t.Fatalf("expected area field, got %v", rec.fields[0])
	}
	if _, ok := rec.fields[0]["locale"]; ok {
		t.Fatalf("expected blank locale to be skipped, got %v", rec.fields[0])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"area": "home"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "a" || fields["area"] != "home" {
		t.Fatalf("unexpected merged fields %v", fields)
	}
	fields["area"] = "mutated"
	if ContextFields(ctx)["area"] != "home" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
