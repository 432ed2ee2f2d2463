package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-article/pkg/interfaces"
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
	if fields == nil {
		fields = map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
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
	logger := ModuleLogger(nil, "article.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	// Ensure WithContext/WithFields do not panic.
	ctx := context.Background()
	logger = logger.WithContext(ctx)
	logger = WithFields(logger, map[string]any{"foo": "bar"})
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, storeModule)

	if len(provider.requested) != 1 || provider.requested[0] != storeModule {
		t.Fatalf("expected module %s, got %v", storeModule, provider.requested)
	}

	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}

	if got, ok := rec.fields[0]["module"]; !ok || got != storeModule {
		t.Fatalf("expected module field %s, got %v", storeModule, rec.fields[0]["module"])
	}

	logger.Info("with provider")
}

func TestModuleLoggerDefaultsModuleName(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected root module request, got %v", provider.requested)
	}
}

func TestWithArticleContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithArticleContext(rec, " content/post.md ", "", "import")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one fields application, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldArticlePath] != "content/post.md" {
		t.Fatalf("expected trimmed path, got %v", fields[fieldArticlePath])
	}
	if _, ok := fields[fieldArticleSlug]; ok {
		t.Fatalf("expected empty slug to be skipped, got %v", fields[fieldArticleSlug])
	}
	if fields[fieldAction] != "import" {
		t.Fatalf("expected action field, got %v", fields[fieldAction])
	}
}

func TestWithFieldsClonesInput(t *testing.T) {
	rec := &recordingLogger{}
	fields := map[string]any{"slug": "generics-in-go"}

	WithFields(rec, fields)
	fields["slug"] = "mutated"

	if len(rec.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(rec.fields))
	}
	if rec.fields[0]["slug"] != "generics-in-go" {
		t.Fatalf("expected fields to be cloned, got %v", rec.fields[0]["slug"])
	}
}
