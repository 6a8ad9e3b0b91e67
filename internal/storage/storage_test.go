package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), runtimeconfig.StorageConfig{Driver: "oracle", DSN: "x"})
	if !errors.Is(err, ErrDriverUnknown) {
		t.Fatalf("expected ErrDriverUnknown, got %v", err)
	}
	if _, err := Open(context.Background(), runtimeconfig.StorageConfig{Driver: "sqlite"}); !errors.Is(err, ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
}

func TestMigrateCreatesTablesIdempotently(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, runtimeconfig.StorageConfig{
		Driver:       "sqlite",
		DSN:          "file:storage_migrate_test?mode=memory&cache=shared&_fk=1",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("Migrate run %d: %v", i, err)
		}
	}

	content, err := areas.NewService(areas.NewBunRepository(db))
	if err != nil {
		t.Fatalf("areas service: %v", err)
	}
	view, err := content.Get(ctx, areas.GetRequest{Area: "footer", Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("Get footer: %v", err)
	}
	if view.Area != areas.Footer {
		t.Fatalf("unexpected view %+v", view)
	}

	projects, err := catalog.NewProjectService(catalog.NewBunProjectRepository(db))
	if err != nil {
		t.Fatalf("project service: %v", err)
	}
	if _, err := projects.List(ctx, catalog.ListOptions{}); err != nil {
		t.Fatalf("List projects: %v", err)
	}
}
