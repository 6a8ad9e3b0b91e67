package sitecmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/catalog"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/permissions"
)

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func newServices(t *testing.T) Services {
	t.Helper()
	content, err := areas.NewService(areas.NewMemoryRepository())
	if err != nil {
		t.Fatalf("areas: %v", err)
	}
	projects, err := catalog.NewProjectService(catalog.NewMemoryProjectRepository())
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	clients, err := catalog.NewClientService(catalog.NewMemoryClientRepository())
	if err != nil {
		t.Fatalf("clients: %v", err)
	}
	return Services{Areas: content, Projects: projects, Clients: clients, Contact: contact.NewService()}
}

func TestRegisterSiteCommands(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterSiteCommands(reg, newServices(t), nil)
	if err != nil {
		t.Fatalf("RegisterSiteCommands: %v", err)
	}
	if len(reg.handlers) != 7 || set.SaveArea == nil {
		t.Fatalf("expected 7 registered handlers, got %d", len(reg.handlers))
	}
	if _, err := RegisterSiteCommands(reg, Services{}, nil); err == nil {
		t.Fatalf("expected error for missing services")
	}
}

func TestSaveAreaThroughDispatcher(t *testing.T) {
	services := newServices(t)
	set, err := RegisterSiteCommands(nil, services, nil)
	if err != nil {
		t.Fatalf("RegisterSiteCommands: %v", err)
	}
	subs := set.Subscribe()
	t.Cleanup(func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	})

	ctx := context.Background()
	if err := dispatcher.Dispatch(ctx, SaveAreaCommand{
		Area:   "home",
		Locale: locale.Arabic,
		Values: map[string]any{"heroTitle": "مرحبا"},
	}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	view, err := services.Areas.Get(ctx, areas.GetRequest{Area: "home", Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Values["heroTitle"] != "مرحبا" {
		t.Fatalf("expected saved title, got %v", view.Values["heroTitle"])
	}

	err = set.SaveArea.Execute(ctx, SaveAreaCommand{Area: "home", Locale: locale.Arabic, Values: map[string]any{"nope": 1}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category for unknown field, got %v", err)
	}
}

func TestSaveAreaRequiresContentPermission(t *testing.T) {
	set, _ := RegisterSiteCommands(nil, newServices(t), nil)
	ctx := permissions.WithPermissions(context.Background(), permissions.ContactRead)

	err := set.SaveArea.Execute(ctx, SaveAreaCommand{Area: "home", Locale: locale.English, Values: map[string]any{"heroTitle": "x"}})
	if !errors.Is(err, permissions.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestUpsertProjectIsIdempotentBySlug(t *testing.T) {
	services := newServices(t)
	set, _ := RegisterSiteCommands(nil, services, nil)
	ctx := context.Background()

	msg := UpsertProjectCommand{Input: catalog.ProjectInput{
		Slug:  "tower",
		Title: bilingual.Text{locale.Arabic: "برج"},
	}}
	for i := 0; i < 2; i++ {
		if err := set.UpsertProject.Execute(ctx, msg); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}
	all, _ := services.Projects.List(ctx, catalog.ListOptions{})
	if len(all) != 1 {
		t.Fatalf("expected one project, got %d", len(all))
	}

	if err := set.DeleteProject.Execute(ctx, DeleteProjectCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for nil id, got %v", err)
	}
	if err := set.DeleteProject.Execute(ctx, DeleteProjectCommand{ID: all[0].ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := set.DeleteProject.Execute(ctx, DeleteProjectCommand{ID: uuid.New()}); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command failure for missing project, got %v", err)
	}
}

func TestSubmitContactReportsFieldErrors(t *testing.T) {
	set, _ := RegisterSiteCommands(nil, newServices(t), nil)

	err := set.SubmitContact.Execute(context.Background(), SubmitContactCommand{Locale: locale.English, Form: contact.Form{Name: "x"}})
	var verrs contact.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 3 {
		t.Fatalf("expected contact validation errors, got %v", err)
	}
}
