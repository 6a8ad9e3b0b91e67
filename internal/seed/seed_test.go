package seed

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecms/internal/areas"
	"github.com/goliatone/go-sitecms/internal/catalog"
	sitecmd "github.com/goliatone/go-sitecms/internal/commands/site"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

const fixtureYAML = `
areas:
  home:
    heroTitle: "نبني المستقبل"
    heroTitleEn: "Building the future"
    heroImage: /uploads/hero.jpg
    statsProjects: 120
projects:
  - title: "برج النخيل"
    titleEn: "Palm Tower"
    slug: palm-tower
    category: residential
    year: 2021
    image: /uploads/palm.jpg
    images: [/uploads/palm-1.jpg, /uploads/palm-2.jpg]
    order: 2
clients:
  - name: "شركة الأفق"
    nameEn: "Horizon Co"
    logo: /uploads/horizon.png
    website: https://horizon.example.com
`

const storyMarkdown = `---
area: about-us
field: storyContent
locale: en
---

We started with **one** office.
`

type fixture struct {
	content  areas.Service
	projects catalog.ProjectService
	clients  catalog.ClientService
	importer *Importer
}

func newFixture(t *testing.T) fixture {
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
	handlers, err := sitecmd.RegisterSiteCommands(nil, sitecmd.Services{
		Areas: content, Projects: projects, Clients: clients, Contact: contact.NewService(),
	}, nil)
	if err != nil {
		t.Fatalf("handlers: %v", err)
	}
	importer, err := NewImporter(handlers, WithClients(clients))
	if err != nil {
		t.Fatalf("NewImporter: %v", err)
	}
	return fixture{content: content, projects: projects, clients: clients, importer: importer}
}

func TestImportPathIsIdempotent(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "site.yaml", fixtureYAML)
	testsupport.WriteFile(t, dir, filepath.Join("about", "story.en.md"), storyMarkdown)
	testsupport.WriteFile(t, dir, "README.txt", "ignored")
	ctx := context.Background()

	for run := 0; run < 2; run++ {
		report, err := f.importer.ImportPath(ctx, dir)
		if err != nil {
			t.Fatalf("run %d: ImportPath: %v", run, err)
		}
		want := Report{Areas: 1, Projects: 1, Clients: 1, Documents: 1}
		if report != want {
			t.Fatalf("run %d: expected %+v, got %+v", run, want, report)
		}
	}

	home, err := f.content.Get(ctx, areas.GetRequest{Area: "home", Locale: locale.English})
	if err != nil {
		t.Fatalf("Get home: %v", err)
	}
	if home.Values["heroTitle"] != "Building the future" || home.Values["heroImage"] != "/uploads/hero.jpg" {
		t.Fatalf("unexpected english home %+v", home.Values)
	}
	homeAr, _ := f.content.Get(ctx, areas.GetRequest{Area: "home", Locale: locale.Arabic})
	if homeAr.Values["heroTitle"] != "نبني المستقبل" {
		t.Fatalf("unexpected arabic home %+v", homeAr.Values)
	}

	about, _ := f.content.Get(ctx, areas.GetRequest{Area: "about-us", Locale: locale.English})
	if story, _ := about.Values["storyContent"].(string); !strings.HasPrefix(story, "We started with **one** office.") {
		t.Fatalf("expected markdown body in storyContent, got %q", story)
	}

	projects, _ := f.projects.List(ctx, catalog.ListOptions{})
	if len(projects) != 1 {
		t.Fatalf("expected one project after two runs, got %d", len(projects))
	}
	p := projects[0]
	if p.Slug != "palm-tower" || p.Title.Get(locale.English) != "Palm Tower" || p.CoverImage != "/uploads/palm.jpg" || p.SortOrder != 2 || len(p.Images) != 2 {
		t.Fatalf("unexpected project %+v", p)
	}

	clients, _ := f.clients.List(ctx, catalog.ListOptions{})
	if len(clients) != 1 || clients[0].Name.Get(locale.English) != "Horizon Co" {
		t.Fatalf("expected one client after two runs, got %+v", clients)
	}
}

func TestImportDocumentRequiresTarget(t *testing.T) {
	f := newFixture(t)
	err := f.importer.ImportDocument(context.Background(), strings.NewReader("---\narea: about-us\n---\nbody"))
	if !errors.Is(err, ErrDocumentTarget) {
		t.Fatalf("expected ErrDocumentTarget, got %v", err)
	}
}

func TestImportFixturesRejectsUnknownAreaKeys(t *testing.T) {
	f := newFixture(t)
	_, err := f.importer.ImportFixtures(context.Background(), strings.NewReader("areas:\n  home:\n    bogusField: x\n"))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}
