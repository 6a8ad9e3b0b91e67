package areas

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/locale"
	"github.com/goliatone/go-sitecms/internal/validation"
)

func newTestService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	svc, err := NewService(NewMemoryRepository(), opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGetLazilyCreatesDefaults(t *testing.T) {
	repo := NewMemoryRepository()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	view, err := svc.Get(ctx, GetRequest{Area: "settings", Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Values["showProjects"] != true || view.Values["fontArabic"] != "Cairo" {
		t.Fatalf("expected settings defaults, got %v", view.Values)
	}
	if _, ok := view.Values["smtpPassword"]; ok {
		t.Fatalf("private field exposed without IncludePrivate")
	}
	if _, err := repo.GetByArea(ctx, Settings); err != nil {
		t.Fatalf("expected lazily created row, got %v", err)
	}
}

func TestEndToEndLocaleScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ar, err := svc.Get(ctx, GetRequest{Area: "home", Locale: locale.Arabic})
	if err != nil {
		t.Fatalf("Get ar: %v", err)
	}
	if ar.Values["heroTitle"] != "" {
		t.Fatalf("expected empty default, got %v", ar.Values["heroTitle"])
	}

	if _, err := svc.Save(ctx, SaveRequest{
		Area:   "home",
		Locale: locale.Arabic,
		Values: map[string]any{"heroTitle": "مرحبا"},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ar, _ = svc.Get(ctx, GetRequest{Area: "home", Locale: locale.Arabic})
	if ar.Values["heroTitle"] != "مرحبا" {
		t.Fatalf("ar heroTitle = %v", ar.Values["heroTitle"])
	}
	en, _ := svc.Get(ctx, GetRequest{Area: "home", Locale: locale.English})
	if en.Values["heroTitle"] != "" {
		t.Fatalf("strict en heroTitle should be empty, got %v", en.Values["heroTitle"])
	}
	public, _ := svc.Get(ctx, GetRequest{Area: "home", Locale: locale.English, Fallback: true})
	if public.Values["heroTitle"] != "مرحبا" {
		t.Fatalf("fallback en heroTitle = %v", public.Values["heroTitle"])
	}
}

func TestSavePartialMergeIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustSave(t, svc, locale.English, map[string]any{"heroTitle": "Welcome", "heroSubtitle": "Since 1990"})
	mustSave(t, svc, locale.Arabic, map[string]any{"heroTitle": "مرحبا", "heroImage": "/uploads/a.jpg"})

	en, _ := svc.Get(ctx, GetRequest{Area: "home", Locale: locale.English})
	if en.Values["heroTitle"] != "Welcome" || en.Values["heroSubtitle"] != "Since 1990" {
		t.Fatalf("english values changed by arabic save: %v", en.Values)
	}
	if en.Values["heroImage"] != "/uploads/a.jpg" {
		t.Fatalf("neutral field should be shared, got %v", en.Values["heroImage"])
	}
}

func TestSequentialSavesLastWriterWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustSave(t, svc, locale.English, map[string]any{"heroTitle": "A"})
	mustSave(t, svc, locale.English, map[string]any{"heroTitle": "B"})

	en, _ := svc.Get(ctx, GetRequest{Area: "home", Locale: locale.English})
	if en.Values["heroTitle"] != "B" {
		t.Fatalf("expected last writer to win, got %v", en.Values["heroTitle"])
	}
}

func TestSaveRejectsInvalidRequests(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Save(ctx, SaveRequest{Area: "blog", Locale: locale.Arabic}); !errors.Is(err, ErrUnknownArea) {
		t.Fatalf("expected ErrUnknownArea, got %v", err)
	}
	if _, err := svc.Save(ctx, SaveRequest{Area: "home"}); !errors.Is(err, ErrLocaleRequired) {
		t.Fatalf("expected ErrLocaleRequired, got %v", err)
	}
	if _, err := svc.Save(ctx, SaveRequest{Area: "home", Locale: "fr"}); !errors.Is(err, locale.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	_, err := svc.Save(ctx, SaveRequest{Area: "about-us", Locale: locale.English, Values: map[string]any{
		"value1Icon": "rocket",
	}})
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error for unknown icon, got %v", err)
	}
	if len(validation.Issues(err)) == 0 {
		t.Fatalf("expected validation issues")
	}
}

func TestGetRendersRichTextWhenRequested(t *testing.T) {
	svc := newTestService(t, WithRichText(upperRenderer{}))
	ctx := context.Background()

	if _, err := svc.Save(ctx, SaveRequest{Area: "about-us", Locale: locale.English, Values: map[string]any{"storyContent": "story"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := svc.Get(ctx, GetRequest{Area: "about-us", Locale: locale.English})
	rendered, _ := svc.Get(ctx, GetRequest{Area: "about-us", Locale: locale.English, RenderRichText: true})
	if raw.Values["storyContent"] != "story" || rendered.Values["storyContent"] != "<p>STORY</p>" {
		t.Fatalf("unexpected rich text values raw=%v rendered=%v", raw.Values["storyContent"], rendered.Values["storyContent"])
	}
}

func TestImportExportWideShape(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.Import(ctx, ImportRequest{Area: "footer", Values: map[string]any{
		"companyName":   "شركة",
		"companyNameEn": "Company",
		"phone":         "+966 11 000 0000",
	}})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	wide, err := svc.Export(ctx, "footer")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if wide["companyName"] != "شركة" || wide["companyNameEn"] != "Company" || wide["phone"] != "+966 11 000 0000" {
		t.Fatalf("unexpected export %v", wide)
	}

	if err := svc.Import(ctx, ImportRequest{Area: "footer", Values: map[string]any{"companyNameFr": "x"}}); !errors.Is(err, bilingual.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSaveRecordsActorAndTimestamp(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc, err := NewService(repo, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	actor := uuid.New()

	view, err := svc.Save(context.Background(), SaveRequest{Area: "home", Locale: locale.English, Values: map[string]any{"heroTitle": "x"}, ActorID: actor})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !view.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v", view.UpdatedAt)
	}
	rec, _ := repo.GetByArea(context.Background(), Home)
	if rec.UpdatedBy == nil || *rec.UpdatedBy != actor {
		t.Fatalf("expected actor recorded, got %v", rec.UpdatedBy)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	events, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	mustSave(t, svc, locale.English, map[string]any{"heroTitle": "x"})

	assertEvent(t, events, ChangeCreated, nil)
	assertEvent(t, events, ChangeUpdated, []string{"heroTitle"})

	cancel()
	for range events {
	}
}

func TestDefaultRegistryListsSevenAreas(t *testing.T) {
	defs := DefaultRegistry().Definitions()
	want := []Area{Home, AboutUs, ContactUs, Footer, OurProjects, OurClients, Settings}
	if len(defs) != len(want) {
		t.Fatalf("expected %d areas, got %d", len(want), len(defs))
	}
	for i, def := range defs {
		if def.Area != want[i] {
			t.Fatalf("area %d = %s, want %s", i, def.Area, want[i])
		}
		if def.Schema.Len() == 0 {
			t.Fatalf("area %s has no fields", def.Area)
		}
	}
}

func mustSave(t *testing.T, svc Service, loc locale.Locale, values map[string]any) {
	t.Helper()
	if _, err := svc.Save(context.Background(), SaveRequest{Area: "home", Locale: loc, Values: values}); err != nil {
		t.Fatalf("Save(%s): %v", loc, err)
	}
}

func assertEvent(t *testing.T, events <-chan ChangeEvent, want ChangeType, keys []string) {
	t.Helper()
	select {
	case evt := <-events:
		if evt.Type != want {
			t.Fatalf("expected %s event, got %s", want, evt.Type)
		}
		if len(evt.Keys) != len(keys) {
			t.Fatalf("expected keys %v, got %v", keys, evt.Keys)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s event", want)
	}
}

type upperRenderer struct{}

func (upperRenderer) RenderOrEscape(s string) string {
	out := []rune{}
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return "<p>" + string(out) + "</p>"
}
