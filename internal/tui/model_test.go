package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/locale"
)

type memoryBackend struct {
	values map[locale.Locale]map[string]any
	saves  int
}

func (b *memoryBackend) FetchContent(_ context.Context, _ string, loc locale.Locale) (map[string]any, error) {
	out := map[string]any{}
	for k, v := range b.values[loc] {
		out[k] = v
	}
	return out, nil
}

func (b *memoryBackend) SaveContent(_ context.Context, _ string, loc locale.Locale, values map[string]any) (map[string]any, error) {
	b.saves++
	if b.values[loc] == nil {
		b.values[loc] = map[string]any{}
	}
	for k, v := range values {
		b.values[loc][k] = v
	}
	return values, nil
}

type stopTimer struct{}

func (stopTimer) Stop() bool { return true }

func newModel(t *testing.T, backend *memoryBackend) Model {
	t.Helper()
	page, err := editor.NewPage("home", []bilingual.Field{
		bilingual.Line("heroTitle"),
		bilingual.Paragraph("heroSubtitle"),
	}, backend, editor.WithNoticeScheduler(func(time.Duration, func()) editor.Timer { return stopTimer{} }))
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	m := New(context.Background(), page, locale.DefaultSet())
	return step(t, m, m.Init()())
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditCommitAndSave(t *testing.T) {
	backend := &memoryBackend{values: map[locale.Locale]map[string]any{
		locale.Arabic: {"heroTitle": "مرحبا"},
	}}
	m := newModel(t, backend)
	if len(m.fields) != 2 {
		t.Fatalf("expected two editable fields, got %d", len(m.fields))
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.active == nil || m.active.Mode() != editor.ModeEditing {
		t.Fatalf("enter should open the selected field")
	}
	m, _ = press(t, m, runes("!"))
	if m.page.Model()["heroTitle"] != "مرحبا" {
		t.Fatalf("typing must not reach the page model")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.active != nil {
		t.Fatalf("enter should commit a single-line field")
	}
	if got := m.page.Model()["heroTitle"]; got != "مرحبا!" {
		t.Fatalf("expected committed value in model, got %v", got)
	}
	if backend.saves != 0 {
		t.Fatalf("commit must not save")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil || !m.busy {
		t.Fatalf("ctrl+s should start a save")
	}
	m = step(t, m, cmd())
	if backend.saves != 1 || backend.values[locale.Arabic]["heroTitle"] != "مرحبا!" {
		t.Fatalf("expected one save with the edit, got %d %+v", backend.saves, backend.values)
	}
	if !strings.Contains(m.View(), locale.Message(locale.Arabic, locale.MsgSaved)) {
		t.Fatalf("expected saved notice in view:\n%s", m.View())
	}
}

func TestEscapeCancelsEdit(t *testing.T) {
	backend := &memoryBackend{values: map[locale.Locale]map[string]any{
		locale.Arabic: {"heroTitle": "original"},
	}}
	m := newModel(t, backend)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, runes("xyz"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.active != nil {
		t.Fatalf("esc should leave editing")
	}
	f, _ := m.page.Field("heroTitle")
	if f.Value() != "original" || m.page.Dirty() {
		t.Fatalf("cancel must restore the committed value, got %q dirty=%v", f.Value(), m.page.Dirty())
	}
}

func TestSwitchLocaleRequiresSave(t *testing.T) {
	backend := &memoryBackend{values: map[locale.Locale]map[string]any{
		locale.Arabic:  {"heroTitle": "مرحبا"},
		locale.English: {"heroTitle": "Hello"},
	}}
	m := newModel(t, backend)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	m = step(t, m, cmd())
	if m.page.Locale() != locale.English {
		t.Fatalf("expected english after ctrl+l, got %s", m.page.Locale())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, runes(" there"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.cursor != 1 {
		t.Fatalf("tab should commit and move down, cursor=%d", m.cursor)
	}
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd != nil || !errors.Is(m.err, errUnsaved) {
		t.Fatalf("expected unsaved guard, got cmd=%v err=%v", cmd != nil, m.err)
	}
}
