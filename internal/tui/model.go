package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/editor"
	"github.com/goliatone/go-sitecms/internal/locale"
)

var errUnsaved = errors.New("save changes (ctrl+s) before switching locale")

type loadedMsg struct{ err error }

type savedMsg struct{ err error }

type uploadedMsg struct{ err error }

type noticeExpiredMsg struct{}

// Model edits one content area.
type Model struct {
	ctx     context.Context
	page    *editor.Page
	locales locale.Set
	styles  Styles

	fields []bilingual.Field
	cursor int

	active    *editor.FieldEditor
	picking   *editor.ImageEditor
	line      textinput.Model
	paragraph textarea.Model

	busy  bool
	err   error
	width int
}

// New returns a model bound to page. The page is loaded by Init.
func New(ctx context.Context, page *editor.Page, locales locale.Set) Model {
	line := textinput.New()
	line.Prompt = ""
	paragraph := textarea.New()
	paragraph.ShowLineNumbers = false
	paragraph.SetHeight(5)
	return Model{
		ctx:       ctx,
		page:      page,
		locales:   locales,
		styles:    DefaultStyles(),
		line:      line,
		paragraph: paragraph,
		busy:      true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd(m.page.Locale())
}

func (m Model) loadCmd(loc locale.Locale) tea.Cmd {
	page, ctx := m.page, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: page.SetLocale(ctx, loc)}
	}
}

func (m Model) saveCmd() tea.Cmd {
	page, ctx := m.page, m.ctx
	return func() tea.Msg {
		return savedMsg{err: page.Save(ctx)}
	}
}

func (m Model) uploadCmd(img *editor.ImageEditor, path string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return uploadedMsg{err: uploadFile(ctx, img, path)}
	}
}

func uploadFile(ctx context.Context, img *editor.ImageEditor, path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := f.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, 0); err != nil {
			return err
		}
	}
	return img.Select(ctx, editor.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Body:        f,
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.line.Width = max(msg.Width-30, 20)
		m.paragraph.SetWidth(max(msg.Width-30, 20))
		return m, nil
	case loadedMsg:
		m.busy = false
		m.err = msg.err
		m.fields = m.page.Fields()
		if m.cursor >= len(m.fields) {
			m.cursor = 0
		}
		return m, nil
	case savedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		return m, tea.Tick(editor.NoticeTTL, func(time.Time) tea.Msg { return noticeExpiredMsg{} })
	case uploadedMsg:
		m.busy = false
		m.err = msg.err
		return m, nil
	case noticeExpiredMsg:
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.active != nil {
			return m.updateEditing(msg)
		}
		if m.picking != nil {
			return m.updatePicking(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter":
		return m.open()
	case "ctrl+s":
		m.busy = true
		m.err = nil
		return m, m.saveCmd()
	case "ctrl+l":
		if m.page.Dirty() {
			m.err = errUnsaved
			return m, nil
		}
		m.busy = true
		m.err = nil
		return m, m.loadCmd(m.locales.Other(m.page.Locale()))
	}
	return m, nil
}

func (m Model) open() (tea.Model, tea.Cmd) {
	if len(m.fields) == 0 {
		return m, nil
	}
	field := m.fields[m.cursor]
	if img, ok := m.page.Image(field.Key); ok {
		m.picking = img
		m.line.Placeholder = "path/to/image.jpg"
		m.line.SetValue("")
		return m, m.line.Focus()
	}
	f, ok := m.page.Field(field.Key)
	if !ok {
		return m, nil
	}
	f.Click()
	m.active = f
	m.err = nil
	if f.Multiline() {
		m.paragraph.SetValue(f.View().Text)
		return m, m.paragraph.Focus()
	}
	m.line.Placeholder = ""
	m.line.SetValue(f.View().Text)
	m.line.CursorEnd()
	return m, m.line.Focus()
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.active
	switch msg.String() {
	case "esc":
		f.Key(editor.KeyEscape)
		return m.close(), nil
	case "tab":
		f.Input(m.draft())
		f.Blur()
		m = m.close()
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		return m, nil
	case "ctrl+s":
		f.Input(m.draft())
		f.Blur()
		m = m.close()
		m.busy = true
		return m, m.saveCmd()
	case "enter":
		if !f.Multiline() {
			f.Input(m.draft())
			f.Key(editor.KeyEnter)
			return m.close(), nil
		}
	}

	var cmd tea.Cmd
	if f.Multiline() {
		m.paragraph, cmd = m.paragraph.Update(msg)
	} else {
		m.line, cmd = m.line.Update(msg)
	}
	f.Input(m.draft())
	return m, cmd
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picking = nil
		m.line.Blur()
		return m, nil
	case "enter":
		img, path := m.picking, strings.TrimSpace(m.line.Value())
		m.picking = nil
		m.line.Blur()
		if path == "" {
			return m, nil
		}
		m.busy = true
		m.err = nil
		return m, m.uploadCmd(img, path)
	}
	var cmd tea.Cmd
	m.line, cmd = m.line.Update(msg)
	return m, cmd
}

func (m Model) draft() string {
	if m.active != nil && m.active.Multiline() {
		return m.paragraph.Value()
	}
	return m.line.Value()
}

func (m Model) close() Model {
	m.active = nil
	m.line.Blur()
	m.paragraph.Blur()
	return m
}

func (m Model) View() string {
	var b strings.Builder
	loc := m.page.Locale()
	title := fmt.Sprintf("%s · %s", m.page.Area(), loc)
	if m.page.Dirty() {
		title += " *"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	if m.busy && len(m.fields) == 0 {
		b.WriteString("loading…\n")
	}
	for i, field := range m.fields {
		label := m.styles.Label.Render(fieldLabel(field))
		if i == m.cursor {
			label = m.styles.Selected.Render("› " + fieldLabel(field))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, m.renderValue(i, field)))
		b.WriteString("\n")
	}

	if notice, ok := m.page.Notice(); ok {
		style := m.styles.Success
		if notice.Kind == editor.NoticeError {
			style = m.styles.Error
		}
		b.WriteString("\n" + style.Render(notice.Message) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + m.styles.Error.Render(m.err.Error()) + "\n")
	}
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) renderValue(i int, field bilingual.Field) string {
	if img, ok := m.page.Image(field.Key); ok {
		if m.picking == img {
			return m.styles.Editing.Render(m.line.View())
		}
		if img.Uploading() {
			return m.styles.Placeholder.Render("uploading…")
		}
		return m.styles.Value.Render(img.Src())
	}
	f, ok := m.page.Field(field.Key)
	if !ok {
		return ""
	}
	if f == m.active && i == m.cursor {
		if f.Multiline() {
			return m.styles.Editing.Render(m.paragraph.View())
		}
		return m.styles.Editing.Render(m.line.View())
	}
	view := f.View()
	if view.Placeholder {
		return m.styles.Placeholder.Render(placeholderText(view.Text))
	}
	return m.styles.Value.Render(view.Text)
}

func (m Model) help() string {
	switch {
	case m.active != nil && m.active.Multiline():
		return "tab commit · esc cancel · ctrl+s save"
	case m.active != nil:
		return "enter/tab commit · esc cancel · ctrl+s save"
	case m.picking != nil:
		return "enter upload · esc cancel"
	}
	return "↑/↓ move · enter edit · ctrl+s save · ctrl+l switch locale · q quit"
}

func fieldLabel(field bilingual.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Key
}

func placeholderText(text string) string {
	if text == "" {
		return "(empty)"
	}
	return text
}
