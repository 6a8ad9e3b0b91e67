// Package editor implements click-to-edit controls for content fields and
// images, and the page controller that batches their changes into one save.
//
// Editors never persist anything. They report committed values to their
// owner through callbacks; the Page decides when to write.
package editor

import (
	"sync"
	"unicode/utf8"
)

// Mode is the state of a FieldEditor.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "viewing"
}

// Key is a control key delivered to an editing field.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
)

// Element is the display element a field renders into while viewing.
type Element string

const (
	ElementParagraph Element = "p"
	ElementHeading1  Element = "h1"
	ElementHeading2  Element = "h2"
	ElementHeading3  Element = "h3"
	ElementSpan      Element = "span"
	ElementBlock     Element = "div"
)

// FieldOption configures a FieldEditor.
type FieldOption func(*FieldEditor)

// WithMultiline makes Enter insert a newline instead of committing.
func WithMultiline(multiline bool) FieldOption {
	return func(f *FieldEditor) {
		f.multiline = multiline
	}
}

// WithPlaceholder sets the text shown while the committed value is empty.
func WithPlaceholder(placeholder string) FieldOption {
	return func(f *FieldEditor) {
		f.placeholder = placeholder
	}
}

// WithElement sets the element used while viewing.
func WithElement(element Element) FieldOption {
	return func(f *FieldEditor) {
		if element != "" {
			f.element = element
		}
	}
}

// WithOnChange registers the callback that receives committed values.
func WithOnChange(fn func(string)) FieldOption {
	return func(f *FieldEditor) {
		f.onChange = fn
	}
}

// FieldEditor edits one text value in place.
//
// The draft is only visible while editing. Committing copies the draft to
// the committed value and reports it; cancelling restores the draft from the
// committed value without reporting anything.
type FieldEditor struct {
	mu          sync.Mutex
	committed   string
	draft       string
	cursor      int
	mode        Mode
	multiline   bool
	placeholder string
	element     Element
	onChange    func(string)
}

// NewFieldEditor returns a viewing editor holding value.
func NewFieldEditor(value string, opts ...FieldOption) *FieldEditor {
	f := &FieldEditor{
		committed: value,
		draft:     value,
		mode:      ModeViewing,
		element:   ElementBlock,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Click enters editing with the cursor at the end of the committed value.
// Clicking an editing field does nothing.
func (f *FieldEditor) Click() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeEditing {
		return
	}
	f.draft = f.committed
	f.cursor = utf8.RuneCountInString(f.draft)
	f.mode = ModeEditing
}

// Input replaces the draft. It has no effect outside editing.
func (f *FieldEditor) Input(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input(text)
}

func (f *FieldEditor) input(text string) {
	if f.mode != ModeEditing {
		return
	}
	f.draft = text
	f.cursor = utf8.RuneCountInString(text)
}

// Key handles Enter and Escape. It reports whether the key changed state.
func (f *FieldEditor) Key(key Key) bool {
	switch key {
	case KeyEnter:
		if f.newline() {
			return true
		}
		return f.commit()
	case KeyEscape:
		return f.cancel()
	}
	return false
}

// Blur commits the draft when the field is editing.
func (f *FieldEditor) Blur() {
	f.commit()
}

// SetValue replaces the committed value from the owner. An editing field
// keeps its draft.
func (f *FieldEditor) SetValue(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = value
	if f.mode == ModeViewing {
		f.draft = value
	}
}

// newline appends a line break to a multiline draft.
func (f *FieldEditor) newline() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != ModeEditing || !f.multiline {
		return false
	}
	f.input(f.draft + "\n")
	return true
}

// cancel drops the draft without reporting.
func (f *FieldEditor) cancel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != ModeEditing {
		return false
	}
	f.draft = f.committed
	f.cursor = 0
	f.mode = ModeViewing
	return true
}

// commit copies the draft to the committed value and reports it to
// onChange once mu is released, so the callback may read the editor.
func (f *FieldEditor) commit() bool {
	f.mu.Lock()
	if f.mode != ModeEditing {
		f.mu.Unlock()
		return false
	}
	f.committed = f.draft
	f.cursor = 0
	f.mode = ModeViewing
	value, onChange := f.committed, f.onChange
	f.mu.Unlock()

	if onChange != nil {
		onChange(value)
	}
	return true
}

// Mode returns the current state.
func (f *FieldEditor) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Value returns the committed value.
func (f *FieldEditor) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

// Multiline reports whether Enter inserts newlines.
func (f *FieldEditor) Multiline() bool { return f.multiline }

// Rendering describes what a field displays.
type Rendering struct {
	Element     Element `json:"element"`
	Text        string  `json:"text"`
	Placeholder bool    `json:"placeholder"`
	Editing     bool    `json:"editing"`
	Multiline   bool    `json:"multiline"`
	Cursor      int     `json:"cursor"`
}

// View renders the field. Editing shows the draft in an input control;
// viewing shows the committed value, or the placeholder when it is empty.
func (f *FieldEditor) View() Rendering {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeEditing {
		return Rendering{
			Element:   f.inputElement(),
			Text:      f.draft,
			Editing:   true,
			Multiline: f.multiline,
			Cursor:    f.cursor,
		}
	}
	if f.committed == "" {
		return Rendering{Element: f.element, Text: f.placeholder, Placeholder: true, Multiline: f.multiline}
	}
	return Rendering{Element: f.element, Text: f.committed, Multiline: f.multiline}
}

func (f *FieldEditor) inputElement() Element {
	if f.multiline {
		return "textarea"
	}
	return "input"
}
