package bilingual

import (
	"maps"
	"strings"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// Text is a single localized value, used by list entities for titles and
// descriptions.
type Text map[locale.Locale]string

// NewText builds a Text from a default and secondary value.
func NewText(set locale.Set, defaultValue, secondaryValue string) Text {
	return Text{set.Default: defaultValue, set.Secondary: secondaryValue}
}

// Get returns the raw value for loc.
func (t Text) Get(loc locale.Locale) string {
	return t[loc]
}

// Resolve returns the value for loc, or the fallback locale value when the
// loc value is blank.
func (t Text) Resolve(loc, fallback locale.Locale) string {
	if value := t[loc]; strings.TrimSpace(value) != "" || fallback == "" {
		return value
	}
	return t[fallback]
}

// Blank reports whether loc has no value.
func (t Text) Blank(loc locale.Locale) bool {
	return strings.TrimSpace(t[loc]) == ""
}

// Clone returns a copy of t.
func (t Text) Clone() Text {
	if t == nil {
		return Text{}
	}
	return maps.Clone(t)
}

// Restrict drops locales outside set.
func (t Text) Restrict(set locale.Set) Text {
	out := Text{}
	for loc, value := range t {
		if set.Contains(loc) {
			out[loc] = value
		}
	}
	return out
}
