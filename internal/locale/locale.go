// Package locale defines the closed set of site locales and how a request
// resolves to one of them.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported site language code.
type Locale string

const (
	Arabic  Locale = "ar"
	English Locale = "en"
)

// ErrUnsupported is returned when a value does not name a supported locale.
var ErrUnsupported = errors.New("locale: unsupported locale")

var known = map[Locale]language.Tag{
	Arabic:  language.Arabic,
	English: language.English,
}

// Parse normalises value ("EN", "ar-SA", "en_US") and returns the matching
// locale.
func Parse(value string) (Locale, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexAny(trimmed, "-_"); i > 0 {
		trimmed = trimmed[:i]
	}
	loc := Locale(trimmed)
	if _, ok := known[loc]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, value)
	}
	return loc, nil
}

func (l Locale) String() string { return string(l) }

// Tag returns the BCP 47 tag for l.
func (l Locale) Tag() language.Tag {
	if tag, ok := known[l]; ok {
		return tag
	}
	return language.Und
}

// Dir is the text direction used when rendering l.
func (l Locale) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Suffix is the field-name suffix used by the legacy wide record shape
// (heroTitle, heroTitleEn).
func (l Locale) Suffix() string {
	s := string(l)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Set is the pair of locales a site serves. Default holds base field values;
// Secondary holds the suffixed counterparts.
type Set struct {
	Default   Locale
	Secondary Locale
}

// DefaultSet is Arabic first, English second.
func DefaultSet() Set {
	return Set{Default: Arabic, Secondary: English}
}

// NewSet parses and validates a locale pair.
func NewSet(defaultLocale, secondaryLocale string) (Set, error) {
	def, err := Parse(defaultLocale)
	if err != nil {
		return Set{}, err
	}
	sec, err := Parse(secondaryLocale)
	if err != nil {
		return Set{}, err
	}
	if def == sec {
		return Set{}, fmt.Errorf("locale: default and secondary locale must differ (%s)", def)
	}
	return Set{Default: def, Secondary: sec}, nil
}

// All returns the locales of the set, default first.
func (s Set) All() []Locale {
	return []Locale{s.Default, s.Secondary}
}

func (s Set) Contains(l Locale) bool {
	return l != "" && (l == s.Default || l == s.Secondary)
}

// Parse accepts only locales that belong to the set.
func (s Set) Parse(value string) (Locale, error) {
	loc, err := Parse(value)
	if err != nil {
		return "", err
	}
	if !s.Contains(loc) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, value)
	}
	return loc, nil
}

// Other returns the locale of the set that is not l.
func (s Set) Other(l Locale) Locale {
	if l == s.Default {
		return s.Secondary
	}
	return s.Default
}
