// Package bilingual stores content as field -> locale -> value and
// converts between that shape and the flat single-locale objects editors
// read and write.
package bilingual

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind describes the value a field holds.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindRichText FieldKind = "richtext"
	KindString   FieldKind = "string"
	KindURL      FieldKind = "url"
	KindImage    FieldKind = "image"
	KindImages   FieldKind = "images"
	KindNumber   FieldKind = "number"
	KindInteger  FieldKind = "integer"
	KindBool     FieldKind = "bool"
	KindIcon     FieldKind = "icon"
)

var (
	ErrSchemaInvalid = errors.New("bilingual: schema is invalid")
	ErrUnknownField  = errors.New("bilingual: unknown field")
	ErrInvalidValue  = errors.New("bilingual: invalid value")
)

// Field declares one key of a content area.
//
// Localized fields keep one value per locale; all others are shared by every
// locale. Private fields are withheld from public projections.
type Field struct {
	Key       string    `json:"key"`
	Kind      FieldKind `json:"kind"`
	Localized bool      `json:"localized"`
	Multiline bool      `json:"multiline,omitempty"`
	Private   bool      `json:"private,omitempty"`
	Label     string    `json:"label,omitempty"`
	Default   any       `json:"default,omitempty"`
}

// Line declares a localized single-line text field.
func Line(key string) Field {
	return Field{Key: key, Kind: KindText, Localized: true}
}

// Paragraph declares a localized multi-line text field.
func Paragraph(key string) Field {
	return Field{Key: key, Kind: KindText, Localized: true, Multiline: true}
}

// RichText declares a localized markdown field.
func RichText(key string) Field {
	return Field{Key: key, Kind: KindRichText, Localized: true, Multiline: true}
}

// Neutral declares a field shared by every locale.
func Neutral(key string, kind FieldKind) Field {
	return Field{Key: key, Kind: kind}
}

// WithDefault returns a copy of f with a default value.
func (f Field) WithDefault(value any) Field {
	f.Default = value
	return f
}

// AsPrivate returns a copy of f that public projections skip.
func (f Field) AsPrivate() Field {
	f.Private = true
	return f
}

// Schema is the ordered field list of a content area.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema validates fields and builds a schema. Keys must be unique and
// only text kinds may be localized.
func NewSchema(fields ...Field) (Schema, error) {
	s := Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		f.Key = strings.TrimSpace(f.Key)
		if f.Key == "" {
			return Schema{}, fmt.Errorf("%w: field key is required", ErrSchemaInvalid)
		}
		if _, dup := s.index[f.Key]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate field %q", ErrSchemaInvalid, f.Key)
		}
		if !f.Kind.valid() {
			return Schema{}, fmt.Errorf("%w: field %q has unknown kind %q", ErrSchemaInvalid, f.Key, f.Kind)
		}
		if f.Localized && f.Kind != KindText && f.Kind != KindRichText {
			return Schema{}, fmt.Errorf("%w: field %q of kind %s cannot be localized", ErrSchemaInvalid, f.Key, f.Kind)
		}
		if f.Default != nil {
			normalized, err := coerce(f, f.Default)
			if err != nil {
				return Schema{}, fmt.Errorf("%w: default of %q: %v", ErrSchemaInvalid, f.Key, err)
			}
			f.Default = normalized
		}
		s.index[f.Key] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustSchema is NewSchema for package-level declarations.
func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s Schema) Field(key string) (Field, bool) {
	i, ok := s.index[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s Schema) Len() int { return len(s.fields) }

func (k FieldKind) valid() bool {
	switch k {
	case KindText, KindRichText, KindString, KindURL, KindImage, KindImages,
		KindNumber, KindInteger, KindBool, KindIcon:
		return true
	default:
		return false
	}
}

// zero is the value a field holds before anything was written.
func (f Field) zero() any {
	if f.Default != nil {
		return cloneValue(f.Default)
	}
	switch f.Kind {
	case KindImages:
		return []string{}
	case KindNumber:
		return float64(0)
	case KindInteger:
		return int64(0)
	case KindBool:
		return false
	default:
		return ""
	}
}

// FieldError reports a rejected value for one key.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Errors collects every rejected key of an update.
type Errors []*FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "bilingual: invalid update: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual field errors to errors.Is/As.
func (e Errors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, fe := range e {
		out = append(out, fe)
	}
	return out
}
