package bilingual

import (
	"maps"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// Record is the stored form of a content area: localized values keyed by
// field then locale, plus locale-neutral values keyed by field.
type Record struct {
	Localized map[string]map[locale.Locale]string `json:"localized"`
	Neutral   map[string]any                      `json:"neutral"`
}

// NewRecord returns a record holding the zero or default value of every
// schema field for every locale of set.
func NewRecord(schema Schema, set locale.Set) Record {
	rec := Record{
		Localized: map[string]map[locale.Locale]string{},
		Neutral:   map[string]any{},
	}
	for _, f := range schema.fields {
		if f.Localized {
			value, _ := f.zero().(string)
			slots := make(map[locale.Locale]string, 2)
			for _, loc := range set.All() {
				slots[loc] = value
			}
			rec.Localized[f.Key] = slots
			continue
		}
		rec.Neutral[f.Key] = f.zero()
	}
	return rec
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := Record{
		Localized: make(map[string]map[locale.Locale]string, len(r.Localized)),
		Neutral:   make(map[string]any, len(r.Neutral)),
	}
	for key, slots := range r.Localized {
		out.Localized[key] = maps.Clone(slots)
	}
	for key, value := range r.Neutral {
		out.Neutral[key] = cloneValue(value)
	}
	return out
}

// Value returns the raw localized value of key for loc.
func (r Record) Value(key string, loc locale.Locale) string {
	return r.Localized[key][loc]
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
