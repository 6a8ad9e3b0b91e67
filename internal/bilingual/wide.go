package bilingual

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// SuffixedKey returns the legacy wide-record name of key for loc, for
// example heroTitle -> heroTitleEn.
func SuffixedKey(key string, loc locale.Locale) string {
	return key + loc.Suffix()
}

// Widen renders rec in the legacy wide shape: localized fields appear under
// their base key for the default locale and under the suffixed key for the
// secondary locale; neutral fields appear once.
func Widen(schema Schema, rec Record, set locale.Set) map[string]any {
	out := make(map[string]any, len(schema.fields)*2)
	for _, f := range schema.fields {
		if !f.Localized {
			value, ok := rec.Neutral[f.Key]
			out[f.Key] = normalizeStored(f, value, ok)
			continue
		}
		out[f.Key] = rec.Localized[f.Key][set.Default]
		out[SuffixedKey(f.Key, set.Secondary)] = rec.Localized[f.Key][set.Secondary]
	}
	return out
}

// FromWide splits a legacy wide object into one flat update per locale.
// Neutral keys travel with the default locale update.
func FromWide(schema Schema, set locale.Set, wide map[string]any) (map[locale.Locale]map[string]any, error) {
	secondary := make(map[string]string, schema.Len())
	for _, f := range schema.fields {
		if f.Localized {
			secondary[SuffixedKey(f.Key, set.Secondary)] = f.Key
		}
	}

	out := map[locale.Locale]map[string]any{
		set.Default:   {},
		set.Secondary: {},
	}
	var unknown []string
	for key, value := range wide {
		if _, ok := schema.Field(key); ok {
			out[set.Default][key] = value
			continue
		}
		if base, ok := secondary[key]; ok {
			out[set.Secondary][base] = value
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %v", ErrUnknownField, unknown)
	}
	return out, nil
}
