package bilingual

import "github.com/goliatone/go-sitecms/internal/locale"

// ProjectOptions tune Project.
type ProjectOptions struct {
	// Fallback, when set, supplies the value of that locale for localized
	// fields that are empty in the requested locale.
	Fallback locale.Locale
	// IncludePrivate keeps fields marked Private.
	IncludePrivate bool
	// RenderRichText transforms localized rich text values after resolution.
	RenderRichText func(string) string
}

// Project returns the flat single-locale view of rec: every localized key
// carries the loc value and every neutral key its shared value. Keys the
// record lacks take their zero value.
func Project(schema Schema, rec Record, loc locale.Locale, opts ProjectOptions) map[string]any {
	out := make(map[string]any, len(schema.fields))
	for _, f := range schema.fields {
		if f.Private && !opts.IncludePrivate {
			continue
		}
		if !f.Localized {
			value, ok := rec.Neutral[f.Key]
			out[f.Key] = normalizeStored(f, value, ok)
			continue
		}

		slots := rec.Localized[f.Key]
		value, ok := slots[loc]
		if !ok {
			value, _ = f.zero().(string)
		}
		if opts.Fallback != "" && opts.Fallback != loc && trimmedEmpty(value) {
			value = slots[opts.Fallback]
		}
		if f.Kind == KindRichText && opts.RenderRichText != nil {
			value = opts.RenderRichText(value)
		}
		out[f.Key] = value
	}
	return out
}
