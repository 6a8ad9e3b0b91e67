package bilingual

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// Merge applies a flat single-locale update to a copy of rec. Localized
// keys write only the loc slot; neutral keys are written whatever loc is;
// keys absent from update are left untouched. The sorted list of written
// keys is returned. Unknown keys and ill-typed values reject the whole
// update with an Errors value and rec is not modified.
func Merge(schema Schema, rec Record, loc locale.Locale, update map[string]any) (Record, []string, error) {
	if loc == "" {
		return rec, nil, fmt.Errorf("%w: locale is required", ErrInvalidValue)
	}

	var problems Errors
	normalized := make(map[string]any, len(update))
	for key, value := range update {
		f, ok := schema.Field(key)
		if !ok {
			problems = append(problems, &FieldError{Key: key, Err: ErrUnknownField})
			continue
		}
		v, err := coerce(f, value)
		if err != nil {
			problems = append(problems, &FieldError{Key: key, Err: fmt.Errorf("%w: %w", ErrInvalidValue, err)})
			continue
		}
		normalized[key] = v
	}
	if len(problems) > 0 {
		sort.Slice(problems, func(i, j int) bool { return problems[i].Key < problems[j].Key })
		return rec, nil, problems
	}

	out := rec.Clone()
	keys := make([]string, 0, len(normalized))
	for key, value := range normalized {
		f, _ := schema.Field(key)
		if f.Localized {
			slots := out.Localized[key]
			if slots == nil {
				slots = map[locale.Locale]string{}
				out.Localized[key] = slots
			}
			slots[loc] = value.(string)
		} else {
			out.Neutral[key] = value
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return out, keys, nil
}
