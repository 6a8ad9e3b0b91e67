package bilingual

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/goliatone/go-sitecms/internal/icons"
)

// coerce converts an incoming or stored value to the Go type of f:
// string, []string, float64, int64 or bool. JSON decoding artefacts
// (float64 for integers, []any for lists, json.Number) are accepted.
func coerce(f Field, value any) (any, error) {
	if f.Localized {
		return coerceString(value)
	}
	switch f.Kind {
	case KindText, KindRichText, KindString, KindURL, KindImage:
		return coerceString(value)
	case KindIcon:
		s, err := coerceString(value)
		if err != nil || s == "" {
			return s, err
		}
		icon, err := icons.Parse(s)
		if err != nil {
			return nil, err
		}
		return string(icon), nil
	case KindImages:
		return coerceStrings(value)
	case KindNumber:
		return coerceFloat(value)
	case KindInteger:
		n, err := coerceFloat(value)
		if err != nil {
			return nil, err
		}
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", value)
	default:
		return nil, fmt.Errorf("unsupported kind %q", f.Kind)
	}
}

func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("expected string, got %T", value)
	}
}

func coerceStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string at index %d, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", value)
	}
}

func coerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}

// normalizeStored coerces a persisted value, falling back to the field's
// zero value when the stored data no longer matches the field kind.
func normalizeStored(f Field, value any, present bool) any {
	if !present {
		return f.zero()
	}
	normalized, err := coerce(f, value)
	if err != nil {
		return f.zero()
	}
	return normalized
}

func trimmedEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
