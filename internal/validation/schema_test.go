package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecms/internal/bilingual"
)

func testSchema() bilingual.Schema {
	return bilingual.MustSchema(
		bilingual.Line("heroTitle"),
		bilingual.Neutral("heroImage", bilingual.KindImage),
		bilingual.Neutral("gallery", bilingual.KindImages),
		bilingual.Neutral("year", bilingual.KindInteger),
		bilingual.Neutral("visible", bilingual.KindBool),
		bilingual.Neutral("icon", bilingual.KindIcon),
	)
}

func TestValidatePartialAcceptsSubsets(t *testing.T) {
	v, err := NewValidator(testSchema())
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if err := v.ValidatePartial(map[string]any{"heroTitle": "Welcome", "year": 2020}); err != nil {
		t.Fatalf("expected valid partial payload, got %v", err)
	}
	if err := v.ValidatePartial(nil); err != nil {
		t.Fatalf("expected empty payload to validate, got %v", err)
	}
	if err := v.ValidatePartial(map[string]any{"gallery": []string{"/a.jpg"}, "icon": ""}); err != nil {
		t.Fatalf("expected go-typed slice to validate, got %v", err)
	}
}

func TestValidatePartialReportsIssues(t *testing.T) {
	v, err := NewValidator(testSchema())
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	err = v.ValidatePartial(map[string]any{
		"year":    "2020",
		"icon":    "rocket",
		"unknown": true,
	})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 3 {
		t.Fatalf("expected issues for every bad key, got %+v", issues)
	}
	joined := err.Error()
	for _, fragment := range []string{"/year", "/icon"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
}

func TestJSONSchemaRejectsAdditionalProperties(t *testing.T) {
	doc := JSONSchema(testSchema())
	if doc["additionalProperties"] != false {
		t.Fatalf("expected additionalProperties=false, got %v", doc["additionalProperties"])
	}
	props := doc["properties"].(map[string]any)
	if len(props) != 6 {
		t.Fatalf("expected 6 properties, got %d", len(props))
	}
}
