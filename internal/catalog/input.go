package catalog

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/locale"
)

var (
	ErrSlugConflict = errors.New("catalog: slug already in use")
	ErrSlugInvalid  = errors.New("catalog: slug is invalid")
)

// ProjectInput is the full editable state of a project. Update replaces the
// stored project with it.
type ProjectInput struct {
	Slug        string         `json:"slug"`
	Title       bilingual.Text `json:"title"`
	Description bilingual.Text `json:"description"`
	Location    bilingual.Text `json:"location"`
	Category    string         `json:"category"`
	Type        string         `json:"type"`
	Year        int            `json:"year"`
	CoverImage  string         `json:"coverImage"`
	Images      []string       `json:"images"`
	Published   bool           `json:"published"`
	SortOrder   int            `json:"sortOrder"`
}

// Validate checks the input against the configured locales.
func (in ProjectInput) Validate(set locale.Set) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.By(requiredIn(set.Default))),
		validation.Field(&in.Slug, validation.By(validSlug)),
		validation.Field(&in.Year, validation.Min(0), validation.Max(9999)),
		validation.Field(&in.SortOrder, validation.Min(0)),
		validation.Field(&in.Images, validation.Each(validation.Required)),
	)
}

// ClientInput is the full editable state of a client.
type ClientInput struct {
	Name        bilingual.Text `json:"name"`
	Description bilingual.Text `json:"description"`
	Logo        string         `json:"logo"`
	Website     string         `json:"website"`
	Published   bool           `json:"published"`
	SortOrder   int            `json:"sortOrder"`
}

func (in ClientInput) Validate(set locale.Set) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.By(requiredIn(set.Default))),
		validation.Field(&in.Website, is.URL),
		validation.Field(&in.SortOrder, validation.Min(0)),
	)
}

func requiredIn(loc locale.Locale) validation.RuleFunc {
	return func(value any) error {
		text, _ := value.(bilingual.Text)
		if text.Blank(loc) {
			return validation.NewError("validation_required_locale", "is required in "+string(loc))
		}
		return nil
	}
}

func validSlug(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if !slug.IsValid(raw) {
		return validation.NewError("validation_slug", "must be lowercase letters, digits and hyphens")
	}
	return nil
}

// deriveSlug picks the explicit slug or builds one from the title, preferring
// locales whose text survives normalization.
func deriveSlug(explicit string, title bilingual.Text, set locale.Set) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if !slug.IsValid(explicit) {
			return "", ErrSlugInvalid
		}
		return explicit, nil
	}
	for _, loc := range []locale.Locale{set.Secondary, set.Default} {
		candidate := strings.TrimSpace(title.Get(loc))
		if candidate == "" {
			continue
		}
		normalized, err := slug.Normalize(candidate)
		if err == nil && normalized != "" {
			return normalized, nil
		}
	}
	return "project", nil
}
