package catalog

import (
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/locale"
)

// ProjectView is a project flattened for one locale.
type ProjectView struct {
	ID          uuid.UUID     `json:"id"`
	Locale      locale.Locale `json:"locale"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Category    string        `json:"category"`
	Type        string        `json:"type"`
	Year        int           `json:"year"`
	CoverImage  string        `json:"coverImage"`
	Images      []string      `json:"images"`
	Published   bool          `json:"published"`
	SortOrder   int           `json:"sortOrder"`
}

// View projects the project for loc, using fallback for blank text.
func (p *Project) View(loc, fallback locale.Locale) ProjectView {
	images := slices.Clone(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProjectView{
		ID:          p.ID,
		Locale:      loc,
		Slug:        p.Slug,
		Title:       p.Title.Resolve(loc, fallback),
		Description: p.Description.Resolve(loc, fallback),
		Location:    p.Location.Resolve(loc, fallback),
		Category:    p.Category,
		Type:        p.Type,
		Year:        p.Year,
		CoverImage:  p.CoverImage,
		Images:      images,
		Published:   p.Published,
		SortOrder:   p.SortOrder,
	}
}

// ClientView is a client flattened for one locale.
type ClientView struct {
	ID          uuid.UUID     `json:"id"`
	Locale      locale.Locale `json:"locale"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Logo        string        `json:"logo"`
	Website     string        `json:"website"`
	Published   bool          `json:"published"`
	SortOrder   int           `json:"sortOrder"`
}

func (c *Client) View(loc, fallback locale.Locale) ClientView {
	return ClientView{
		ID:          c.ID,
		Locale:      loc,
		Name:        c.Name.Resolve(loc, fallback),
		Description: c.Description.Resolve(loc, fallback),
		Logo:        c.Logo,
		Website:     c.Website,
		Published:   c.Published,
		SortOrder:   c.SortOrder,
	}
}

// ProjectViews projects a list.
func ProjectViews(records []*Project, loc, fallback locale.Locale) []ProjectView {
	out := make([]ProjectView, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.View(loc, fallback))
	}
	return out
}

func ClientViews(records []*Client, loc, fallback locale.Locale) []ClientView {
	out := make([]ClientView, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.View(loc, fallback))
	}
	return out
}
