package catalog

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/bilingual"
)

// Project is a portfolio entry shown on the projects page.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Slug        string         `bun:"slug,notnull,unique" json:"slug"`
	Title       bilingual.Text `bun:"title,type:jsonb,notnull" json:"title"`
	Description bilingual.Text `bun:"description,type:jsonb" json:"description"`
	Location    bilingual.Text `bun:"location,type:jsonb" json:"location"`
	Category    string         `bun:"category" json:"category"`
	Type        string         `bun:"type" json:"type"`
	Year        int            `bun:"year" json:"year"`
	CoverImage  string         `bun:"cover_image" json:"coverImage"`
	Images      []string       `bun:"images,type:jsonb" json:"images"`
	Published   bool           `bun:"published,notnull,default:false" json:"published"`
	SortOrder   int            `bun:"sort_order,notnull,default:0" json:"sortOrder"`
	CreatedBy   uuid.UUID      `bun:"created_by,type:uuid" json:"createdBy"`
	UpdatedBy   uuid.UUID      `bun:"updated_by,type:uuid" json:"updatedBy"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

// Client is a customer logo entry shown on the clients page.
type Client struct {
	bun.BaseModel `bun:"table:clients,alias:cl"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Name        bilingual.Text `bun:"name,type:jsonb,notnull" json:"name"`
	Description bilingual.Text `bun:"description,type:jsonb" json:"description"`
	Logo        string         `bun:"logo" json:"logo"`
	Website     string         `bun:"website" json:"website"`
	Published   bool           `bun:"published,notnull,default:false" json:"published"`
	SortOrder   int            `bun:"sort_order,notnull,default:0" json:"sortOrder"`
	CreatedBy   uuid.UUID      `bun:"created_by,type:uuid" json:"createdBy"`
	UpdatedBy   uuid.UUID      `bun:"updated_by,type:uuid" json:"updatedBy"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
}

func cloneProject(p *Project) *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.Title = p.Title.Clone()
	out.Description = p.Description.Clone()
	out.Location = p.Location.Clone()
	out.Images = slices.Clone(p.Images)
	return &out
}

func cloneClient(c *Client) *Client {
	if c == nil {
		return nil
	}
	out := *c
	out.Name = c.Name.Clone()
	out.Description = c.Description.Clone()
	return &out
}

// less orders list entities by sort order then creation time.
func less(orderA, orderB int, createdA, createdB time.Time) bool {
	if orderA != orderB {
		return orderA < orderB
	}
	return createdA.Before(createdB)
}
