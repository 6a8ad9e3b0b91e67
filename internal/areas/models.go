package areas

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/locale"
)

// Record is the persisted singleton row of a content area.
type Record struct {
	bun.BaseModel `bun:"table:content_areas,alias:ca"`

	ID        uuid.UUID                           `bun:",pk,type:uuid" json:"id"`
	Area      string                              `bun:"area,notnull,unique" json:"area"`
	Localized map[string]map[locale.Locale]string `bun:"localized,type:jsonb,notnull" json:"localized"`
	Neutral   map[string]any                      `bun:"neutral,type:jsonb,notnull" json:"neutral"`
	UpdatedBy *uuid.UUID                          `bun:"updated_by,type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time                           `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time                           `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Content returns the bilingual form of the record.
func (r *Record) Content() bilingual.Record {
	if r == nil {
		return bilingual.Record{}
	}
	return bilingual.Record{Localized: r.Localized, Neutral: r.Neutral}.Clone()
}

// SetContent replaces the stored values with a copy of content.
func (r *Record) SetContent(content bilingual.Record) {
	cloned := content.Clone()
	r.Localized = cloned.Localized
	r.Neutral = cloned.Neutral
}

func cloneRecord(r *Record) *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.SetContent(r.Content())
	if r.UpdatedBy != nil {
		actor := *r.UpdatedBy
		out.UpdatedBy = &actor
	}
	return &out
}
