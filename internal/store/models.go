package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// Article is the persisted record for one imported article. An article has no
// identity beyond its content: the ID derives deterministically from the slug
// and the checksum pins the exact source bytes, so re-importing unchanged
// content is a no-op.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID         uuid.UUID          `bun:",pk,type:uuid"            json:"id"`
	Slug       string             `bun:"slug,notnull,unique"      json:"slug"`
	Title      string             `bun:"title,notnull"            json:"title"`
	Summary    *string            `bun:"summary"                  json:"summary,omitempty"`
	Author     *string            `bun:"author"                   json:"author,omitempty"`
	Tags       []string           `bun:"tags,type:jsonb"          json:"tags,omitempty"`
	SourcePath string             `bun:"source_path,notnull"      json:"source_path"`
	Checksum   string             `bun:"checksum,notnull"         json:"checksum"`
	Body       string             `bun:"body,notnull"             json:"body"`
	BodyHTML   string             `bun:"body_html,notnull"        json:"body_html"`
	Outline    interfaces.Outline `bun:"outline,type:jsonb"       json:"outline"`
	Metadata   map[string]any     `bun:"metadata,type:jsonb"      json:"metadata,omitempty"`
	Date       *time.Time         `bun:"date,nullzero"            json:"date,omitempty"`
	Draft      bool               `bun:"draft,notnull,default:false" json:"draft"`
	CreatedAt  time.Time          `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time          `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
