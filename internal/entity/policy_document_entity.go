package entity

import (
	"time"

	"github.com/google/uuid"
)

// PolicyDocument is one scraped or bundled policy page
type PolicyDocument struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Country   string // "" when not country specific
	Language  string // "en" | "hi"
	SourceURL string
	Metadata  []byte // JSON, scrape provenance
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
