package database

import (
	"time"
)

// Digest represents a digest record in the database
type Digest struct {
	Name       string
	FeedURL    string
	LastRunAt  *time.Time
	LastStatus string
	NextFireAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
