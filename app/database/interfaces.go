package database

import (
	"time"
)

type DigestRepository interface {
	GetDigest(digestName string) (*Digest, error)
	GetDigestCount() (int, error)

	UpsertDigest(digestName, feedURL string) error
	UpdateRunResult(digestName string, status string, runAt time.Time) error
	UpdateNextFire(digestName string, nextFire *time.Time) error
}

type HistoryRepository interface {
	// GetLinks returns emitted links in insertion order, oldest first.
	GetLinks(digestName string) ([]string, error)
	GetLinkCount(digestName string) (int, error)

	// ReplaceLinks atomically replaces the stored history with the given
	// links, preserving their order as the new insertion order.
	ReplaceLinks(digestName string, links []string) error
}
