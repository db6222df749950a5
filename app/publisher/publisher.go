package publisher

import (
	"context"
)

// Status controls whether the sink stores the digest as a draft or publishes
// it immediately.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPublish Status = "publish"
)

// Publisher is the sink that accepts a compiled digest document. A category
// of zero means uncategorized.
type Publisher interface {
	Publish(ctx context.Context, titleLine, body string, status Status, category int) (string, error)

	// CategoryExists reports whether a nonzero category id is still valid
	// on the sink side.
	CategoryExists(ctx context.Context, categoryID int) (bool, error)
}
