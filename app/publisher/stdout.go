package publisher

import (
	"context"
	"fmt"
	"time"
)

// StdoutPublisher prints digests instead of sending them anywhere. Used when
// no sink URL is configured, mainly for local runs.
type StdoutPublisher struct {
	now func() time.Time
}

var _ Publisher = (*StdoutPublisher)(nil)

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{now: time.Now}
}

func (p *StdoutPublisher) Publish(ctx context.Context, titleLine, body string, status Status, category int) (string, error) {
	fmt.Printf("=== %s (status: %s, category: %d) ===\n%s\n", titleLine, status, category, body)
	return fmt.Sprintf("stdout-%d", p.now().Unix()), nil
}

// CategoryExists always succeeds; stdout has no category taxonomy.
func (p *StdoutPublisher) CategoryExists(ctx context.Context, categoryID int) (bool, error) {
	return true, nil
}
