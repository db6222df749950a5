package tasks

import (
	"context"

	"github.com/lysyi3m/feed-digest/app/feed"
)

type FeedFetcher interface {
	Run(ctx context.Context, feedURL string, opts feed.FetchOptions) ([]feed.Item, error)
}

var _ FeedFetcher = (*feed.Fetcher)(nil)

type TaskSchedulerInterface interface {
	Start()
	Stop()

	// RunManual executes the pipeline for one digest synchronously on the
	// single worker and returns its terminal outcome.
	RunManual(ctx context.Context, digestName string) (Outcome, error)

	// Reload re-reads the digest configurations and re-arms every schedule.
	Reload() error

	EnqueueTask(task TaskInterface) error
}
