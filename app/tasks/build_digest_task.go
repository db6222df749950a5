package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/feed-digest/app/activity"
	"github.com/lysyi3m/feed-digest/app/config"
	"github.com/lysyi3m/feed-digest/app/database"
	"github.com/lysyi3m/feed-digest/app/digest"
	"github.com/lysyi3m/feed-digest/app/feed"
	"github.com/lysyi3m/feed-digest/app/publisher"
)

// BuildDigestTask runs the whole pipeline for one digest: fetch, dedup,
// normalize, assemble, publish, then merge the emitted links into history.
// History is only touched after the sink accepted the document.
type BuildDigestTask struct {
	Task
	DigestConfig *config.Config
	Trigger      Trigger

	fetcher     FeedFetcher
	pub         publisher.Publisher
	digestRepo  database.DigestRepository
	historyRepo database.HistoryRepository
	activityLog *activity.Log
	assembler   *digest.Assembler
	renderer    *digest.Renderer
	location    *time.Location
	now         func() time.Time

	// done, when set, receives the terminal outcome (manual trigger)
	done chan Outcome
}

func NewBuildDigestTask(digestConfig *config.Config, trigger Trigger, fetcher FeedFetcher,
	pub publisher.Publisher, digestRepo database.DigestRepository, historyRepo database.HistoryRepository,
	activityLog *activity.Log, location *time.Location, done chan Outcome) *BuildDigestTask {
	return &BuildDigestTask{
		Task:         NewTask(TaskTypeBuildDigest, digestConfig.Name),
		DigestConfig: digestConfig,
		Trigger:      trigger,
		fetcher:      fetcher,
		pub:          pub,
		digestRepo:   digestRepo,
		historyRepo:  historyRepo,
		activityLog:  activityLog,
		assembler:    digest.NewAssembler(),
		renderer:     digest.NewRenderer(),
		location:     location,
		now:          time.Now,
		done:         done,
	}
}

func (t *BuildDigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	outcome := t.run(ctx)
	t.report(outcome)

	if t.done != nil {
		t.done <- outcome
	}

	if outcome.Status == OutcomeFailed {
		return fmt.Errorf("%s", outcome.Message)
	}
	return nil
}

func (t *BuildDigestTask) run(ctx context.Context) Outcome {
	digestConfig := t.DigestConfig

	if digestConfig.URL == "" {
		return Outcome{Status: OutcomeFailed, Message: "no feed URL configured"}
	}

	items, err := t.fetcher.Run(ctx, digestConfig.URL, fetchOptions(digestConfig))
	if err != nil {
		return Outcome{Status: OutcomeFailed, Message: fmt.Sprintf("feed fetch failed: %v", err)}
	}

	storedLinks, err := t.historyRepo.GetLinks(digestConfig.Name)
	if err != nil {
		return Outcome{Status: OutcomeFailed, Message: fmt.Sprintf("failed to load history: %v", err)}
	}

	history := digest.NewHistory(digestConfig.Settings.HistorySize, storedLinks)
	newItems, newLinks := history.FilterNew(items)

	fullRules := digestConfig.FullRules()
	prefixRules := digestConfig.PrefixRules()

	var entries []digest.Entry
	for _, item := range newItems {
		prefix, title, ok := digest.NormalizeTitle(item.Title, fullRules, prefixRules, digestConfig.Settings.AutoStrip)
		if !ok {
			continue
		}
		entries = append(entries, digest.Entry{Prefix: prefix, Title: title, Link: item.Link})
	}

	doc, skipReason := t.assembler.Run(entries, digestConfig, t.now().In(t.location))
	if skipReason != "" {
		return t.skipOutcome(skipReason, len(entries))
	}

	category := t.resolveCategory(ctx, digestConfig.Settings.Category)

	status := publisher.StatusDraft
	if digestConfig.Settings.Status == config.StatusPublish {
		status = publisher.StatusPublish
	}

	body := t.renderer.Run(doc)

	documentID, err := t.pub.Publish(ctx, doc.TitleLine, body, status, category)
	if err != nil {
		// History stays untouched so the items are retried next run
		return Outcome{Status: OutcomeFailed, Message: fmt.Sprintf("publish failed: %v", err)}
	}

	history.Merge(newLinks)
	if err := t.historyRepo.ReplaceLinks(digestConfig.Name, history.Links()); err != nil {
		// The document is out; losing the history update means the next
		// run may republish these items
		slog.Error("Failed to persist history after publish", "digest", digestConfig.Name, "error", err)
		t.activityLog.Record(fmt.Sprintf("Digest %s published but history update failed: %v", digestConfig.Name, err), activity.SeverityError)
	}

	return Outcome{
		Status:     OutcomePublished,
		DocumentID: documentID,
		ItemCount:  len(doc.Entries),
		Message:    fmt.Sprintf("Published digest with %d items as document %s", len(doc.Entries), documentID),
	}
}

// resolveCategory validates a nonzero category against the sink, silently
// falling back to uncategorized when it no longer exists.
func (t *BuildDigestTask) resolveCategory(ctx context.Context, category int) int {
	if category == 0 {
		return 0
	}

	exists, err := t.pub.CategoryExists(ctx, category)
	if err != nil {
		slog.Warn("Failed to validate category, publishing uncategorized", "digest", t.DigestName, "category", category, "error", err)
		return 0
	}
	if !exists {
		slog.Warn("Configured category no longer exists, publishing uncategorized", "digest", t.DigestName, "category", category)
		return 0
	}
	return category
}

func (t *BuildDigestTask) skipOutcome(reason digest.SkipReason, entryCount int) Outcome {
	switch reason {
	case digest.SkipBelowThreshold:
		return Outcome{
			Status:    OutcomeSkipped,
			ItemCount: entryCount,
			Message:   fmt.Sprintf("Skipped: %d new items, need at least %d", entryCount, t.DigestConfig.Settings.MinItems),
		}
	default:
		return Outcome{Status: OutcomeSkipped, Message: "Skipped: no new items"}
	}
}

// report records the run's single activity entry and the stored run result.
func (t *BuildDigestTask) report(outcome Outcome) {
	message := fmt.Sprintf("[%s] %s run: %s", t.DigestName, t.Trigger, outcome.Message)

	severity := activity.SeverityInfo
	switch outcome.Status {
	case OutcomePublished:
		severity = activity.SeveritySuccess
	case OutcomeFailed:
		severity = activity.SeverityError
	case OutcomeSkipped:
		if outcome.ItemCount > 0 {
			severity = activity.SeverityWarning
		}
	}

	t.activityLog.Record(message, severity)

	if err := t.digestRepo.UpdateRunResult(t.DigestName, string(outcome.Status), t.now()); err != nil {
		slog.Warn("Failed to store run result", "digest", t.DigestName, "error", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"digest", t.DigestName,
		"trigger", string(t.Trigger),
		"duration", t.GetDuration(),
		"status", string(outcome.Status),
		"items", outcome.ItemCount)
}

func fetchOptions(digestConfig *config.Config) feed.FetchOptions {
	return feed.FetchOptions{
		Timeout:       digestConfig.Settings.Timeout,
		RetryAttempts: digestConfig.Settings.RetryAttempts,
		RetryDelay:    digestConfig.Settings.RetryDelay,
		CacheTTL:      digestConfig.Settings.CacheTTL,
		ItemLimit:     digestConfig.Settings.ItemLimit,
	}
}
