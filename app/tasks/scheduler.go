package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/feed-digest/app/activity"
	"github.com/lysyi3m/feed-digest/app/config"
	"github.com/lysyi3m/feed-digest/app/database"
	"github.com/lysyi3m/feed-digest/app/publisher"
	"github.com/lysyi3m/feed-digest/app/schedule"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler owns the task queue and the one-shot timers that fire scheduled
// digest runs. A single worker drains the queue, so at most one pipeline run
// is ever in flight; overlapping manual and scheduled triggers serialize
// behind it. After every executed run the digest's timer is re-armed from
// the schedule calculator.
type Scheduler struct {
	configCache *config.ConfigCache
	digestRepo  database.DigestRepository
	historyRepo database.HistoryRepository
	fetcher     FeedFetcher
	pub         publisher.Publisher
	activityLog *activity.Log
	defaultLoc  *time.Location
	taskQueue   chan TaskInterface
	timers      map[string]*time.Timer
	timersMu    sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewScheduler(configCache *config.ConfigCache, digestRepo database.DigestRepository,
	historyRepo database.HistoryRepository, fetcher FeedFetcher, pub publisher.Publisher,
	activityLog *activity.Log, defaultLoc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		configCache: configCache,
		digestRepo:  digestRepo,
		historyRepo: historyRepo,
		fetcher:     fetcher,
		pub:         pub,
		activityLog: activityLog,
		defaultLoc:  defaultLoc,
		taskQueue:   make(chan TaskInterface, 64),
		timers:      make(map[string]*time.Timer),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.armAll()
}

func (s *Scheduler) Stop() {
	s.cancel()

	s.timersMu.Lock()
	for _, timer := range s.timers {
		timer.Stop()
	}
	s.timers = make(map[string]*time.Timer)
	s.timersMu.Unlock()

	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RunManual triggers one pipeline run and waits for its terminal outcome.
func (s *Scheduler) RunManual(ctx context.Context, digestName string) (Outcome, error) {
	digestConfig, err := s.configCache.GetConfig(digestName)
	if err != nil {
		return Outcome{}, err
	}

	done := make(chan Outcome, 1)
	task := NewBuildDigestTask(digestConfig, TriggerManual, s.fetcher, s.pub,
		s.digestRepo, s.historyRepo, s.activityLog, s.digestLocation(digestConfig), done)

	if err := s.EnqueueTask(task); err != nil {
		return Outcome{}, fmt.Errorf("failed to enqueue manual run: %w", err)
	}

	select {
	case outcome := <-done:
		return outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-s.ctx.Done():
		return Outcome{}, s.ctx.Err()
	}
}

// Reload re-reads the digest configurations and re-arms every timer,
// dropping timers of digests whose configuration disappeared.
func (s *Scheduler) Reload() error {
	if err := s.configCache.Run(); err != nil {
		return fmt.Errorf("failed to reload configurations: %w", err)
	}

	configs := s.configCache.GetConfigs()
	for _, digestConfig := range configs {
		if err := s.digestRepo.UpsertDigest(digestConfig.Name, digestConfig.URL); err != nil {
			slog.Warn("Failed to register digest", "digest", digestConfig.Name, "error", err)
		}
	}

	s.timersMu.Lock()
	for name, timer := range s.timers {
		if _, ok := configs[name]; !ok {
			timer.Stop()
			delete(s.timers, name)
		}
	}
	s.timersMu.Unlock()

	s.armAll()

	return nil
}

func (s *Scheduler) armAll() {
	for _, digestConfig := range s.configCache.GetConfigs() {
		s.armDigest(digestConfig)
	}
}

// armDigest computes the digest's next fire time and sets a one-shot timer
// for it. A digest with no enabled weekday, or a disabled digest, gets no
// timer.
func (s *Scheduler) armDigest(digestConfig *config.Config) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if timer, ok := s.timers[digestConfig.Name]; ok {
		timer.Stop()
		delete(s.timers, digestConfig.Name)
	}

	if !digestConfig.Settings.Enabled {
		slog.Debug("Digest disabled, not arming schedule", "digest", digestConfig.Name)
		s.storeNextFire(digestConfig.Name, nil)
		return
	}

	loc := s.digestLocation(digestConfig)
	next := schedule.NextFireTime(digestConfig.Schedule, time.Now(), loc)
	if next.IsZero() {
		slog.Info("Digest has no schedule", "digest", digestConfig.Name)
		s.storeNextFire(digestConfig.Name, nil)
		return
	}

	name := digestConfig.Name
	s.timers[name] = time.AfterFunc(time.Until(next), func() {
		s.fireScheduled(name)
	})
	s.storeNextFire(name, &next)

	slog.Info("Schedule armed", "digest", name, "next_fire", next.Format(time.RFC3339))
}

func (s *Scheduler) fireScheduled(digestName string) {
	select {
	case <-s.ctx.Done():
		return
	default:
	}

	digestConfig, err := s.configCache.GetConfig(digestName)
	if err != nil {
		slog.Warn("Scheduled digest no longer configured", "digest", digestName, "error", err)
		return
	}

	task := NewBuildDigestTask(digestConfig, TriggerScheduled, s.fetcher, s.pub,
		s.digestRepo, s.historyRepo, s.activityLog, s.digestLocation(digestConfig), nil)

	if err := s.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue scheduled run", "digest", digestName, "error", err)
		// Try again at the next occurrence instead of dropping the schedule
		s.armDigest(digestConfig)
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Task execution failed", "type", string(task.GetType()), "id", task.GetID(), "digest", task.GetDigestName(), "error", err)
	}

	// Arm the next occurrence after every executed run, manual included
	if digestConfig, err := s.configCache.GetConfig(task.GetDigestName()); err == nil {
		s.armDigest(digestConfig)
	}
}

func (s *Scheduler) digestLocation(digestConfig *config.Config) *time.Location {
	return schedule.Location(digestConfig.Schedule, s.defaultLoc)
}

func (s *Scheduler) storeNextFire(digestName string, next *time.Time) {
	if err := s.digestRepo.UpdateNextFire(digestName, next); err != nil {
		slog.Warn("Failed to store next fire time", "digest", digestName, "error", err)
	}
}
