package api

import (
	"github.com/lysyi3m/feed-digest/app/activity"
	"github.com/lysyi3m/feed-digest/app/config"
	"github.com/lysyi3m/feed-digest/app/database"
	"github.com/lysyi3m/feed-digest/app/tasks"
)

type Handler struct {
	configCache *config.ConfigCache
	digestRepo  database.DigestRepository
	historyRepo database.HistoryRepository
	activityLog *activity.Log
	scheduler   tasks.TaskSchedulerInterface
}
