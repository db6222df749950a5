package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feed-digest/app/activity"
	"github.com/lysyi3m/feed-digest/app/config"
	"github.com/lysyi3m/feed-digest/app/database"
	"github.com/lysyi3m/feed-digest/app/tasks"
)

func NewHandler(configCache *config.ConfigCache, digestRepo database.DigestRepository,
	historyRepo database.HistoryRepository, activityLog *activity.Log,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		configCache: configCache,
		digestRepo:  digestRepo,
		historyRepo: historyRepo,
		activityLog: activityLog,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if digestCount, err := h.digestRepo.GetDigestCount(); err == nil {
		health["digests"] = digestCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	configs := h.configCache.GetConfigs()
	enabled := h.configCache.GetEnabledConfigs()

	c.JSON(http.StatusOK, map[string]interface{}{
		"configurations": len(configs),
		"enabled":        len(enabled),
		"activity":       h.activityLog.Len(),
	})
}

func (h *Handler) APIListDigests(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	digests := make([]map[string]interface{}, 0, len(configs))

	for _, digestConfig := range configs {
		digestInfo := map[string]interface{}{
			"name":      digestConfig.Name,
			"url":       digestConfig.URL,
			"title":     digestConfig.Title,
			"enabled":   digestConfig.Settings.Enabled,
			"min_items": digestConfig.Settings.MinItems,
			"status":    digestConfig.Settings.Status,
		}

		if digest, err := h.digestRepo.GetDigest(digestConfig.Name); err == nil && digest != nil {
			digestInfo["last_run_at"] = digest.LastRunAt
			digestInfo["last_status"] = digest.LastStatus
			digestInfo["next_fire_at"] = digest.NextFireAt
		}

		if linkCount, err := h.historyRepo.GetLinkCount(digestConfig.Name); err == nil {
			digestInfo["history_size"] = linkCount
		}

		digests = append(digests, digestInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"digests": digests,
		"total":   len(digests),
	})
}

func (h *Handler) APIGetDigestDetails(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing digest name parameter"})
		return
	}

	digestConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Digest configuration not found", "digest", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Digest configuration not found"})
		return
	}

	details := map[string]interface{}{
		"name":         name,
		"url":          digestConfig.URL,
		"title":        digestConfig.Title,
		"enabled":      digestConfig.Settings.Enabled,
		"min_items":    digestConfig.Settings.MinItems,
		"link_format":  digestConfig.Settings.LinkFormat,
		"status":       digestConfig.Settings.Status,
		"category":     digestConfig.Settings.Category,
		"history_size": digestConfig.Settings.HistorySize,
		"item_limit":   digestConfig.Settings.ItemLimit,
		"schedule": map[string]interface{}{
			"hour":     digestConfig.Schedule.Hour,
			"minute":   digestConfig.Schedule.Minute,
			"weekdays": digestConfig.Schedule.Weekdays,
			"timezone": digestConfig.Schedule.Timezone,
		},
	}

	digest, err := h.digestRepo.GetDigest(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_digest", "digest", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if digest != nil {
		details["database"] = map[string]interface{}{
			"last_run_at":  digest.LastRunAt,
			"last_status":  digest.LastStatus,
			"next_fire_at": digest.NextFireAt,
			"created_at":   digest.CreatedAt,
			"updated_at":   digest.UpdatedAt,
		}
	}

	if linkCount, err := h.historyRepo.GetLinkCount(name); err == nil {
		details["history"] = map[string]interface{}{
			"links":    linkCount,
			"capacity": digestConfig.Settings.HistorySize,
		}
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIRunDigest(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing digest name parameter"})
		return
	}

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Digest configuration not found", "digest", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Digest configuration not found"})
		return
	}

	outcome, err := h.scheduler.RunManual(c.Request.Context(), name)
	if err != nil {
		slog.Error("Error running digest", "digest", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to run digest",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"digest":  name,
		"outcome": outcome,
	})
}

func (h *Handler) APIReload(c *gin.Context) {
	if err := h.scheduler.Reload(); err != nil {
		slog.Error("Error reloading configurations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configurations",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configurations reloaded",
		"loaded":  h.configCache.GetConfigCount(),
	})
}

func (h *Handler) APIGetActivity(c *gin.Context) {
	entries := h.activityLog.List()

	c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}

func (h *Handler) APIClearActivity(c *gin.Context) {
	h.activityLog.Clear()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Activity log cleared",
	})
}
