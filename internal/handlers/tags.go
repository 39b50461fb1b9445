package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/special-song-search/backend/internal/cache"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/metrics"
	"github.com/special-song-search/backend/internal/recommend"
	"github.com/special-song-search/backend/internal/util"
)

const tagOptionsTTL = 10 * time.Minute

// TagOptions returns the distinct tag vocabulary for artists or recordings.
// GET /api/tags/:type
func (h *Handlers) TagOptions(c *gin.Context) {
	entity := recommend.EntityType(c.Param("type"))
	cacheKey := "tag_options:" + string(entity)

	if h.redis != nil {
		if cached, err := h.redis.Get(c.Request.Context(), cacheKey); err == nil {
			var tags []string
			if err := json.Unmarshal([]byte(cached), &tags); err == nil {
				metrics.RecordCacheHit("tag_options")
				c.JSON(http.StatusOK, gin.H{"tags": tags, "cached": true})
				return
			}
		} else if cache.IsNotFound(err) {
			metrics.RecordCacheMiss("tag_options")
		}
	}

	tags, err := h.engine.TagOptions(c.Request.Context(), entity)
	if err != nil {
		var cfgErr *recommend.ConfigError
		if errors.As(err, &cfgErr) {
			util.RespondBadRequest(c, cfgErr.Error())
			return
		}
		util.RespondServiceUnavailable(c, "catalog store")
		return
	}

	if h.redis != nil {
		if payload, err := json.Marshal(tags); err == nil {
			if err := h.redis.SetEx(c.Request.Context(), cacheKey, payload, tagOptionsTTL); err != nil {
				logger.WarnWithFields("failed to cache tag options", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags, "cached": false})
}
