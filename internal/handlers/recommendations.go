package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/special-song-search/backend/internal/logger"
	"github.com/special-song-search/backend/internal/metrics"
	"github.com/special-song-search/backend/internal/recommend"
	"github.com/special-song-search/backend/internal/util"
	"go.uber.org/zap"
)

// Recommend returns scored, ranked recordings for the posted criteria.
// POST /api/recommendations
func (h *Handlers) Recommend(c *gin.Context) {
	startTime := time.Now()

	var criteria recommend.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		util.RespondBadRequest(c, "invalid criteria payload: "+err.Error())
		return
	}

	recs, err := h.engine.Recommend(c.Request.Context(), criteria)
	duration := time.Since(startTime).Seconds()

	if err != nil {
		var cfgErr *recommend.ConfigError
		if errors.As(err, &cfgErr) {
			metrics.RecordRecommendation("config_error", duration, 0)
			util.RespondConfigurationError(c, cfgErr.Error())
			return
		}

		metrics.RecordRecommendation("storage_error", duration, 0)
		logger.Error("recommendation query failed",
			zap.Error(err),
			logger.WithRequestID(c.GetString("request_id")),
		)
		util.RespondServiceUnavailable(c, "catalog store")
		return
	}

	metrics.RecordRecommendation("ok", duration, len(recs))

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"meta": gin.H{
			"count":           len(recs),
			"limit":           criteria.EffectiveLimit(),
			"requested_limit": criteria.Limit,
			"randomness":      criteria.Randomness,
		},
	})
}
