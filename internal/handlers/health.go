package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/special-song-search/backend/internal/database"
)

// Health reports service and catalog store status.
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	if err := database.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
