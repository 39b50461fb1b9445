// Package handlers exposes the recommendation engine over HTTP for the UI.
package handlers

import (
	"github.com/special-song-search/backend/internal/cache"
	"github.com/special-song-search/backend/internal/recommend"
)

// Handlers holds the dependencies shared by all HTTP handlers
type Handlers struct {
	engine *recommend.Engine
	redis  *cache.RedisClient
}

// NewHandlers creates the handler set. redis may be nil; tag options are then
// served straight from the database.
func NewHandlers(engine *recommend.Engine, redis *cache.RedisClient) *Handlers {
	return &Handlers{engine: engine, redis: redis}
}
