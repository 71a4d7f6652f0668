package handlers

import (
	"time"

	"github.com/gorilla/websocket"

	"video-editor/internal/database"
	"video-editor/internal/startup"
	"video-editor/internal/timeline"
)

// Handlers serves the editor API.
type Handlers struct {
	db        *database.Database
	startTime time.Time
	pxPerSec  float64
	tolerance float64
	upgrader  websocket.Upgrader
}

// New creates handlers backed by db. Editor defaults come from config.
func New(db *database.Database, config *startup.Config) *Handlers {
	h := &Handlers{
		db:        db,
		startTime: time.Now(),
		pxPerSec:  config.PixelsPerSecond,
		tolerance: config.SnapTolerancePx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if h.pxPerSec <= 0 {
		h.pxPerSec = timeline.DefaultPixelsPerSecond
	}
	if h.tolerance <= 0 {
		h.tolerance = timeline.DefaultSnapTolerancePx
	}
	return h
}
