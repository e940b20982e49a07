package feed

import (
	"time"

	"github.com/rs/zerolog"
)

// Update is one settled round as it appears on the live feed.
type Update struct {
	RoundID   string           `json:"round_id"`
	PlayerID  string           `json:"player_id"`
	GameID    string           `json:"game_id"`
	Wager     int64            `json:"wager"`
	IsWin     bool             `json:"is_win"`
	IsJackpot bool             `json:"is_jackpot"`
	Rewards   map[string]int64 `json:"rewards"`
	Timestamp time.Time        `json:"timestamp"`
}

// ServiceConfig configures the settlement feed service.
type ServiceConfig struct {
	// FlushInterval controls how often buffered updates are flushed to listeners.
	FlushInterval time.Duration

	// RecentSize bounds the snapshot of recent settlements kept for new listeners.
	RecentSize int

	// Logger is optional; if zero value, a no-op logger is used.
	Logger zerolog.Logger
}
