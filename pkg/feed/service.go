package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFlushInterval is the default interval for flushing buffered updates
const DefaultFlushInterval = 2 * time.Second

// DefaultRecentSize bounds the recent-settlement snapshot
const DefaultRecentSize = 50

// Service buffers settled rounds and broadcasts them to listeners on a
// fixed interval. It is transport-agnostic: the caller wires HTTP routes
// and subscribes via Listen().
type Service struct {
	mu       sync.RWMutex
	buffer   []Update
	recent   []Update
	broad    *Broadcaster
	logger   zerolog.Logger
	interval time.Duration
	maxSize  int
	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewService creates a new settlement feed service and starts its flush loop.
func NewService(cfg ServiceConfig) *Service {
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	maxSize := cfg.RecentSize
	if maxSize <= 0 {
		maxSize = DefaultRecentSize
	}

	s := &Service{
		broad:    NewBroadcaster(128),
		logger:   cfg.Logger,
		interval: interval,
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}
	s.start()
	return s
}

func (s *Service) start() {
	s.ticker = time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.flush()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Publish queues a settled round for the next flush.
func (s *Service) Publish(update Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append(s.buffer, update)
	s.recent = append(s.recent, update)
	if len(s.recent) > s.maxSize {
		s.recent = s.recent[len(s.recent)-s.maxSize:]
	}
}

// Recent returns a copy of the most recent settlements, newest last.
// New listeners use it as their initial snapshot.
func (s *Service) Recent() []Update {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Update, len(s.recent))
	copy(out, s.recent)
	return out
}

// Listen subscribes to flushed update batches.
func (s *Service) Listen(ctx context.Context) (<-chan []Update, context.CancelFunc) {
	return s.broad.Listen(ctx)
}

func (s *Service) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	s.broad.Send(batch)
	s.logger.Debug().Int("count", len(batch)).Msg("Flushed settlement updates")
}

// Stop halts the flush loop. Pending updates are discarded.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.stopChan)
	})
}
