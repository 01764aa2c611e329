package aggregator

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

const (
	epsWindow     = 5 * time.Second
	pruneInterval = 2 * time.Second
)

// Stats holds a point-in-time snapshot of aggregated metrics.
type Stats struct {
	Uptime       string           `json:"uptime"`
	TotalEvents  int64            `json:"total_events"`
	EPS          float64          `json:"eps"`
	LevelCounts  map[string]int64 `json:"level_counts"`
	SourceCounts map[string]int64 `json:"source_counts"`
	DroppedLive  int64            `json:"dropped_live"`
	LiveClients  int              `json:"live_clients"`
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock replaces the real clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(a *Aggregator) { a.clock = c }
}

// WithLiveStats reports the live hub's drop count and subscriber count.
func WithLiveStats(dropped func() int64, clients func() int) Option {
	return func(a *Aggregator) {
		a.dropped = dropped
		a.clients = clients
	}
}

// Aggregator is a pipeline sink that counts events per level and source and
// keeps an events-per-second sliding window.
type Aggregator struct {
	mu           sync.RWMutex
	clock        clock.Clock
	startTime    time.Time
	totalEvents  int64
	levelCounts  map[string]int64
	sourceCounts map[string]int64
	window       []time.Time // arrival times within the EPS window
	dropped      func() int64
	clients      func() int
}

// New creates an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		clock:        clock.Real(),
		levelCounts:  make(map[string]int64),
		sourceCounts: make(map[string]int64),
		dropped:      func() int64 { return 0 },
		clients:      func() int { return 0 },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.startTime = a.clock.Now()
	return a
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.clock.Now()
	cutoff := now.Add(-epsWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	return Stats{
		Uptime:       now.Sub(a.startTime).Truncate(time.Second).String(),
		TotalEvents:  a.totalEvents,
		EPS:          float64(recent) / epsWindow.Seconds(),
		LevelCounts:  maps.Clone(a.levelCounts),
		SourceCounts: maps.Clone(a.sourceCounts),
		DroppedLive:  a.dropped(),
		LiveClients:  a.clients(),
	}
}

// Emit records an admitted pipeline event.
func (a *Aggregator) Emit(_ context.Context, ev model.LogEvent) error {
	a.record(ev)
	return nil
}

func (a *Aggregator) Close() error { return nil }

// Start prunes the sliding window periodically. Blocks until the context is
// cancelled.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := a.clock.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			a.prune()
		}
	}
}

// record adds an event to the metrics.
func (a *Aggregator) record(ev model.LogEvent) {
	now := a.clock.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalEvents++
	a.levelCounts[ev.Severity.String()]++
	a.sourceCounts[ev.Source]++
	a.window = append(a.window, now)
}

// prune removes arrival times older than the EPS window.
func (a *Aggregator) prune() {
	cutoff := a.clock.Now().Add(-epsWindow)

	a.mu.Lock()
	defer a.mu.Unlock()

	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}

// windowLen reports the number of retained arrival times.
func (a *Aggregator) windowLen() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.window)
}
