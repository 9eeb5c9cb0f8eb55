package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

const lastResultKey = "scraper:last_result"

// RunSummary is the condensed view of the last completed run.
type RunSummary struct {
	TotalProducts int     `json:"total_products"`
	ScrapedAt     string  `json:"scraped_at"`
	Status        string  `json:"status"`
	DurationSec   float64 `json:"duration_sec"`
}

// Status is the externally visible run state.
type Status struct {
	IsRunning  bool        `json:"is_running"`
	LastRun    string      `json:"last_run,omitempty"`
	LastResult *RunSummary `json:"last_result,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Tracker serializes crawl runs and remembers the last outcome. The core
// pipeline stays stateless per invocation; this is the only shared mutable
// run state and it lives entirely in the API layer. With a Redis client
// configured, the last full result is mirrored so it survives restarts.
type Tracker struct {
	mu         sync.Mutex
	running    bool
	lastRun    string
	lastResult *RunSummary
	lastFull   *models.CrawlResult
	lastError  string

	redis  *redis.Client
	logger *slog.Logger
}

func NewTracker(redisClient *redis.Client, logger *slog.Logger) *Tracker {
	t := &Tracker{
		redis:  redisClient,
		logger: logger.With("component", "run_tracker"),
	}
	t.restore()
	return t
}

// TryStart marks a run as in flight. It returns false when one already is.
func (t *Tracker) TryStart() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}
	t.running = true
	t.lastError = ""
	return true
}

// Finish records the outcome of the run started by TryStart.
func (t *Tracker) Finish(result *models.CrawlResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	if err != nil {
		t.lastError = "Scraping failed: " + err.Error()
		t.lastResult = &RunSummary{Status: "failed"}
		return
	}

	t.lastFull = result
	t.lastRun = result.ScrapedAt
	t.lastResult = &RunSummary{
		TotalProducts: result.TotalProducts,
		ScrapedAt:     result.ScrapedAt,
		Status:        result.Status,
		DurationSec:   result.DurationSec,
	}
	t.mirror(result)
}

func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Status{
		IsRunning:  t.running,
		LastRun:    t.lastRun,
		LastResult: t.lastResult,
		Error:      t.lastError,
	}
}

func (t *Tracker) LastFullResult() *models.CrawlResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastFull
}

func (t *Tracker) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// WaitUntilIdle blocks until no run is in flight or the timeout elapses.
// It reports whether the tracker went idle.
func (t *Tracker) WaitUntilIdle(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !t.IsRunning() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

func (t *Tracker) mirror(result *models.CrawlResult) {
	if t.redis == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		t.logger.Error("failed to marshal last result", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.redis.Set(ctx, lastResultKey, payload, 0).Err(); err != nil {
		t.logger.Error("failed to mirror last result to redis", "error", err)
	}
}

func (t *Tracker) restore() {
	if t.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := t.redis.Get(ctx, lastResultKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			t.logger.Error("failed to restore last result from redis", "error", err)
		}
		return
	}

	var result models.CrawlResult
	if err := json.Unmarshal(payload, &result); err != nil {
		t.logger.Error("failed to decode cached last result", "error", err)
		return
	}

	t.lastFull = &result
	t.lastRun = result.ScrapedAt
	t.lastResult = &RunSummary{
		TotalProducts: result.TotalProducts,
		ScrapedAt:     result.ScrapedAt,
		Status:        result.Status,
		DurationSec:   result.DurationSec,
	}
	t.logger.Info("restored last result from redis", "scraped_at", result.ScrapedAt)
}
