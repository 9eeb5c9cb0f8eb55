package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/scraper"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/store"
)

// RunStore is the optional persistence hook for completed runs.
type RunStore interface {
	SaveRun(ctx context.Context, result *models.CrawlResult) error
}

type Handlers struct {
	crawler *scraper.Crawler
	tracker *Tracker
	store   RunStore
	logger  *slog.Logger
}

// NewHandlers wires the HTTP surface. store may be nil when persistence is
// not configured.
func NewHandlers(crawler *scraper.Crawler, tracker *Tracker, runStore *store.Store, logger *slog.Logger) *Handlers {
	h := &Handlers{
		crawler: crawler,
		tracker: tracker,
		logger:  logger.With("component", "api"),
	}
	if runStore != nil {
		h.store = runStore
	}
	return h
}

// Health reports liveness plus the current run state.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := h.tracker.Snapshot()
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format("2006-01-02 15:04:05"),
		"scraping_status": map[string]interface{}{
			"is_running": status.IsRunning,
			"last_run":   status.LastRun,
		},
	})
}

// Status reports the full run-state snapshot.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.tracker.Snapshot())
}

// Scrape runs a crawl synchronously. A concurrent run yields 409.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	if !h.tracker.TryStart() {
		h.respondError(w, http.StatusConflict, "Scraping is already in progress")
		return
	}

	result := h.runCrawl(r.Context(), limit)
	if result == nil {
		h.respondError(w, http.StatusInternalServerError, "crawl failed")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ScrapeAsync starts a crawl in the background. With wait=true it polls up to
// `timeout` seconds and returns the full result when the run finishes in time.
func (h *Handlers) ScrapeAsync(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseLimit(query.Get("limit"))
	wait := query.Get("wait") == "true"
	timeout := parseTimeout(query.Get("timeout"))

	started := h.tracker.TryStart()
	if started {
		go func() {
			// The crawl outlives the request.
			h.runCrawl(context.Background(), limit)
		}()
	}

	if wait {
		if h.tracker.WaitUntilIdle(r.Context(), timeout) {
			if result := h.tracker.LastFullResult(); result != nil {
				h.respondJSON(w, http.StatusOK, result)
				return
			}
		}
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "running"})
		return
	}

	if !started {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "running"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// runCrawl executes one crawl under an already-acquired tracker slot and
// records the outcome. It returns nil when the crawl errored.
func (h *Handlers) runCrawl(ctx context.Context, limit int) *models.CrawlResult {
	runID := uuid.New().String()
	startedAt := time.Now()

	h.logger.Info("starting product scraping", "run_id", runID, "limit", limit)

	products, err := h.crawler.Crawl(ctx, limit)
	if err != nil {
		h.logger.Error("scraping failed", "run_id", runID, "error", err)
		h.tracker.Finish(nil, err)
		return nil
	}

	result := models.NewCrawlResult(runID, products, startedAt)
	h.tracker.Finish(result, nil)

	if h.store != nil {
		if err := h.store.SaveRun(ctx, result); err != nil {
			h.logger.Error("failed to persist crawl run", "run_id", runID, "error", err)
		}
	}

	h.logger.Info("scraping completed", "run_id", runID, "products", result.TotalProducts)
	return result
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func parseTimeout(raw string) time.Duration {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 1 {
		seconds = 120
	}
	return time.Duration(seconds) * time.Second
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
