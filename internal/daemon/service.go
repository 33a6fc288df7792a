// Package daemon provides the long-running background forecast monitor.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/oleksii-sytar/fincast/internal/engine"
	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/obs"
	"github.com/oleksii-sytar/fincast/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	LedgerPath   string
	LookbackDays int
	HorizonDays  int
	Settings     model.Settings
	Interval     time.Duration
	Addr         string
	EventsBuffer int
}

// Snapshot is a compact forecast state for status/event payloads.
type Snapshot struct {
	At                 time.Time `json:"at"`
	Balance            float64   `json:"balance"`
	Transactions       int64     `json:"transactions"`
	Planned            int64     `json:"planned"`
	ShouldDisplay      bool      `json:"should_display"`
	SpendingConfidence string    `json:"spending_confidence"`
	AverageDaily       float64   `json:"average_daily"`
	LowestBalance      float64   `json:"lowest_balance"`
	DaysUntilDanger    int       `json:"days_until_danger"` // -1 when the horizon stays out of danger
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Balance      float64 `json:"balance"`
	Transactions int64   `json:"transactions"`
	Planned      int64   `json:"planned"`
}

func (d Delta) isZero() bool {
	return d.Balance == 0 && d.Transactions == 0 && d.Planned == 0
}

// Event is emitted whenever the forecast snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time  `json:"started_at"`
	LastPollAt      time.Time  `json:"last_poll_at"`
	PollIntervalSec int        `json:"poll_interval_sec"`
	PollCount       int64      `json:"poll_count"`
	LedgerPath      string     `json:"ledger_path"`
	HorizonDays     int        `json:"horizon_days"`
	Summary         Snapshot   `json:"summary"`
	Health          obs.Health `json:"health"`
	LastError       string     `json:"last_error,omitempty"`
	EventCount      int        `json:"event_count"`
	SubscriberCount int        `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	log     *obs.Logger
	tracker *obs.ErrorTracker
	metrics *obs.Collector

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	lastStats   store.Stats
	ledgerHits  int64
	ledgerMiss  int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, log *obs.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.LookbackDays < 1 {
		cfg.LookbackDays = 90
	}
	if cfg.HorizonDays < 1 {
		cfg.HorizonDays = 30
	}

	s := &Service{
		cfg:       cfg,
		log:       log,
		tracker:   obs.NewErrorTracker(log),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	s.metrics = obs.NewCollector(s.tracker, s)
	return s
}

// UsageStats reports ledger poll reuse: a hit is a poll that found the
// ledger unchanged and skipped the recompute.
func (s *Service) UsageStats() obs.UsageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return obs.UsageStats{Hits: s.ledgerHits, Misses: s.ledgerMiss}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/metrics", s.handleMetrics)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

type pollResult struct {
	snapshot Snapshot
	changed  bool
}

func (s *Service) pollOnce() {
	res, err := obs.Tracked(s.tracker, "daemon", "poll", func() (pollResult, error) {
		return obs.Timed(s.log, "daemon poll", s.computeSnapshot)
	})
	snap, changed := res.snapshot, res.changed

	now := time.Now()

	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		return
	}

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	if changed || !prevExists {
		s.hasSnapshot = true
		s.snapshot = snap
	}
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if changed {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "forecast_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

// computeSnapshot reloads the ledger, runs the forecast, and reports whether
// anything changed since the previous poll. An unchanged ledger short-circuits
// the recompute and leaves the previous snapshot standing.
func (s *Service) computeSnapshot() (pollResult, error) {
	ledger, err := store.Open(s.cfg.LedgerPath)
	if err != nil {
		return pollResult{}, err
	}
	defer func() { _ = ledger.Close() }()

	stats, err := ledger.Stats()
	if err != nil {
		return pollResult{}, err
	}

	s.mu.Lock()
	unchanged := s.hasSnapshot && stats == s.lastStats
	if unchanged {
		s.ledgerHits++
		prev := s.snapshot
		s.mu.Unlock()
		return pollResult{snapshot: prev}, nil
	}
	s.ledgerMiss++
	s.lastStats = stats
	s.mu.Unlock()

	balance, err := ledger.Balance()
	if err != nil {
		return pollResult{}, err
	}

	today := model.DateOnly(time.Now())
	history, err := ledger.Transactions(today.AddDate(0, 0, -s.cfg.LookbackDays), today)
	if err != nil {
		return pollResult{}, err
	}

	start := today.AddDate(0, 0, 1)
	end := today.AddDate(0, 0, s.cfg.HorizonDays)
	planned, err := ledger.Planned(start, end)
	if err != nil {
		return pollResult{}, err
	}

	forecast := engine.Forecast(engine.ForecastParams{
		CurrentBalance: balance,
		History:        history,
		Planned:        planned,
		Start:          start,
		End:            end,
		Settings:       s.cfg.Settings,
	})

	snap := Snapshot{
		At:                 time.Now(),
		Balance:            balance,
		Transactions:       stats.Transactions,
		Planned:            stats.Planned,
		ShouldDisplay:      forecast.ShouldDisplay,
		SpendingConfidence: forecast.SpendingConfidence.String(),
		AverageDaily:       forecast.AverageDaily,
		DaysUntilDanger:    -1,
	}
	if len(forecast.Days) > 0 {
		snap.LowestBalance = forecast.Days[0].ProjectedBalance
	}
	for i, d := range forecast.Days {
		if d.ProjectedBalance < snap.LowestBalance {
			snap.LowestBalance = d.ProjectedBalance
		}
		if d.Risk == model.RiskDanger && snap.DaysUntilDanger == -1 {
			snap.DaysUntilDanger = i + 1
		}
	}

	return pollResult{snapshot: snap, changed: true}, nil
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Balance:      curr.Balance - prev.Balance,
		Transactions: curr.Transactions - prev.Transactions,
		Planned:      curr.Planned - prev.Planned,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	health := s.metrics.Collect().Health

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		LedgerPath:      s.cfg.LedgerPath,
		HorizonDays:     s.cfg.HorizonDays,
		Summary:         s.snapshot,
		Health:          health,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.metrics.Collect()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if snap.Health == obs.HealthUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = fmt.Fprintf(w, "%s\n", snap.Health)
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.metrics.Collect())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
