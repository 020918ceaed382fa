package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Gauge reports a point-in-time count, e.g. hosted games
type Gauge func() int

// GoroutineMonitor samples the goroutine count alongside registered gauges
// and warns when the count crosses a threshold.
type GoroutineMonitor struct {
	mu             sync.RWMutex
	logger         zerolog.Logger
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	alertCooldown  time.Duration
	lastAlert      time.Time
	gauges         map[string]Gauge
	readings       map[string]int
}

// NewGoroutineMonitor creates a monitor. A zero interval or threshold picks
// the defaults (30s, 1000).
func NewGoroutineMonitor(logger zerolog.Logger, interval time.Duration, threshold int) *GoroutineMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if threshold <= 0 {
		threshold = 1000
	}
	baseline := runtime.NumGoroutine()
	return &GoroutineMonitor{
		logger:         logger.With().Str("component", "GoroutineMonitor").Logger(),
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  interval,
		alertThreshold: threshold,
		alertCooldown:  5 * time.Minute,
		gauges:         make(map[string]Gauge),
		readings:       make(map[string]int),
	}
}

// RegisterGauge adds a named count sampled on every check
func (gm *GoroutineMonitor) RegisterGauge(name string, g Gauge) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.gauges[name] = g
}

// Run samples until ctx is done
func (gm *GoroutineMonitor) Run(ctx context.Context) {
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")

	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			gm.check(now)
		}
	}
}

// check samples once; it reports whether an alert was raised
func (gm *GoroutineMonitor) check(now time.Time) bool {
	current := runtime.NumGoroutine()

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	for name, g := range gm.gauges {
		gm.readings[name] = g()
	}
	growthRate := float64(current-gm.baseline) / float64(max(gm.baseline, 1)) * 100

	alert := current > gm.alertThreshold && now.Sub(gm.lastAlert) > gm.alertCooldown
	if alert {
		gm.lastAlert = now
	}
	peak := gm.peak
	gm.mu.Unlock()

	gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate).
		Msg("Goroutine metrics")

	if alert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
	return alert
}

// GetMetrics returns the last sample
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	readings := make(map[string]int, len(gm.readings))
	for k, v := range gm.readings {
		readings[k] = v
	}
	return GoroutineMetrics{
		Current:  gm.current,
		Baseline: gm.baseline,
		Peak:     gm.peak,
		Growth:   gm.current - gm.baseline,
		Gauges:   readings,
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current  int            `json:"current"`
	Baseline int            `json:"baseline"`
	Peak     int            `json:"peak"`
	Growth   int            `json:"growth"`
	Gauges   map[string]int `json:"gauges"`
}
