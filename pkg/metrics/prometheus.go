// Package metrics provides Prometheus metrics for the Isotope progression engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Isotope engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core Business Metrics - puzzle and reward throughput
	puzzlesScored    prometheus.Counter
	pointsAwarded    prometheus.Histogram
	perfectSolves    prometheus.Counter
	electronsEarned  prometheus.Counter
	electronsSpent   prometheus.Counter
	overdraftRefused prometheus.Counter

	// Progression Metrics
	elementAdvances   prometheus.Counter
	periodCompletions prometheus.Counter
	gameModeUnlocks   prometheus.Counter
	achievementGrants prometheus.Counter

	// Persistence Metrics
	profileLoads        prometheus.Counter
	profileLoadFailures prometheus.Counter
	profileSaves        prometheus.Counter
	profileSaveFailures prometheus.Counter
	profileResets       prometheus.Counter
	schemaMigrations    prometheus.Counter
	storageErrors       *prometheus.CounterVec

	// Transition Metrics
	transitionsCreated   prometheus.Counter
	transitionsCompleted prometheus.Counter
	activeTransitions    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "isotope",
		subsystem:        "progression",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.puzzlesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "puzzles_scored_total",
		Help:      "Total number of puzzle completions scored",
	})

	m.pointsAwarded = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_awarded",
		Help:      "Distribution of atomic-weight points awarded per puzzle",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
	})

	m.perfectSolves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "perfect_solves_total",
		Help:      "Total number of perfect puzzle solves",
	})

	m.electronsEarned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "electrons_earned_total",
		Help:      "Total electrons credited across all players",
	})

	m.electronsSpent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "electrons_spent_total",
		Help:      "Total electrons debited across all players",
	})

	m.overdraftRefused = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overdraft_refused_total",
		Help:      "Total spend attempts refused to keep balances non-negative",
	})

	m.elementAdvances = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "element_advances_total",
		Help:      "Total element advancement transitions",
	})

	m.periodCompletions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "period_completions_total",
		Help:      "Total period boundary crossings",
	})

	m.gameModeUnlocks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "game_mode_unlocks_total",
		Help:      "Total game modes unlocked",
	})

	m.achievementGrants = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "achievement_grants_total",
		Help:      "Total achievements granted (duplicates excluded)",
	})

	m.profileLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_loads_total",
		Help:      "Total profile loads from storage",
	})

	m.profileLoadFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_load_failures_total",
		Help:      "Total profile loads that fell back to a default profile",
	})

	m.profileSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_saves_total",
		Help:      "Total successful profile saves",
	})

	m.profileSaveFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_save_failures_total",
		Help:      "Total rejected or failed profile saves",
	})

	m.profileResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_resets_total",
		Help:      "Total explicit profile resets",
	})

	m.schemaMigrations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schema_migrations_total",
		Help:      "Total persisted profiles upgraded to the current schema version",
	})

	m.storageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "storage_errors_total",
		Help:      "Total storage collaborator errors by operation",
	}, []string{"operation"})

	m.transitionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transitions_created_total",
		Help:      "Total transition notifications created",
	})

	m.transitionsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transitions_completed_total",
		Help:      "Total transition notifications completed",
	})

	m.activeTransitions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_transitions",
		Help:      "Transitions currently pending or animating",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Package-level helpers operating on the global manager.

// RecordPuzzleScored increments the scored-puzzle counter and observes points.
func RecordPuzzleScored(points int) {
	globalManager.puzzlesScored.Inc()
	globalManager.pointsAwarded.Observe(float64(points))
}

// RecordPerfectSolve increments the perfect-solve counter.
func RecordPerfectSolve() {
	globalManager.perfectSolves.Inc()
}

// RecordElectronsEarned adds to the earned-electron counter.
func RecordElectronsEarned(amount int) {
	if amount > 0 {
		globalManager.electronsEarned.Add(float64(amount))
	}
}

// RecordElectronsSpent adds to the spent-electron counter.
func RecordElectronsSpent(amount int) {
	if amount > 0 {
		globalManager.electronsSpent.Add(float64(amount))
	}
}

// RecordOverdraftRefused increments the refused-spend counter.
func RecordOverdraftRefused() {
	globalManager.overdraftRefused.Inc()
}

// RecordElementAdvance increments the element-advance counter.
func RecordElementAdvance() {
	globalManager.elementAdvances.Inc()
}

// RecordPeriodCompletion increments the period-completion counter.
func RecordPeriodCompletion() {
	globalManager.periodCompletions.Inc()
}

// RecordGameModeUnlock increments the game-mode-unlock counter.
func RecordGameModeUnlock() {
	globalManager.gameModeUnlocks.Inc()
}

// RecordAchievementGrant increments the achievement-grant counter.
func RecordAchievementGrant() {
	globalManager.achievementGrants.Inc()
}

// RecordProfileLoad increments the profile-load counter.
func RecordProfileLoad() {
	globalManager.profileLoads.Inc()
}

// RecordProfileLoadFailure increments the load-fallback counter.
func RecordProfileLoadFailure() {
	globalManager.profileLoadFailures.Inc()
}

// RecordProfileSave increments the successful-save counter.
func RecordProfileSave() {
	globalManager.profileSaves.Inc()
}

// RecordProfileSaveFailure increments the failed-save counter.
func RecordProfileSaveFailure() {
	globalManager.profileSaveFailures.Inc()
}

// RecordProfileReset increments the reset counter.
func RecordProfileReset() {
	globalManager.profileResets.Inc()
}

// RecordSchemaMigration increments the migration counter.
func RecordSchemaMigration() {
	globalManager.schemaMigrations.Inc()
}

// RecordStorageError increments the storage-error counter for an operation.
func RecordStorageError(operation string) {
	globalManager.storageErrors.WithLabelValues(operation).Inc()
}

// RecordTransitionCreated increments the created-transition counter.
func RecordTransitionCreated() {
	globalManager.transitionsCreated.Inc()
}

// RecordTransitionCompleted increments the completed-transition counter.
func RecordTransitionCompleted() {
	globalManager.transitionsCompleted.Inc()
}

// UpdateActiveTransitions sets the active-transition gauge.
func UpdateActiveTransitions(count int) {
	globalManager.activeTransitions.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry for exposition handlers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
