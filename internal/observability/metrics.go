package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plusnine_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthAttempts counts authentication attempts by operation and outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_auth_attempts_total",
		Help: "Total authentication attempts by operation and outcome",
	}, []string{"operation", "outcome"})

	// TokenRefreshes counts refresh token rotations by outcome.
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_token_refreshes_total",
		Help: "Total refresh token rotations by outcome",
	}, []string{"outcome"})

	// FriendRequestTransitions counts friend request state transitions.
	FriendRequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_friend_request_transitions_total",
		Help: "Total friend request transitions by target state",
	}, []string{"state"})

	// EventsPublished counts realtime events published by type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_events_published_total",
		Help: "Total realtime events published by type",
	}, []string{"event_type"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plusnine_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// WebhookEvents counts payment webhook deliveries by event type and outcome.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plusnine_webhook_events_total",
		Help: "Total payment webhook deliveries by event type and outcome",
	}, []string{"event_type", "outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordAuthAttempt increments the auth attempt counter.
func RecordAuthAttempt(operation string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	AuthAttempts.WithLabelValues(operation, outcome).Inc()
}

// RecordTokenRefresh increments the token refresh counter.
func RecordTokenRefresh(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	TokenRefreshes.WithLabelValues(outcome).Inc()
}
