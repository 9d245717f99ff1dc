package metrics

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

const namespace = "gyandeep"

// Metrics groups every collector the service exports.
type Metrics struct {
	SessionsStarted   *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	SessionsActive    prometheus.Gauge
	SessionScore      prometheus.Histogram

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	LLMRequests   *prometheus.CounterVec
	RedisCommands *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "sessions_started_total",
			Help:      "Quiz sessions started, by category.",
		}, []string{"category"}),
		SessionsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "sessions_completed_total",
			Help:      "Quiz sessions that produced a result, by category and submission kind.",
		}, []string{"category", "auto_submitted"}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "sessions_active",
			Help:      "Quiz sessions currently running.",
		}),
		SessionScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "session_accuracy_percent",
			Help:      "Accuracy of completed sessions.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		LLMRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "LLM calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		RedisCommands: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "commands_total",
			Help:      "Redis commands by name and outcome.",
		}, []string{"command", "outcome"}),
	}
}

func (m *Metrics) ObserveHTTP(method, route string, status int, took time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func (m *Metrics) SessionStarted(category string) {
	m.SessionsStarted.WithLabelValues(category).Inc()
	m.SessionsActive.Inc()
}

// SessionEnded records a terminated session; accuracy is negative for exits without a result.
func (m *Metrics) SessionEnded(category string, autoSubmitted bool, accuracy int) {
	m.SessionsActive.Dec()
	if accuracy < 0 {
		return
	}
	m.SessionsCompleted.WithLabelValues(category, strconv.FormatBool(autoSubmitted)).Inc()
	m.SessionScore.Observe(float64(accuracy))
}

func (m *Metrics) LLMCall(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.LLMRequests.WithLabelValues(operation, outcome).Inc()
}

// RedisHook returns a go-redis hook that counts commands.
func (m *Metrics) RedisHook() redis.Hook {
	return redisHook{m: m}
}

type redisHook struct {
	m *Metrics
}

func (h redisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h redisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		h.m.RedisCommands.WithLabelValues(cmd.Name(), redisOutcome(err)).Inc()
		return err
	}
}

func (h redisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		for _, cmd := range cmds {
			h.m.RedisCommands.WithLabelValues(cmd.Name(), redisOutcome(cmd.Err())).Inc()
		}
		return err
	}
}

func redisOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, redis.Nil):
		return "miss"
	default:
		return "error"
	}
}
