package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics holds request counters for the process.
// Thread-safe via atomics and mutex.
type Metrics struct {
	totalRequests  atomic.Int64
	activeRequests atomic.Int64
	totalErrors    atomic.Int64
	totalLatencyMs atomic.Int64
	maxLatencyMs   atomic.Int64
	startTime      time.Time
	now            func() time.Time

	mu                sync.Mutex
	endpointCounts    map[string]int64
	endpointLatencies map[string]int64 // total ms per route
	statusCodes       map[int]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:         time.Now(),
		now:               time.Now,
		endpointCounts:    make(map[string]int64),
		endpointLatencies: make(map[string]int64),
		statusCodes:       make(map[int]int64),
	}
}

// Middleware tracks request count, latency, in-flight requests and error
// rates. It must sit outside the request logger so the status it reads is
// the one written by the error handler.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Add(1)
			start := m.now()

			err := next(c)

			latencyMs := m.now().Sub(start).Milliseconds()
			m.activeRequests.Add(-1)
			m.totalRequests.Add(1)
			m.totalLatencyMs.Add(latencyMs)

			// lock-free max
			for {
				current := m.maxLatencyMs.Load()
				if latencyMs <= current || m.maxLatencyMs.CompareAndSwap(current, latencyMs) {
					break
				}
			}

			statusCode := c.Response().Status
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			endpoint := c.Request().Method + " " + path

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.endpointLatencies[endpoint] += latencyMs
			m.statusCodes[statusCode]++
			m.mu.Unlock()

			if statusCode >= http.StatusBadRequest {
				m.totalErrors.Add(1)
			}

			return err
		}
	}
}

// MetricsSnapshot is a point-in-time view of the counters
type MetricsSnapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	ErrorRate      float64          `json:"error_rate_pct"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	RequestsPerSec float64          `json:"requests_per_sec"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	total := m.totalRequests.Load()
	errCount := m.totalErrors.Load()
	uptime := m.now().Sub(m.startTime).Seconds()

	s := MetricsSnapshot{
		TotalRequests:  total,
		ActiveRequests: m.activeRequests.Load(),
		TotalErrors:    errCount,
		MaxLatencyMs:   m.maxLatencyMs.Load(),
		UptimeSeconds:  uptime,
	}
	if total > 0 {
		s.AvgLatencyMs = float64(m.totalLatencyMs.Load()) / float64(total)
		s.ErrorRate = float64(errCount) / float64(total) * 100
	}
	if uptime > 0 {
		s.RequestsPerSec = float64(total) / uptime
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.EndpointCounts = make(map[string]int64, len(m.endpointCounts))
	s.EndpointAvgMs = make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		s.EndpointCounts[k] = v
		if v > 0 {
			s.EndpointAvgMs[k] = m.endpointLatencies[k] / v
		}
	}
	s.StatusCodes = make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		s.StatusCodes[k] = v
	}

	return s
}

func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}
