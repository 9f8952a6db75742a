package server

import (
	"crypto/rand"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	auditdomain "github.com/villagiolabs/villagio/internal/audit/domain"
)

const (
	headerRequestID     = "X-Request-Id"
	contextRequestIDKey = "request_id"
)

// RequestID tags every request with a ulid, honoring one supplied by
// the caller.
func (s *Server) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func (s *Server) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info("http request",
			zap.String("request_id", c.GetString(contextRequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg *prometheus.Registry) *httpMetrics {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "villagio_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "villagio_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (s *Server) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.httpMetrics.requests.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		s.httpMetrics.duration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// AuditTrail records every successful mutation under the acting key.
// Reads are not audited.
func (s *Server) AuditTrail() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case "POST", "PUT", "PATCH", "DELETE":
		default:
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		actorID := ""
		if key := s.apiKeyFromContext(c); key != nil {
			actorID = key.ID.String()
		}

		entry := auditdomain.Entry{
			ActorType:  auditdomain.ActorTypeAPIKey,
			ActorID:    actorID,
			Action:     c.Request.Method + " " + c.FullPath(),
			EntityType: c.FullPath(),
			EntityID:   c.Param("id"),
			RequestID:  c.GetString(contextRequestIDKey),
		}
		if err := s.auditSvc.Record(c.Request.Context(), entry); err != nil {
			s.log.Warn("audit record failed", zap.Error(err))
		}
	}
}
