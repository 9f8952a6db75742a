package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/villagiolabs/villagio/internal/accessscope"
	apikeydomain "github.com/villagiolabs/villagio/internal/apikey/domain"
)

const contextAPIKeyKey = "api_key"

// APIKeyRequired authenticates the request from a bearer API key and
// stashes the key record for downstream scope and role checks.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		raw := parts[1]

		key, err := s.apiKeySvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if err := s.allowRate(c, key); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextAPIKeyKey, key)
		c.Next()
	}
}

// allowRate applies a fixed per-second window in redis keyed by the
// API key ID. A redis outage fails open so auth availability does not
// depend on the limiter.
func (s *Server) allowRate(c *gin.Context, key *apikeydomain.APIKey) error {
	limit := s.cfg.Auth.RateLimitRPS + s.cfg.Auth.RateLimitBurst
	if limit <= 0 {
		return nil
	}

	now := s.clock.Now(c.Request.Context())
	bucket := fmt.Sprintf("ratelimit:%s:%d", key.ID, now.Unix())

	count, err := s.redis.Incr(c.Request.Context(), bucket).Result()
	if err != nil {
		s.log.Warn("rate limiter unavailable", zap.Error(err))
		return nil
	}
	if count == 1 {
		s.redis.Expire(c.Request.Context(), bucket, 2*time.Second)
	}
	if count > int64(limit) {
		return ErrRateLimited
	}
	return nil
}

// Authorize enforces the role policy for the authenticated key.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := s.apiKeyFromContext(c)
		if key == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ok, err := s.enforcer.Enforce(string(key.Role), c.Request.URL.Path, c.Request.Method)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !ok {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) apiKeyFromContext(c *gin.Context) *apikeydomain.APIKey {
	value, ok := c.Get(contextAPIKeyKey)
	if !ok {
		return nil
	}
	key, ok := value.(*apikeydomain.APIKey)
	if !ok {
		return nil
	}
	return key
}

// scopeFromContext maps the authenticated key onto the portfolio slice
// it may read.
func (s *Server) scopeFromContext(c *gin.Context) (accessscope.Scope, error) {
	key := s.apiKeyFromContext(c)
	if key == nil {
		return accessscope.Scope{}, ErrUnauthorized
	}
	return apikeydomain.ScopeFor(key)
}
