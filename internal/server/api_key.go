package server

import (
	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/apikey/domain"
)

// CreateAPIKey handles POST /api/api-keys
func (s *Server) CreateAPIKey(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	created, err := s.apiKeySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, created)
}

// ListAPIKeys handles GET /api/api-keys
func (s *Server) ListAPIKeys(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		if key := s.apiKeyFromContext(c); key != nil {
			userID = key.UserID.String()
		}
	}

	keys, err := s.apiKeySvc.List(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, keys, nil)
}

// RevokeAPIKey handles DELETE /api/api-keys/:id
func (s *Server) RevokeAPIKey(c *gin.Context) {
	if err := s.apiKeySvc.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}
