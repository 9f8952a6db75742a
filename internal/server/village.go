package server

import (
	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/village/domain"
)

// CreateVillage handles POST /api/villages
func (s *Server) CreateVillage(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	village, err := s.villageSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, village)
}

// ListVillages handles GET /api/villages
func (s *Server) ListVillages(c *gin.Context) {
	villages, err := s.villageSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, villages, nil)
}

// GetVillage handles GET /api/villages/:id
func (s *Server) GetVillage(c *gin.Context) {
	village, err := s.villageSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, village)
}

// UpdateVillage handles PATCH /api/villages/:id
func (s *Server) UpdateVillage(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	village, err := s.villageSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, village)
}

// DeleteVillage handles DELETE /api/villages/:id
func (s *Server) DeleteVillage(c *gin.Context) {
	if err := s.villageSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}
