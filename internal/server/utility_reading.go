package server

import (
	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/utility/domain"
)

// CreateUtilityReading handles POST /api/utility-readings
func (s *Server) CreateUtilityReading(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	reading, err := s.utilitySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, reading)
}

// ListUtilityReadings handles GET /api/utility-readings
func (s *Server) ListUtilityReadings(c *gin.Context) {
	req := domain.ListRequest{
		ApartmentID: c.Query("apartment_id"),
		WhoPays:     c.Query("who_pays"),
	}

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	req.From = from
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	req.To = to

	readings, err := s.utilitySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, readings, nil)
}

// GetUtilityReading handles GET /api/utility-readings/:id
func (s *Server) GetUtilityReading(c *gin.Context) {
	reading, err := s.utilitySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, reading)
}

// DeleteUtilityReading handles DELETE /api/utility-readings/:id
func (s *Server) DeleteUtilityReading(c *gin.Context) {
	if err := s.utilitySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}

// CheckUtilityConsistency handles GET /api/utility-readings-consistency
func (s *Server) CheckUtilityConsistency(c *gin.Context) {
	inconsistencies, err := s.utilitySvc.CheckConsistency(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{
		"inconsistencies": inconsistencies,
		"count":           len(inconsistencies),
	})
}
