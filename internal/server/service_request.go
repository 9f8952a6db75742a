package server

import (
	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/servicerequest/domain"
)

// CreateServiceRequest handles POST /api/service-requests
func (s *Server) CreateServiceRequest(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	request, err := s.serviceRequestSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, request)
}

// ListServiceRequests handles GET /api/service-requests
func (s *Server) ListServiceRequests(c *gin.Context) {
	requests, err := s.serviceRequestSvc.List(c.Request.Context(), domain.ListRequest{
		ApartmentID: c.Query("apartment_id"),
		Status:      c.Query("status"),
		WhoPays:     c.Query("who_pays"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, requests, nil)
}

// GetServiceRequest handles GET /api/service-requests/:id
func (s *Server) GetServiceRequest(c *gin.Context) {
	request, err := s.serviceRequestSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, request)
}

// UpdateServiceRequest handles PATCH /api/service-requests/:id
func (s *Server) UpdateServiceRequest(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	request, err := s.serviceRequestSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, request)
}

// DeleteServiceRequest handles DELETE /api/service-requests/:id
func (s *Server) DeleteServiceRequest(c *gin.Context) {
	if err := s.serviceRequestSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}
