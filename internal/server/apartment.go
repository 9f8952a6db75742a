package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/apartment/domain"
	billingdomain "github.com/villagiolabs/villagio/internal/billing/domain"
)

// CreateApartment handles POST /api/apartments
func (s *Server) CreateApartment(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	apartment, err := s.apartmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, apartment)
}

// ListApartments handles GET /api/apartments
func (s *Server) ListApartments(c *gin.Context) {
	pageSize := 0
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			AbortWithError(c, errInvalidRequest)
			return
		}
		pageSize = n
	}

	resp, err := s.apartmentSvc.List(c.Request.Context(), domain.ListRequest{
		VillageID:    c.Query("village_id"),
		OwnerID:      c.Query("owner_id"),
		PayingStatus: c.Query("paying_status"),
		PageToken:    c.Query("page_token"),
		PageSize:     int32(pageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Apartments, &resp.PageInfo)
}

// GetApartment handles GET /api/apartments/:id
func (s *Server) GetApartment(c *gin.Context) {
	apartment, err := s.apartmentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, apartment)
}

// UpdateApartment handles PATCH /api/apartments/:id
func (s *Server) UpdateApartment(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	apartment, err := s.apartmentSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, apartment)
}

// DeleteApartment handles DELETE /api/apartments/:id
func (s *Server) DeleteApartment(c *gin.Context) {
	if err := s.apartmentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}

// GetApartmentFinancialSummary handles GET /api/apartments/:id/financial-summary
func (s *Server) GetApartmentFinancialSummary(c *gin.Context) {
	opts := billingdomain.SummarizeOptions{
		IncludeUtilities: c.Query("include_utilities") == "true",
	}

	summary, err := s.billingSvc.Summarize(c.Request.Context(), c.Param("id"), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}
