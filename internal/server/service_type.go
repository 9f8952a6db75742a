package server

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/villagiolabs/villagio/internal/servicetype/domain"
)

// CreateServiceType handles POST /api/service-types
func (s *Server) CreateServiceType(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	serviceType, err := s.serviceTypeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, serviceType)
}

// ListServiceTypes handles GET /api/service-types
func (s *Server) ListServiceTypes(c *gin.Context) {
	serviceTypes, err := s.serviceTypeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, serviceTypes, nil)
}

// GetServiceType handles GET /api/service-types/:id
func (s *Server) GetServiceType(c *gin.Context) {
	serviceType, err := s.serviceTypeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, serviceType)
}

// DeleteServiceType handles DELETE /api/service-types/:id
func (s *Server) DeleteServiceType(c *gin.Context) {
	if err := s.serviceTypeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}

type setVillagePriceRequest struct {
	VillageID string          `json:"village_id" binding:"required"`
	Cost      decimal.Decimal `json:"cost"`
	Currency  string          `json:"currency" binding:"required"`
}

// SetServiceTypePrice handles PUT /api/service-types/:id/prices
func (s *Server) SetServiceTypePrice(c *gin.Context) {
	var req setVillagePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	price, err := s.serviceTypeSvc.SetVillagePrice(c.Request.Context(), domain.SetPriceRequest{
		ServiceTypeID: c.Param("id"),
		VillageID:     req.VillageID,
		Cost:          req.Cost,
		Currency:      req.Currency,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, price)
}

// ListServiceTypePrices handles GET /api/service-types/:id/prices
func (s *Server) ListServiceTypePrices(c *gin.Context) {
	prices, err := s.serviceTypeSvc.ListVillagePrices(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, prices, nil)
}
