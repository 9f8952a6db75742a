package server

import (
	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/booking/domain"
)

// CreateBooking handles POST /api/bookings
func (s *Server) CreateBooking(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	booking, err := s.bookingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, booking)
}

// ListBookings handles GET /api/bookings
func (s *Server) ListBookings(c *gin.Context) {
	bookings, err := s.bookingSvc.List(c.Request.Context(), domain.ListRequest{
		ApartmentID: c.Query("apartment_id"),
		UserID:      c.Query("user_id"),
		Status:      c.Query("status"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, bookings, nil)
}

// GetBooking handles GET /api/bookings/:id
func (s *Server) GetBooking(c *gin.Context) {
	booking, err := s.bookingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, booking)
}

// UpdateBooking handles PATCH /api/bookings/:id
func (s *Server) UpdateBooking(c *gin.Context) {
	var req domain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	req.ID = c.Param("id")

	booking, err := s.bookingSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, booking)
}

// DeleteBooking handles DELETE /api/bookings/:id
func (s *Server) DeleteBooking(c *gin.Context) {
	if err := s.bookingSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}
