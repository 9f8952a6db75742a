package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/payment/domain"
)

// CreatePayment handles POST /api/payments
func (s *Server) CreatePayment(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, payment)
}

// ListPayments handles GET /api/payments
func (s *Server) ListPayments(c *gin.Context) {
	req := domain.ListRequest{
		ApartmentID: c.Query("apartment_id"),
		UserType:    c.Query("user_type"),
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

	payments, err := s.paymentSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, payments, nil)
}

// GetPayment handles GET /api/payments/:id
func (s *Server) GetPayment(c *gin.Context) {
	payment, err := s.paymentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, payment)
}

// DeletePayment handles DELETE /api/payments/:id
func (s *Server) DeletePayment(c *gin.Context) {
	if err := s.paymentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}

type createPaymentMethodRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatePaymentMethod handles POST /api/payment-methods
func (s *Server) CreatePaymentMethod(c *gin.Context) {
	var req createPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}

	method, err := s.paymentSvc.CreateMethod(c.Request.Context(), req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, method)
}

// ListPaymentMethods handles GET /api/payment-methods
func (s *Server) ListPaymentMethods(c *gin.Context) {
	methods, err := s.paymentSvc.ListMethods(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, methods, nil)
}

// DeletePaymentMethod handles DELETE /api/payment-methods/:id
func (s *Server) DeletePaymentMethod(c *gin.Context) {
	if err := s.paymentSvc.DeleteMethod(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"status": "ok"})
}

// parseDateQuery reads an optional RFC 3339 or date-only query param.
// On a malformed value it aborts the request and reports false.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	AbortWithError(c, errInvalidRequest)
	return nil, false
}
