package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/villagiolabs/villagio/internal/billing/domain"
)

// GetBillSummary handles GET /api/bills/summary
//
// Query params: village_id (comma separated), user_type, year,
// date_from, date_to, include_utilities. An explicit date window wins
// over year; with neither the current year is reported.
func (s *Server) GetBillSummary(c *gin.Context) {
	scope, err := s.scopeFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	req := domain.ReportRequest{
		PayerType:        c.Query("user_type"),
		IncludeUtilities: c.Query("include_utilities") == "true",
	}
	if raw := strings.TrimSpace(c.Query("village_id")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			req.VillageIDs = append(req.VillageIDs, strings.TrimSpace(id))
		}
	}

	year, ok := parseYearQuery(c)
	if !ok {
		return
	}
	req.Year = year

	from, ok := parseDateQuery(c, "date_from")
	if !ok {
		return
	}
	req.From = from
	to, ok := parseDateQuery(c, "date_to")
	if !ok {
		return
	}
	req.To = to

	report, err := s.billingSvc.Report(c.Request.Context(), scope, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, report)
}

// GetApartmentBills handles GET /api/bills/apartment/:id
func (s *Server) GetApartmentBills(c *gin.Context) {
	scope, err := s.scopeFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	req := domain.DetailRequest{ApartmentID: c.Param("id")}

	year, ok := parseYearQuery(c)
	if !ok {
		return
	}
	req.Year = year

	from, ok := parseDateQuery(c, "date_from")
	if !ok {
		return
	}
	req.From = from
	to, ok := parseDateQuery(c, "date_to")
	if !ok {
		return
	}
	req.To = to

	detail, err := s.billingSvc.ApartmentDetail(c.Request.Context(), scope, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, detail)
}

// GetPreviousYearsTotal handles GET /api/bills/previous-years
//
// Sums payments dated strictly before January 1 of before_year,
// defaulting to the current year.
func (s *Server) GetPreviousYearsTotal(c *gin.Context) {
	scope, err := s.scopeFromContext(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	beforeYear := s.clock.Now(c.Request.Context()).UTC().Year()
	if raw := strings.TrimSpace(c.Query("before_year")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, domain.ErrInvalidYear)
			return
		}
		beforeYear = n
	}

	totals, err := s.billingSvc.PreviousYearsTotal(c.Request.Context(), scope, beforeYear)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{
		"before_year":          beforeYear,
		"previous_years_total": totals,
	})
}

func parseYearQuery(c *gin.Context) (*int, bool) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		AbortWithError(c, domain.ErrInvalidYear)
		return nil, false
	}
	return &n, true
}
