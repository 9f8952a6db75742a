package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/villagiolabs/villagio/internal/audit/domain"
)

// ListAuditLogs handles GET /api/audit-logs
func (s *Server) ListAuditLogs(c *gin.Context) {
	req := auditdomain.ListRequest{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Action:     c.Query("action"),
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			AbortWithError(c, errInvalidRequest)
			return
		}
		req.Limit = n
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

	logs, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, logs, nil)
}

// ExportAuditLogs handles GET /api/audit-logs/export
//
// Streams a snappy-compressed JSON dump of the window. The checksum of
// the uncompressed payload rides in a response header so consumers can
// verify what they decompress.
func (s *Server) ExportAuditLogs(c *gin.Context) {
	fromStr := strings.TrimSpace(c.Query("from"))
	toStr := strings.TrimSpace(c.Query("to"))
	if fromStr == "" || toStr == "" {
		AbortWithError(c, errInvalidRequest)
		return
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		AbortWithError(c, errInvalidRequest)
		return
	}
	// The end date is inclusive on day granularity.
	to = to.Add(24 * time.Hour)

	result, err := s.auditSvc.Export(c.Request.Context(), auditdomain.ExportRequest{
		From: from,
		To:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := "audit_export_" + fromStr + "_" + toStr + ".json.snappy"
	c.Header("X-Audit-Export-Checksum", result.Checksum)
	c.Header("X-Audit-Export-Count", strconv.Itoa(result.Count))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, "application/octet-stream", result.Data)
}
