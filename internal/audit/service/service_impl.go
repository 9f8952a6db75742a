package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/snappy"
	"github.com/villagiolabs/villagio/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
	}
}

// Record appends one audit row. Failures are returned to the caller but
// the caller decides whether they abort the request; the write path
// never blocks on anything except the insert itself.
func (s *Service) Record(ctx context.Context, entry domain.Entry) error {
	row := domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  entry.ActorType,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		RequestID:  entry.RequestID,
	}
	if entry.Detail != nil {
		detail, err := json.Marshal(entry.Detail)
		if err != nil {
			return err
		}
		row.Detail = datatypes.JSON(detail)
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	query := s.db.WithContext(ctx).Model(&domain.AuditLog{})
	if v := strings.TrimSpace(req.EntityType); v != "" {
		query = query.Where("entity_type = ?", v)
	}
	if v := strings.TrimSpace(req.EntityID); v != "" {
		query = query.Where("entity_id = ?", v)
	}
	if v := strings.TrimSpace(req.Action); v != "" {
		query = query.Where("action = ?", v)
	}
	if req.From != nil {
		query = query.Where("created_at >= ?", *req.From)
	}
	if req.To != nil {
		query = query.Where("created_at < ?", *req.To)
	}
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows []domain.AuditLog
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	return out, nil
}

// Export dumps the window as JSON, compresses it with snappy and
// checksums the uncompressed bytes so a consumer can verify integrity
// after decompression.
func (s *Service) Export(ctx context.Context, req domain.ExportRequest) (*domain.ExportResult, error) {
	if !req.To.After(req.From) {
		return nil, domain.ErrInvalidWindow
	}

	var rows []domain.AuditLog
	err := s.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Where("created_at >= ? AND created_at < ?", req.From, req.To).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.Response, 0, len(rows))
	for i := range rows {
		records = append(records, toResponse(&rows[i]))
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	checksum := sha256.Sum256(raw)
	return &domain.ExportResult{
		Data:     snappy.Encode(nil, raw),
		Checksum: hex.EncodeToString(checksum[:]),
		Count:    len(records),
	}, nil
}

func (s *Service) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at < ?", olderThan).
		Delete(&domain.AuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.log.Info("audit logs pruned",
			zap.Int64("deleted", result.RowsAffected),
			zap.Time("cutoff", olderThan),
		)
	}
	return result.RowsAffected, nil
}

func toResponse(row *domain.AuditLog) domain.Response {
	resp := domain.Response{
		ID:         row.ID.String(),
		ActorType:  row.ActorType,
		ActorID:    row.ActorID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		RequestID:  row.RequestID,
		CreatedAt:  row.CreatedAt,
	}
	if len(row.Detail) > 0 {
		var detail any
		if err := json.Unmarshal(row.Detail, &detail); err == nil {
			resp.Detail = detail
		}
	}
	return resp
}
