package domain

import (
	"context"
	"errors"
	"time"
)

type Entry struct {
	ActorType  ActorType
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Detail     any
	RequestID  string
}

type ListRequest struct {
	EntityType string
	EntityID   string
	Action     string
	From       *time.Time
	To         *time.Time
	Limit      int
}

type Response struct {
	ID         string    `json:"id"`
	ActorType  ActorType `json:"actor_type"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Detail     any       `json:"detail,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ExportRequest struct {
	From time.Time
	To   time.Time
}

// ExportResult is a snappy-compressed JSON dump of the window with a
// checksum of the uncompressed bytes for integrity verification.
type ExportResult struct {
	Data     []byte `json:"-"`
	Checksum string `json:"checksum"`
	Count    int    `json:"count"`
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)

	// Prune deletes rows older than the cutoff and reports how many went.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

var ErrInvalidWindow = errors.New("invalid_window")
