// Package pagination implements opaque cursor pagination shared by list
// endpoints.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

// Cursor is the decoded page token. CreatedAt keeps ordering stable when
// rows share a timestamp and IDs break the tie.
type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

func EncodeCursor(c Cursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	return c, nil
}

// BuildCursorPageInfo inspects an over-fetched result set (repositories
// fetch pageSize+1 rows) and produces the page info for the visible page.
func BuildCursorPageInfo[T any](items []T, pageSize int32, token func(T) string) *PageInfo {
	info := &PageInfo{}
	if pageSize <= 0 {
		return info
	}
	if len(items) > int(pageSize) {
		info.HasMore = true
		info.NextPageToken = token(items[pageSize-1])
	}
	return info
}
