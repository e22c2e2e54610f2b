package shared

import (
	"context"
	"time"
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// MutexStore provides a distributed mutual-exclusion primitive.
// Used to guard operations that must happen exactly once across
// concurrently running schedulers (e.g. SLA escalation sweeps).
type MutexStore interface {
	// Acquire attempts to take the named lock for ttl.
	// Returns true if this caller obtained it, false if another holder exists.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees the named lock.
	Release(ctx context.Context, key string) error
}
