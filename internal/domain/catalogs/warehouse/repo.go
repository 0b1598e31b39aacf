package warehouse

import (
	"context"

	"fieldops/internal/core/id"
)

// ListFilter contains filtering options for warehouse lists.
type ListFilter struct {
	// Search matches against code and name
	Search string

	// Type filters by location category
	Type *Type

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult contains paginated warehouses.
type ListResult struct {
	Items      []*Warehouse `json:"items"`
	TotalCount int64        `json:"totalCount"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	Create(ctx context.Context, wh *Warehouse) error

	GetByID(ctx context.Context, whID id.ID) (*Warehouse, error)

	GetByCode(ctx context.Context, code string) (*Warehouse, error)

	// GetMany returns the warehouses found for the given IDs.
	// Missing IDs are simply absent from the result.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Warehouse, error)

	// Update modifies existing warehouse (with optimistic locking)
	Update(ctx context.Context, wh *Warehouse) error

	// Delete performs a soft delete (state = deleted)
	Delete(ctx context.Context, whID id.ID) error

	List(ctx context.Context, f ListFilter) (ListResult, error)

	ExistsByCode(ctx context.Context, code string) (bool, error)
}
