package product

import (
	"context"

	"fieldops/internal/core/id"
)

// ListFilter contains filtering options for product lists.
type ListFilter struct {
	// Search matches against code, name and SKU
	Search string

	// Kind filters by item category
	Kind *Kind

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

// ListResult contains paginated products.
type ListResult struct {
	Items      []*Product `json:"items"`
	TotalCount int64      `json:"totalCount"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error

	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	GetByCode(ctx context.Context, code string) (*Product, error)

	// GetMany returns the products found for the given IDs.
	// Missing IDs are simply absent from the result.
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)

	// Update modifies existing product (with optimistic locking)
	Update(ctx context.Context, p *Product) error

	// Delete performs a soft delete (state = deleted)
	Delete(ctx context.Context, productID id.ID) error

	List(ctx context.Context, f ListFilter) (ListResult, error)

	ExistsByCode(ctx context.Context, code string) (bool, error)
}
