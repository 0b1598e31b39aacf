package inventory

import (
	"context"
	"time"

	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
)

// LedgerFilter selects ledger entries for the stock card and history views.
type LedgerFilter struct {
	WarehouseID  *id.ID
	ProductID    *id.ID
	MovementType *entity.MovementType
	DocumentNo   *string
	FromDate     *time.Time
	ToDate       *time.Time

	// OrderBy defaults to "-created_at" (newest first)
	OrderBy string

	Limit  int
	Offset int
}

// LedgerResult contains a paginated page of ledger entries. When the
// filter pins down one warehouse and product, Balance carries the
// current snapshot so the page reads as a stock card.
type LedgerResult struct {
	Items      []entity.LedgerEntry `json:"items"`
	TotalCount int64                `json:"totalCount"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
	Balance    *entity.StockBalance `json:"balance,omitempty"`
}

// BalanceFilter selects materialized balances. Search and
// BelowThreshold match against the product catalog.
type BalanceFilter struct {
	WarehouseID *id.ID
	ProductIDs  []id.ID
	ExcludeZero bool

	// Search matches product name or SKU, case-insensitive.
	Search string

	// BelowThreshold keeps only balances at or under the product's
	// low-stock threshold (products with a threshold of zero never match).
	BelowThreshold bool

	Limit  int
	Offset int
}

// BalanceResult contains paginated balances.
type BalanceResult struct {
	Items      []entity.StockBalance `json:"items"`
	TotalCount int64                 `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}

// LedgerRepository persists immutable ledger entries.
type LedgerRepository interface {
	// CreateEntries batch inserts entries within the caller's transaction.
	CreateEntries(ctx context.Context, entries []entity.LedgerEntry) error

	// List retrieves entries with filtering and pagination.
	List(ctx context.Context, f LedgerFilter) (LedgerResult, error)

	// GetByDocumentNo retrieves all entries of one movement document.
	GetByDocumentNo(ctx context.Context, documentNo string) ([]entity.LedgerEntry, error)

	// CountSince counts entries created at or after the given time.
	CountSince(ctx context.Context, warehouseID *id.ID, since time.Time) (int64, error)
}

// BalanceRepository maintains the materialized per-warehouse balances.
// Credit, Debit, SetOnHand, Reserve and ReleaseReservation must run inside
// a transaction after GetForUpdate locked the row.
type BalanceRepository interface {
	// Get returns the balance, or a zero-value balance when no row exists.
	Get(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error)

	// GetForUpdate returns the balance with a row lock (SELECT ... FOR UPDATE).
	// A missing row is created as zero before locking so two first-movers
	// serialize on it.
	GetForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error)

	// Credit increases on-hand by qty (qty must be positive).
	Credit(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error

	// Debit decreases on-hand by qty. The UPDATE is conditional on the
	// resulting on-hand staying non-negative and fails otherwise, as the
	// second line of defense behind the locked availability check.
	Debit(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error

	// SetOnHand overwrites on-hand with the counted quantity (stocktake).
	SetOnHand(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error

	// Reserve increases the reservation by qty.
	Reserve(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error

	// ReleaseReservation decreases the reservation by qty, clamping at zero.
	ReleaseReservation(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error

	// List retrieves balances with filtering and pagination.
	List(ctx context.Context, f BalanceFilter) (BalanceResult, error)

	// ListByProduct returns balances across all warehouses for a product.
	ListByProduct(ctx context.Context, productID id.ID) ([]entity.StockBalance, error)

	// Stats aggregates balance statistics, optionally scoped to one warehouse.
	Stats(ctx context.Context, warehouseID *id.ID) (Stats, error)
}
