// Package entity provides core domain entities.
package entity

import (
	"time"

	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
)

// MovementType identifies the business operation that produced a ledger entry.
type MovementType string

const (
	// MovementImport brings stock into a warehouse (supplier delivery, returns)
	MovementImport MovementType = "import"
	// MovementExport removes stock from a warehouse (consumption, write-off)
	MovementExport MovementType = "export"
	// MovementTransfer moves stock between two warehouses atomically
	MovementTransfer MovementType = "transfer"
	// MovementStocktake corrects on-hand to a counted quantity
	MovementStocktake MovementType = "stocktake"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementImport, MovementExport, MovementTransfer, MovementStocktake:
		return true
	}
	return false
}

// Direction defines how an entry affects the balance of its warehouse.
type Direction string

const (
	// DirectionReceipt increases on-hand
	DirectionReceipt Direction = "receipt"
	// DirectionExpense decreases on-hand
	DirectionExpense Direction = "expense"
)

// LedgerEntry is one immutable line in the inventory ledger.
// Entries are never updated or deleted; corrections are new entries.
// A transfer is a single entry touching two warehouses.
type LedgerEntry struct {
	// ID is unique identifier for this entry (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// TenantID scopes the entry in the shared schema
	TenantID id.ID `db:"tenant_id" json:"-"`

	// DocumentNo groups the lines of one movement document
	DocumentNo string `db:"document_no" json:"documentNo"`

	// MovementType is the operation that produced the entry
	MovementType MovementType `db:"movement_type" json:"movementType"`

	// Direction: receipt or expense relative to WarehouseID.
	// For transfers the direction is expense at WarehouseID and
	// receipt at DestWarehouseID.
	Direction Direction `db:"direction" json:"direction"`

	// Dimensions
	WarehouseID     id.ID  `db:"warehouse_id" json:"warehouseId"`
	DestWarehouseID *id.ID `db:"dest_warehouse_id" json:"destWarehouseId,omitempty"`
	ProductID       id.ID  `db:"product_id" json:"productId"`

	// Quantity is the movement magnitude, always positive
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the optional per-unit cost recorded on imports
	UnitCost *types.Money `db:"unit_cost" json:"unitCost,omitempty"`

	// Reason is the optional free-form justification (exports, stocktakes)
	Reason string `db:"reason" json:"reason,omitempty"`

	// WorkOrderRef links an export to the work order that consumed the stock
	WorkOrderRef string `db:"work_order_ref" json:"workOrderRef,omitempty"`

	// SourceRef links an import to its origin (purchase order, return)
	SourceRef string `db:"source_ref" json:"sourceRef,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
}

// SignedQuantity returns quantity with sign based on direction.
// Receipt = positive, Expense = negative.
func (e *LedgerEntry) SignedQuantity() types.Quantity {
	if e.Direction == DirectionExpense {
		return e.Quantity.Neg()
	}
	return e.Quantity
}

// SignedQuantityFor returns the quantity effect of the entry on the given
// warehouse. Transfers contribute negatively at the source and positively
// at the destination; entries for other warehouses contribute zero.
func (e *LedgerEntry) SignedQuantityFor(warehouseID id.ID) types.Quantity {
	if e.MovementType == MovementTransfer {
		switch {
		case e.WarehouseID == warehouseID:
			return e.Quantity.Neg()
		case e.DestWarehouseID != nil && *e.DestWarehouseID == warehouseID:
			return e.Quantity
		default:
			return 0
		}
	}
	if e.WarehouseID != warehouseID {
		return 0
	}
	return e.SignedQuantity()
}

// StockBalance is the materialized per-warehouse, per-product balance.
// It must reconcile with the sum of signed ledger quantities at all times.
type StockBalance struct {
	// Dimensions
	TenantID    id.ID `db:"tenant_id" json:"-"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ProductID   id.ID `db:"product_id" json:"productId"`

	// Resources
	OnHand   types.Quantity `db:"on_hand" json:"onHand"`
	Reserved types.Quantity `db:"reserved" json:"reserved"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Available is the quantity free for outgoing movements.
// Reservations are held against it even though they are still on hand.
func (b *StockBalance) Available() types.Quantity {
	return b.OnHand - b.Reserved
}
