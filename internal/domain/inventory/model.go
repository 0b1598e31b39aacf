// Package inventory provides the warehouse inventory ledger.
// Every stock change flows through one of four movement operations
// (import, export, transfer, stocktake), each producing immutable
// ledger entries and updating materialized balances atomically.
package inventory

import (
	"time"

	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
)

// MovementLine is one product line of a movement request.
type MovementLine struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`

	// UnitCost is recorded on imports only
	UnitCost *types.Money `json:"unitCost,omitempty"`
}

// ImportRequest brings stock into a warehouse.
type ImportRequest struct {
	WarehouseID id.ID          `json:"warehouseId"`
	Lines       []MovementLine `json:"lines"`

	// Reason is the free-form justification (delivery, found surplus)
	Reason string `json:"reason,omitempty"`

	// SourceRef links to the origin document (purchase order, return)
	SourceRef string `json:"sourceRef,omitempty"`
}

// ExportRequest removes stock from a warehouse.
type ExportRequest struct {
	WarehouseID id.ID          `json:"warehouseId"`
	Lines       []MovementLine `json:"lines"`

	// Reason is the free-form justification (write-off, damage)
	Reason string `json:"reason,omitempty"`

	// WorkOrderRef links consumption to a work order. When set, the
	// export draws from that order's reservation before free stock.
	WorkOrderRef string `json:"workOrderRef,omitempty"`
}

// TransferRequest moves stock between two warehouses atomically.
type TransferRequest struct {
	SourceWarehouseID id.ID          `json:"sourceWarehouseId"`
	DestWarehouseID   id.ID          `json:"destWarehouseId"`
	Lines             []MovementLine `json:"lines"`

	// Reason is the free-form justification (restocking a vehicle)
	Reason string `json:"reason,omitempty"`
}

// StocktakeLine is one counted product of a stocktake.
type StocktakeLine struct {
	ProductID  id.ID          `json:"productId"`
	CountedQty types.Quantity `json:"countedQty"`
}

// StocktakeRequest corrects on-hand quantities to physically counted ones.
// Lines whose count matches the current balance produce no ledger entry.
type StocktakeRequest struct {
	WarehouseID id.ID           `json:"warehouseId"`
	Lines       []StocktakeLine `json:"lines"`
	Reason      string          `json:"reason,omitempty"`
}

// ReservationRequest holds or releases stock for a work order.
type ReservationRequest struct {
	WarehouseID  id.ID          `json:"warehouseId"`
	ProductID    id.ID          `json:"productId"`
	Quantity     types.Quantity `json:"quantity"`
	WorkOrderRef string         `json:"workOrderRef,omitempty"`
}

// MovementDocument is the result of a posted movement: the generated
// document number plus every ledger entry it produced.
type MovementDocument struct {
	DocumentNo   string               `json:"documentNo"`
	MovementType entity.MovementType  `json:"movementType"`
	Entries      []entity.LedgerEntry `json:"entries"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ProductAvailability is the across-warehouse view for one product.
type ProductAvailability struct {
	ProductID      id.ID                 `json:"productId"`
	Balances       []entity.StockBalance `json:"balances"`
	TotalOnHand    types.Quantity        `json:"totalOnHand"`
	TotalReserved  types.Quantity        `json:"totalReserved"`
	TotalAvailable types.Quantity        `json:"totalAvailable"`
}

// LowStockItem is one balance at or below its product's threshold.
type LowStockItem struct {
	WarehouseID id.ID          `json:"warehouseId"`
	ProductID   id.ID          `json:"productId"`
	OnHand      types.Quantity `json:"onHand"`
	Threshold   types.Quantity `json:"threshold"`
}

// Stats is the warehouse statistics summary.
type Stats struct {
	// DistinctProducts counts products with a non-zero balance
	DistinctProducts int64 `json:"distinctProducts"`

	// TotalOnHand sums on-hand quantities over all matched balances
	TotalOnHand types.Quantity `json:"totalOnHand"`

	// TotalReserved sums reservations over all matched balances
	TotalReserved types.Quantity `json:"totalReserved"`

	// MovementsToday counts ledger entries created since midnight UTC
	MovementsToday int64 `json:"movementsToday"`

	// Warehouses counts warehouses holding at least one balance row
	Warehouses int64 `json:"warehouses"`

	LowStock []LowStockItem `json:"lowStock"`
}
