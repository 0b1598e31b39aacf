package dto

import (
	"time"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/inventory"
)

// --- Request DTOs ---

// MovementLineRequest is one product line of a movement.
type MovementLineRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	Quantity  float64  `json:"quantity" binding:"required"`
	UnitCost  *float64 `json:"unitCost"`
}

func (l MovementLineRequest) toLine() (inventory.MovementLine, error) {
	productID, err := id.Parse(l.ProductID)
	if err != nil {
		return inventory.MovementLine{}, apperror.NewValidation("invalid productId").
			WithDetail("productId", l.ProductID)
	}

	line := inventory.MovementLine{
		ProductID: productID,
		Quantity:  types.NewQuantityFromFloat64(l.Quantity),
	}
	if l.UnitCost != nil {
		cost := types.NewMoney(*l.UnitCost)
		line.UnitCost = &cost
	}
	return line, nil
}

func toLines(reqLines []MovementLineRequest) ([]inventory.MovementLine, error) {
	lines := make([]inventory.MovementLine, 0, len(reqLines))
	for _, l := range reqLines {
		line, err := l.toLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ImportRequest brings stock into a warehouse.
type ImportRequest struct {
	WarehouseID string                `json:"warehouseId" binding:"required"`
	Lines       []MovementLineRequest `json:"lines" binding:"required"`
	Reason      string                `json:"reason"`
	SourceRef   string                `json:"sourceRef"`
}

// ToRequest converts the DTO to a domain request.
func (r ImportRequest) ToRequest() (inventory.ImportRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return inventory.ImportRequest{}, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", r.WarehouseID)
	}
	lines, err := toLines(r.Lines)
	if err != nil {
		return inventory.ImportRequest{}, err
	}
	return inventory.ImportRequest{
		WarehouseID: warehouseID,
		Lines:       lines,
		Reason:      r.Reason,
		SourceRef:   r.SourceRef,
	}, nil
}

// ExportRequest removes stock from a warehouse.
type ExportRequest struct {
	WarehouseID  string                `json:"warehouseId" binding:"required"`
	Lines        []MovementLineRequest `json:"lines" binding:"required"`
	Reason       string                `json:"reason"`
	WorkOrderRef string                `json:"workOrderRef"`
}

// ToRequest converts the DTO to a domain request.
func (r ExportRequest) ToRequest() (inventory.ExportRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return inventory.ExportRequest{}, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", r.WarehouseID)
	}
	lines, err := toLines(r.Lines)
	if err != nil {
		return inventory.ExportRequest{}, err
	}
	return inventory.ExportRequest{
		WarehouseID:  warehouseID,
		Lines:        lines,
		Reason:       r.Reason,
		WorkOrderRef: r.WorkOrderRef,
	}, nil
}

// TransferRequest moves stock between two warehouses.
type TransferRequest struct {
	SourceWarehouseID string                `json:"sourceWarehouseId" binding:"required"`
	DestWarehouseID   string                `json:"destWarehouseId" binding:"required"`
	Lines             []MovementLineRequest `json:"lines" binding:"required"`
	Reason            string                `json:"reason"`
}

// ToRequest converts the DTO to a domain request.
func (r TransferRequest) ToRequest() (inventory.TransferRequest, error) {
	sourceID, err := id.Parse(r.SourceWarehouseID)
	if err != nil {
		return inventory.TransferRequest{}, apperror.NewValidation("invalid sourceWarehouseId").
			WithDetail("sourceWarehouseId", r.SourceWarehouseID)
	}
	destID, err := id.Parse(r.DestWarehouseID)
	if err != nil {
		return inventory.TransferRequest{}, apperror.NewValidation("invalid destWarehouseId").
			WithDetail("destWarehouseId", r.DestWarehouseID)
	}
	lines, err := toLines(r.Lines)
	if err != nil {
		return inventory.TransferRequest{}, err
	}
	return inventory.TransferRequest{
		SourceWarehouseID: sourceID,
		DestWarehouseID:   destID,
		Lines:             lines,
		Reason:            r.Reason,
	}, nil
}

// StocktakeLineRequest is one counted product.
type StocktakeLineRequest struct {
	ProductID  string  `json:"productId" binding:"required"`
	CountedQty float64 `json:"countedQty"`
}

// StocktakeRequest corrects on-hand quantities to counted ones.
type StocktakeRequest struct {
	WarehouseID string                 `json:"warehouseId" binding:"required"`
	Lines       []StocktakeLineRequest `json:"lines" binding:"required"`
	Reason      string                 `json:"reason"`
}

// ToRequest converts the DTO to a domain request.
func (r StocktakeRequest) ToRequest() (inventory.StocktakeRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return inventory.StocktakeRequest{}, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", r.WarehouseID)
	}

	lines := make([]inventory.StocktakeLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return inventory.StocktakeRequest{}, apperror.NewValidation("invalid productId").
				WithDetail("productId", l.ProductID)
		}
		lines = append(lines, inventory.StocktakeLine{
			ProductID:  productID,
			CountedQty: types.NewQuantityFromFloat64(l.CountedQty),
		})
	}

	return inventory.StocktakeRequest{
		WarehouseID: warehouseID,
		Lines:       lines,
		Reason:      r.Reason,
	}, nil
}

// ReservationRequest holds or releases stock for a work order.
type ReservationRequest struct {
	WarehouseID  string  `json:"warehouseId" binding:"required"`
	ProductID    string  `json:"productId" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	WorkOrderRef string  `json:"workOrderRef"`
}

// ToRequest converts the DTO to a domain request.
func (r ReservationRequest) ToRequest() (inventory.ReservationRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return inventory.ReservationRequest{}, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", r.WarehouseID)
	}
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return inventory.ReservationRequest{}, apperror.NewValidation("invalid productId").
			WithDetail("productId", r.ProductID)
	}
	return inventory.ReservationRequest{
		WarehouseID:  warehouseID,
		ProductID:    productID,
		Quantity:     types.NewQuantityFromFloat64(r.Quantity),
		WorkOrderRef: r.WorkOrderRef,
	}, nil
}

// --- Response DTOs ---

// LedgerEntryResponse represents one ledger entry in API responses.
type LedgerEntryResponse struct {
	ID              string    `json:"id"`
	DocumentNo      string    `json:"documentNo"`
	MovementType    string    `json:"movementType"`
	Direction       string    `json:"direction"`
	WarehouseID     string    `json:"warehouseId"`
	DestWarehouseID *string   `json:"destWarehouseId,omitempty"`
	ProductID       string    `json:"productId"`
	Quantity        float64   `json:"quantity"`
	UnitCost        *float64  `json:"unitCost,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	WorkOrderRef    string    `json:"workOrderRef,omitempty"`
	SourceRef       string    `json:"sourceRef,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy,omitempty"`
}

// FromLedgerEntry converts entity to response DTO.
func FromLedgerEntry(e entity.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:           e.ID.String(),
		DocumentNo:   e.DocumentNo,
		MovementType: string(e.MovementType),
		Direction:    string(e.Direction),
		WarehouseID:  e.WarehouseID.String(),
		ProductID:    e.ProductID.String(),
		Quantity:     e.Quantity.Float64(),
		Reason:       e.Reason,
		WorkOrderRef: e.WorkOrderRef,
		SourceRef:    e.SourceRef,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
	if e.DestWarehouseID != nil {
		dest := e.DestWarehouseID.String()
		resp.DestWarehouseID = &dest
	}
	if e.UnitCost != nil {
		cost := e.UnitCost.InexactFloat64()
		resp.UnitCost = &cost
	}
	return resp
}

// StockCardResponse is the ledger page. Balance is present when the
// query pinned down one warehouse and product.
type StockCardResponse struct {
	Items      []LedgerEntryResponse `json:"items"`
	TotalCount int64                 `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
	Balance    *StockBalanceResponse `json:"balance,omitempty"`
}

// MovementDocumentResponse is the result of a posted movement.
type MovementDocumentResponse struct {
	DocumentNo    string                `json:"documentNo"`
	MovementType  string                `json:"movementType"`
	LineCount     int                   `json:"lineCount"`
	TotalQuantity float64               `json:"totalQuantity"`
	Entries       []LedgerEntryResponse `json:"entries"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// FromMovementDocument converts the domain document to a response DTO.
func FromMovementDocument(doc *inventory.MovementDocument) MovementDocumentResponse {
	entries := make([]LedgerEntryResponse, len(doc.Entries))
	var total types.Quantity
	for i, e := range doc.Entries {
		entries[i] = FromLedgerEntry(e)
		total += e.Quantity
	}
	return MovementDocumentResponse{
		DocumentNo:    doc.DocumentNo,
		MovementType:  string(doc.MovementType),
		LineCount:     len(doc.Entries),
		TotalQuantity: total.Float64(),
		Entries:       entries,
		CreatedAt:     doc.CreatedAt,
	}
}

// StockBalanceResponse represents a materialized balance.
type StockBalanceResponse struct {
	WarehouseID string    `json:"warehouseId"`
	ProductID   string    `json:"productId"`
	OnHand      float64   `json:"onHand"`
	Reserved    float64   `json:"reserved"`
	Available   float64   `json:"available"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromStockBalance converts entity to response DTO.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		WarehouseID: b.WarehouseID.String(),
		ProductID:   b.ProductID.String(),
		OnHand:      b.OnHand.Float64(),
		Reserved:    b.Reserved.Float64(),
		Available:   b.Available().Float64(),
		UpdatedAt:   b.UpdatedAt,
	}
}

// ProductAvailabilityResponse is the across-warehouse view for a product.
type ProductAvailabilityResponse struct {
	ProductID      string                 `json:"productId"`
	Balances       []StockBalanceResponse `json:"balances"`
	TotalOnHand    float64                `json:"totalOnHand"`
	TotalReserved  float64                `json:"totalReserved"`
	TotalAvailable float64                `json:"totalAvailable"`
}

// FromProductAvailability converts the domain view to a response DTO.
func FromProductAvailability(a inventory.ProductAvailability) ProductAvailabilityResponse {
	balances := make([]StockBalanceResponse, len(a.Balances))
	for i, b := range a.Balances {
		balances[i] = FromStockBalance(b)
	}
	return ProductAvailabilityResponse{
		ProductID:      a.ProductID.String(),
		Balances:       balances,
		TotalOnHand:    a.TotalOnHand.Float64(),
		TotalReserved:  a.TotalReserved.Float64(),
		TotalAvailable: a.TotalAvailable.Float64(),
	}
}

// LowStockItemResponse is one balance at or below its threshold.
type LowStockItemResponse struct {
	WarehouseID string  `json:"warehouseId"`
	ProductID   string  `json:"productId"`
	OnHand      float64 `json:"onHand"`
	Threshold   float64 `json:"threshold"`
}

// StatsResponse is the warehouse statistics summary.
type StatsResponse struct {
	DistinctProducts int64                  `json:"distinctProducts"`
	TotalOnHand      float64                `json:"totalOnHand"`
	TotalReserved    float64                `json:"totalReserved"`
	MovementsToday   int64                  `json:"movementsToday"`
	Warehouses       int64                  `json:"warehouses"`
	LowStock         []LowStockItemResponse `json:"lowStock"`
}

// FromStats converts domain stats to a response DTO.
func FromStats(s inventory.Stats) StatsResponse {
	lowStock := make([]LowStockItemResponse, len(s.LowStock))
	for i, item := range s.LowStock {
		lowStock[i] = LowStockItemResponse{
			WarehouseID: item.WarehouseID.String(),
			ProductID:   item.ProductID.String(),
			OnHand:      item.OnHand.Float64(),
			Threshold:   item.Threshold.Float64(),
		}
	}
	return StatsResponse{
		DistinctProducts: s.DistinctProducts,
		TotalOnHand:      s.TotalOnHand.Float64(),
		TotalReserved:    s.TotalReserved.Float64(),
		MovementsToday:   s.MovementsToday,
		Warehouses:       s.Warehouses,
		LowStock:         lowStock,
	}
}
