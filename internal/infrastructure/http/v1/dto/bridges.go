package dto

import (
	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/purchasing"
	"fieldops/internal/domain/workorder"
)

// ReceiveOrderRequest posts a supplier delivery against a purchase order.
type ReceiveOrderRequest struct {
	OrderCode   string                `json:"orderCode" binding:"required"`
	WarehouseID string                `json:"warehouseId" binding:"required"`
	Lines       []MovementLineRequest `json:"lines" binding:"required"`
}

// ToOrder converts the DTO to a domain order.
func (r ReceiveOrderRequest) ToOrder() (purchasing.ReceivedOrder, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return purchasing.ReceivedOrder{}, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", r.WarehouseID)
	}

	lines := make([]purchasing.ReceivedLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		line, err := l.toLine()
		if err != nil {
			return purchasing.ReceivedOrder{}, err
		}
		lines = append(lines, purchasing.ReceivedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
		})
	}

	return purchasing.ReceivedOrder{
		OrderCode:   r.OrderCode,
		WarehouseID: warehouseID,
		Lines:       lines,
	}, nil
}

// PartLineRequest is one product needed or used by a work order.
type PartLineRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
}

// PartsRequest covers the parts of one work order at one warehouse.
type PartsRequest struct {
	OrderCode   string            `json:"orderCode" binding:"required"`
	WarehouseID string            `json:"warehouseId" binding:"required"`
	Lines       []PartLineRequest `json:"lines" binding:"required"`
}

// ToRequest converts the DTO to a domain request.
func (r PartsRequest) ToRequest() (workorder.PartsRequest, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return workorder.PartsRequest{}, apperror.NewValidation("invalid warehouseId").
			WithDetail("warehouseId", r.WarehouseID)
	}

	lines := make([]workorder.PartLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		productID, err := id.Parse(l.ProductID)
		if err != nil {
			return workorder.PartsRequest{}, apperror.NewValidation("invalid productId").
				WithDetail("productId", l.ProductID)
		}
		lines = append(lines, workorder.PartLine{
			ProductID: productID,
			Quantity:  types.NewQuantityFromFloat64(l.Quantity),
		})
	}

	return workorder.PartsRequest{
		OrderCode:   r.OrderCode,
		WarehouseID: warehouseID,
		Lines:       lines,
	}, nil
}
