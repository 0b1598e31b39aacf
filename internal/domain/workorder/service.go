// Package workorder bridges field work orders into the inventory
// ledger. Scheduling and job lifecycle live in the dispatch system;
// this service handles only stock reservation and consumption.
package workorder

import (
	"context"
	"fmt"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/inventory"
	"fieldops/pkg/logger"
)

// PartLine is one product needed or used by a work order.
type PartLine struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// PartsRequest covers the parts of one work order at one warehouse,
// typically the assigned technician's vehicle.
type PartsRequest struct {
	// OrderCode is the external work order reference
	OrderCode   string     `json:"orderCode"`
	WarehouseID id.ID      `json:"warehouseId"`
	Lines       []PartLine `json:"lines"`
}

// Ledger is the slice of the inventory engine this bridge needs.
type Ledger interface {
	Export(ctx context.Context, req inventory.ExportRequest) (*inventory.MovementDocument, error)
	Reserve(ctx context.Context, req inventory.ReservationRequest) error
	Release(ctx context.Context, req inventory.ReservationRequest) error
}

// Service posts work order stock operations.
type Service struct {
	ledger Ledger
}

// NewService creates a work order bridge service.
func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// ReserveParts holds stock for a scheduled work order.
// Lines are reserved one by one; on a shortage the already placed
// holds are released so the order holds nothing.
func (s *Service) ReserveParts(ctx context.Context, req PartsRequest) error {
	if req.OrderCode == "" {
		return apperror.NewValidation("order code is required")
	}
	if len(req.Lines) == 0 {
		return apperror.NewValidation("at least one line is required")
	}

	ref := "WO-" + req.OrderCode
	for i, line := range req.Lines {
		err := s.ledger.Reserve(ctx, inventory.ReservationRequest{
			WarehouseID:  req.WarehouseID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			WorkOrderRef: ref,
		})
		if err != nil {
			s.rollbackHolds(ctx, req, i, ref)
			return fmt.Errorf("reserve parts for %s: %w", req.OrderCode, err)
		}
	}

	logger.Info(ctx, "parts reserved",
		"order_code", req.OrderCode,
		"warehouse_id", req.WarehouseID,
		"lines", len(req.Lines),
	)
	return nil
}

// ReleaseParts frees the holds of a cancelled or rescheduled order.
func (s *Service) ReleaseParts(ctx context.Context, req PartsRequest) error {
	if req.OrderCode == "" {
		return apperror.NewValidation("order code is required")
	}

	ref := "WO-" + req.OrderCode
	for _, line := range req.Lines {
		err := s.ledger.Release(ctx, inventory.ReservationRequest{
			WarehouseID:  req.WarehouseID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			WorkOrderRef: ref,
		})
		if err != nil {
			return fmt.Errorf("release parts for %s: %w", req.OrderCode, err)
		}
	}

	logger.Info(ctx, "parts released",
		"order_code", req.OrderCode,
		"warehouse_id", req.WarehouseID,
	)
	return nil
}

// ConsumeParts posts the parts actually used on a completed order as
// one export movement. Reserved quantities are drawn down first.
func (s *Service) ConsumeParts(ctx context.Context, req PartsRequest) (*inventory.MovementDocument, error) {
	if req.OrderCode == "" {
		return nil, apperror.NewValidation("order code is required")
	}

	lines := make([]inventory.MovementLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = inventory.MovementLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		}
	}

	doc, err := s.ledger.Export(ctx, inventory.ExportRequest{
		WarehouseID:  req.WarehouseID,
		Lines:        lines,
		Reason:       "work order consumption",
		WorkOrderRef: "WO-" + req.OrderCode,
	})
	if err != nil {
		return nil, fmt.Errorf("consume parts for %s: %w", req.OrderCode, err)
	}

	logger.Info(ctx, "parts consumed",
		"order_code", req.OrderCode,
		"document_no", doc.DocumentNo,
	)
	return doc, nil
}

func (s *Service) rollbackHolds(ctx context.Context, req PartsRequest, upto int, ref string) {
	for _, line := range req.Lines[:upto] {
		if err := s.ledger.Release(ctx, inventory.ReservationRequest{
			WarehouseID:  req.WarehouseID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			WorkOrderRef: ref,
		}); err != nil {
			logger.Error(ctx, "failed to roll back reservation",
				"order_code", req.OrderCode,
				"product_id", line.ProductID,
				"error", err,
			)
		}
	}
}
