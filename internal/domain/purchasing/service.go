// Package purchasing bridges supplier deliveries into the inventory
// ledger. Purchase order lifecycle lives in the vendor system; this
// service only posts the goods receipt side.
package purchasing

import (
	"context"
	"fmt"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/inventory"
	"fieldops/pkg/logger"
)

// ReceivedLine is one delivered product line.
type ReceivedLine struct {
	ProductID id.ID          `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitCost  *types.Money   `json:"unitCost,omitempty"`
}

// ReceivedOrder is a supplier delivery against a purchase order.
type ReceivedOrder struct {
	// OrderCode is the external purchase order reference
	OrderCode   string         `json:"orderCode"`
	WarehouseID id.ID          `json:"warehouseId"`
	Lines       []ReceivedLine `json:"lines"`
}

// Ledger is the slice of the inventory engine this bridge needs.
type Ledger interface {
	Import(ctx context.Context, req inventory.ImportRequest) (*inventory.MovementDocument, error)
}

// Service posts supplier deliveries as import movements.
type Service struct {
	ledger Ledger
}

// NewService creates a purchasing bridge service.
func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Receive posts a delivery into the warehouse it arrived at.
// The resulting ledger entries carry the purchase order reference.
func (s *Service) Receive(ctx context.Context, order ReceivedOrder) (*inventory.MovementDocument, error) {
	if order.OrderCode == "" {
		return nil, apperror.NewValidation("order code is required")
	}

	lines := make([]inventory.MovementLine, len(order.Lines))
	for i, l := range order.Lines {
		lines[i] = inventory.MovementLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		}
	}

	doc, err := s.ledger.Import(ctx, inventory.ImportRequest{
		WarehouseID: order.WarehouseID,
		Lines:       lines,
		Reason:      "purchase order received",
		SourceRef:   "PO-" + order.OrderCode,
	})
	if err != nil {
		return nil, fmt.Errorf("post delivery %s: %w", order.OrderCode, err)
	}

	logger.Info(ctx, "delivery received",
		"order_code", order.OrderCode,
		"document_no", doc.DocumentNo,
	)
	return doc, nil
}
