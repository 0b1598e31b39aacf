package workorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/inventory"
)

type mockLedger struct {
	ExportFunc  func(ctx context.Context, req inventory.ExportRequest) (*inventory.MovementDocument, error)
	ReserveFunc func(ctx context.Context, req inventory.ReservationRequest) error
	ReleaseFunc func(ctx context.Context, req inventory.ReservationRequest) error
}

func (m *mockLedger) Export(ctx context.Context, req inventory.ExportRequest) (*inventory.MovementDocument, error) {
	return m.ExportFunc(ctx, req)
}

func (m *mockLedger) Reserve(ctx context.Context, req inventory.ReservationRequest) error {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, req)
	}
	return nil
}

func (m *mockLedger) Release(ctx context.Context, req inventory.ReservationRequest) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, req)
	}
	return nil
}

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func TestConsumeParts(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()

	var captured inventory.ExportRequest
	ledger := &mockLedger{
		ExportFunc: func(ctx context.Context, req inventory.ExportRequest) (*inventory.MovementDocument, error) {
			captured = req
			return &inventory.MovementDocument{
				DocumentNo:   "EXP-20260829-120000-BBBB",
				MovementType: entity.MovementExport,
			}, nil
		},
	}

	svc := NewService(ledger)
	doc, err := svc.ConsumeParts(context.Background(), PartsRequest{
		OrderCode:   "77",
		WarehouseID: warehouseID,
		Lines:       []PartLine{{ProductID: productID, Quantity: qty(2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "EXP-20260829-120000-BBBB", doc.DocumentNo)

	assert.Equal(t, "WO-77", captured.WorkOrderRef)
	assert.Equal(t, warehouseID, captured.WarehouseID)
	require.Len(t, captured.Lines, 1)
	assert.Equal(t, qty(2), captured.Lines[0].Quantity)
}

func TestConsumeParts_RequiresOrderCode(t *testing.T) {
	svc := NewService(&mockLedger{})

	_, err := svc.ConsumeParts(context.Background(), PartsRequest{WarehouseID: id.New()})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReserveParts(t *testing.T) {
	warehouseID := id.New()
	p1, p2 := id.New(), id.New()

	var reserved []inventory.ReservationRequest
	ledger := &mockLedger{
		ReserveFunc: func(ctx context.Context, req inventory.ReservationRequest) error {
			reserved = append(reserved, req)
			return nil
		},
	}

	svc := NewService(ledger)
	err := svc.ReserveParts(context.Background(), PartsRequest{
		OrderCode:   "88",
		WarehouseID: warehouseID,
		Lines: []PartLine{
			{ProductID: p1, Quantity: qty(3)},
			{ProductID: p2, Quantity: qty(1)},
		},
	})
	require.NoError(t, err)

	require.Len(t, reserved, 2)
	assert.Equal(t, "WO-88", reserved[0].WorkOrderRef)
	assert.Equal(t, p1, reserved[0].ProductID)
	assert.Equal(t, p2, reserved[1].ProductID)
}

func TestReserveParts_RollsBackOnShortage(t *testing.T) {
	warehouseID := id.New()
	p1, p2 := id.New(), id.New()

	var released []inventory.ReservationRequest
	ledger := &mockLedger{
		ReserveFunc: func(ctx context.Context, req inventory.ReservationRequest) error {
			if req.ProductID == p2 {
				return apperror.NewInsufficientStock([]apperror.InsufficientLine{
					{ProductID: p2.String(), Requested: 5, Available: 1},
				})
			}
			return nil
		},
		ReleaseFunc: func(ctx context.Context, req inventory.ReservationRequest) error {
			released = append(released, req)
			return nil
		},
	}

	svc := NewService(ledger)
	err := svc.ReserveParts(context.Background(), PartsRequest{
		OrderCode:   "99",
		WarehouseID: warehouseID,
		Lines: []PartLine{
			{ProductID: p1, Quantity: qty(3)},
			{ProductID: p2, Quantity: qty(5)},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The first hold was released after the second line failed.
	require.Len(t, released, 1)
	assert.Equal(t, p1, released[0].ProductID)
}

func TestReleaseParts(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()

	var released []inventory.ReservationRequest
	ledger := &mockLedger{
		ReleaseFunc: func(ctx context.Context, req inventory.ReservationRequest) error {
			released = append(released, req)
			return nil
		},
	}

	svc := NewService(ledger)
	err := svc.ReleaseParts(context.Background(), PartsRequest{
		OrderCode:   "55",
		WarehouseID: warehouseID,
		Lines:       []PartLine{{ProductID: productID, Quantity: qty(4)}},
	})
	require.NoError(t, err)
	require.Len(t, released, 1)
	assert.Equal(t, "WO-55", released[0].WorkOrderRef)
}
