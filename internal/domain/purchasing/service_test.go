package purchasing

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
	ImportFunc func(ctx context.Context, req inventory.ImportRequest) (*inventory.MovementDocument, error)
}

func (m *mockLedger) Import(ctx context.Context, req inventory.ImportRequest) (*inventory.MovementDocument, error) {
	return m.ImportFunc(ctx, req)
}

func TestReceive(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()
	cost := types.MustMoney("125.50")

	var captured inventory.ImportRequest
	ledger := &mockLedger{
		ImportFunc: func(ctx context.Context, req inventory.ImportRequest) (*inventory.MovementDocument, error) {
			captured = req
			return &inventory.MovementDocument{
				DocumentNo:   "IMP-20260829-120000-AAAA",
				MovementType: entity.MovementImport,
			}, nil
		},
	}

	svc := NewService(ledger)
	doc, err := svc.Receive(context.Background(), ReceivedOrder{
		OrderCode:   "1001",
		WarehouseID: warehouseID,
		Lines: []ReceivedLine{
			{ProductID: productID, Quantity: types.NewQuantityFromFloat64(40), UnitCost: &cost},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "IMP-20260829-120000-AAAA", doc.DocumentNo)

	assert.Equal(t, warehouseID, captured.WarehouseID)
	assert.Equal(t, "PO-1001", captured.SourceRef)
	require.Len(t, captured.Lines, 1)
	assert.Equal(t, productID, captured.Lines[0].ProductID)
	require.NotNil(t, captured.Lines[0].UnitCost)
	assert.True(t, cost.Equal(*captured.Lines[0].UnitCost))
}

func TestReceive_RequiresOrderCode(t *testing.T) {
	svc := NewService(&mockLedger{})

	_, err := svc.Receive(context.Background(), ReceivedOrder{WarehouseID: id.New()})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceive_PropagatesLedgerError(t *testing.T) {
	ledger := &mockLedger{
		ImportFunc: func(ctx context.Context, req inventory.ImportRequest) (*inventory.MovementDocument, error) {
			return nil, apperror.NewNotFound("warehouse", req.WarehouseID)
		},
	}

	svc := NewService(ledger)
	_, err := svc.Receive(context.Background(), ReceivedOrder{
		OrderCode:   "1002",
		WarehouseID: id.New(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
