package inventory_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/inventory"
)

func TestApplyLedgerFilter(t *testing.T) {
	warehouseID := id.New()
	productID := id.New()
	movementType := entity.MovementExport
	docNo := "EXP-20260115-120000-0A0B"
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f := inventory.LedgerFilter{
		WarehouseID:  &warehouseID,
		ProductID:    &productID,
		MovementType: &movementType,
		DocumentNo:   &docNo,
		FromDate:     &from,
	}

	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id").From(ledgerTable)
	sql, args, err := applyLedgerFilter(base, f).ToSql()
	require.NoError(t, err)

	// transfers must match on either side of the movement
	assert.Contains(t, sql, "warehouse_id = $")
	assert.Contains(t, sql, "dest_warehouse_id = $")
	assert.Contains(t, sql, "product_id = $")
	assert.Contains(t, sql, "movement_type = $")
	assert.Contains(t, sql, "document_no = $")
	assert.Contains(t, sql, "created_at >= $")
	assert.Len(t, args, 6)
}

func TestApplyLedgerFilter_Empty(t *testing.T) {
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id").From(ledgerTable)
	sql, args, err := applyLedgerFilter(base, inventory.LedgerFilter{}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM inv_ledger_entries", sql)
	assert.Empty(t, args)
}

func TestLedgerOrderBy(t *testing.T) {
	tests := []struct {
		name    string
		orderBy string
		want    string
	}{
		{"default", "", "created_at DESC, id DESC"},
		{"newest first", "-created_at", "created_at DESC, id DESC"},
		{"oldest first", "created_at", "created_at, id"},
		{"document", "document_no", "document_no, id"},
		{"unknown column falls back", "'; DROP TABLE inv_ledger_entries", "created_at DESC, id DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledgerOrderBy(tt.orderBy))
		})
	}
}
