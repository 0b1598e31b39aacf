// Package inventory_repo provides PostgreSQL implementations for the
// inventory ledger repositories. All queries are tenant-scoped.
package inventory_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/inventory"
	"fieldops/internal/infrastructure/storage/postgres"
)

const ledgerTable = "inv_ledger_entries"

var ledgerColumns = []string{
	"id", "tenant_id", "document_no", "movement_type", "direction",
	"warehouse_id", "dest_warehouse_id", "product_id",
	"quantity", "unit_cost", "reason", "work_order_ref", "source_ref",
	"created_at", "created_by",
}

// LedgerRepo implements inventory.LedgerRepository.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ inventory.LedgerRepository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func tenantID(ctx context.Context) id.ID {
	tid, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil {
		return id.Nil()
	}
	return tid
}

// CreateEntries batch inserts ledger entries.
// Inside a transaction the COPY protocol is used for speed.
func (r *LedgerRepo) CreateEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	if tx := r.txm.GetTx(ctx); tx != nil {
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{
				e.ID, e.TenantID, e.DocumentNo, e.MovementType, e.Direction,
				e.WarehouseID, e.DestWarehouseID, e.ProductID,
				e.Quantity, e.UnitCost, e.Reason, e.WorkOrderRef, e.SourceRef,
				e.CreatedAt, e.CreatedBy,
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{ledgerTable},
			ledgerColumns,
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy ledger entries: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(ledgerTable).Columns(ledgerColumns...)
	for _, e := range entries {
		q = q.Values(
			e.ID, e.TenantID, e.DocumentNo, e.MovementType, e.Direction,
			e.WarehouseID, e.DestWarehouseID, e.ProductID,
			e.Quantity, e.UnitCost, e.Reason, e.WorkOrderRef, e.SourceRef,
			e.CreatedAt, e.CreatedBy,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}
	return nil
}

// List retrieves ledger entries with filtering and pagination.
func (r *LedgerRepo) List(ctx context.Context, f inventory.LedgerFilter) (inventory.LedgerResult, error) {
	base := r.builder.Select().From(ledgerTable).
		Where(squirrel.Eq{"tenant_id": tenantID(ctx)})
	base = applyLedgerFilter(base, f)

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return inventory.LedgerResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return inventory.LedgerResult{}, fmt.Errorf("count entries: %w", err)
	}

	q := base.Columns(ledgerColumns...).
		OrderBy(ledgerOrderBy(f.OrderBy)).
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return inventory.LedgerResult{}, fmt.Errorf("build query: %w", err)
	}

	var items []entity.LedgerEntry
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return inventory.LedgerResult{}, fmt.Errorf("select entries: %w", err)
	}

	return inventory.LedgerResult{
		Items:      items,
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

// GetByDocumentNo retrieves all entries of one movement document.
func (r *LedgerRepo) GetByDocumentNo(ctx context.Context, documentNo string) ([]entity.LedgerEntry, error) {
	q := r.builder.Select(ledgerColumns...).From(ledgerTable).
		Where(squirrel.Eq{
			"tenant_id":   tenantID(ctx),
			"document_no": documentNo,
		}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []entity.LedgerEntry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	return items, nil
}

// CountSince counts entries created at or after the given time.
func (r *LedgerRepo) CountSince(ctx context.Context, warehouseID *id.ID, since time.Time) (int64, error) {
	q := r.builder.Select("COUNT(*)").From(ledgerTable).
		Where(squirrel.Eq{"tenant_id": tenantID(ctx)}).
		Where(squirrel.GtOrEq{"created_at": since})

	if warehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"warehouse_id": *warehouseID},
			squirrel.Eq{"dest_warehouse_id": *warehouseID},
		})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int64
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func applyLedgerFilter(q squirrel.SelectBuilder, f inventory.LedgerFilter) squirrel.SelectBuilder {
	if f.WarehouseID != nil {
		// Transfers show up on the stock card of both warehouses.
		q = q.Where(squirrel.Or{
			squirrel.Eq{"warehouse_id": *f.WarehouseID},
			squirrel.Eq{"dest_warehouse_id": *f.WarehouseID},
		})
	}
	if f.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *f.ProductID})
	}
	if f.MovementType != nil {
		q = q.Where(squirrel.Eq{"movement_type": *f.MovementType})
	}
	if f.DocumentNo != nil {
		q = q.Where(squirrel.Eq{"document_no": *f.DocumentNo})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.ToDate})
	}
	return q
}

// ledgerOrderBy maps the filter's order key to a safe ORDER BY clause.
func ledgerOrderBy(orderBy string) string {
	desc := strings.HasPrefix(orderBy, "-")
	col := strings.TrimPrefix(orderBy, "-")

	switch col {
	case "created_at", "document_no", "quantity":
	default:
		col = "created_at"
		desc = true
	}

	if desc {
		return col + " DESC, id DESC"
	}
	return col + ", id"
}
