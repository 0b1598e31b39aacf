package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/inventory"
	"fieldops/internal/infrastructure/storage/postgres"
)

const balanceTable = "inv_stock_balances"

var balanceColumns = []string{
	"tenant_id", "warehouse_id", "product_id", "on_hand", "reserved", "updated_at",
}

// BalanceRepo implements inventory.BalanceRepository.
type BalanceRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ inventory.BalanceRepository = (*BalanceRepo)(nil)

// NewBalanceRepo creates a new balance repository.
func NewBalanceRepo(txm *postgres.TxManager) *BalanceRepo {
	return &BalanceRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the balance, or a zero-value balance when no row exists.
func (r *BalanceRepo) Get(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	tid := tenantID(ctx)

	q := r.builder.Select(balanceColumns...).From(balanceTable).
		Where(squirrel.Eq{
			"tenant_id":    tid,
			"warehouse_id": warehouseID,
			"product_id":   productID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return entity.StockBalance{}, fmt.Errorf("build query: %w", err)
	}

	var balance entity.StockBalance
	err = pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &balance, sql, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return zeroBalance(tid, warehouseID, productID), nil
		}
		return entity.StockBalance{}, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// GetForUpdate returns the balance with a row lock.
// The zero row is upserted first so two first-movers serialize on it.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	tid := tenantID(ctx)
	querier := r.txm.GetQuerier(ctx)

	const upsert = `
		INSERT INTO inv_stock_balances (tenant_id, warehouse_id, product_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (tenant_id, warehouse_id, product_id) DO NOTHING`
	if _, err := querier.Exec(ctx, upsert, tid, warehouseID, productID); err != nil {
		return entity.StockBalance{}, fmt.Errorf("ensure balance row: %w", err)
	}

	const query = `
		SELECT tenant_id, warehouse_id, product_id, on_hand, reserved, updated_at
		FROM inv_stock_balances
		WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3
		FOR UPDATE`

	var balance entity.StockBalance
	if err := pgxscan.Get(ctx, querier, &balance, query, tid, warehouseID, productID); err != nil {
		return entity.StockBalance{}, fmt.Errorf("lock balance: %w", err)
	}
	return balance, nil
}

// Credit increases on-hand by qty.
func (r *BalanceRepo) Credit(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	const query = `
		UPDATE inv_stock_balances
		SET on_hand = on_hand + $4, updated_at = now()
		WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID(ctx), warehouseID, productID, qty)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewInternal(fmt.Errorf("credit: balance row missing for warehouse %s product %s", warehouseID, productID))
	}
	return nil
}

// Debit decreases on-hand by qty, refusing a negative result.
func (r *BalanceRepo) Debit(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	const query = `
		UPDATE inv_stock_balances
		SET on_hand = on_hand - $4, updated_at = now()
		WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3
		  AND on_hand >= $4`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID(ctx), warehouseID, productID, qty)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// The locked availability check upstream should have caught this.
		return apperror.NewBusinessRule(apperror.CodeInsufficientStock,
			fmt.Sprintf("debit would drive balance negative for product %s", productID))
	}
	return nil
}

// SetOnHand overwrites on-hand with the counted quantity.
func (r *BalanceRepo) SetOnHand(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	const query = `
		UPDATE inv_stock_balances
		SET on_hand = $4, updated_at = now()
		WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID(ctx), warehouseID, productID, qty)
	if err != nil {
		return fmt.Errorf("set on-hand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewInternal(fmt.Errorf("set on-hand: balance row missing for warehouse %s product %s", warehouseID, productID))
	}
	return nil
}

// Reserve increases the reservation by qty.
func (r *BalanceRepo) Reserve(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	const query = `
		UPDATE inv_stock_balances
		SET reserved = reserved + $4, updated_at = now()
		WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3`

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID(ctx), warehouseID, productID, qty)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewInternal(fmt.Errorf("reserve: balance row missing for warehouse %s product %s", warehouseID, productID))
	}
	return nil
}

// ReleaseReservation decreases the reservation by qty, clamping at zero.
func (r *BalanceRepo) ReleaseReservation(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	const query = `
		UPDATE inv_stock_balances
		SET reserved = GREATEST(reserved - $4, 0), updated_at = now()
		WHERE tenant_id = $1 AND warehouse_id = $2 AND product_id = $3`

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, query, tenantID(ctx), warehouseID, productID, qty); err != nil {
		return fmt.Errorf("release reservation: %w", err)
	}
	return nil
}

// List retrieves balances with filtering and pagination. Search and
// threshold filters join the product catalog.
func (r *BalanceRepo) List(ctx context.Context, f inventory.BalanceFilter) (inventory.BalanceResult, error) {
	base := r.builder.Select().From(balanceTable + " b").
		Where(squirrel.Eq{"b.tenant_id": tenantID(ctx)})

	if f.Search != "" || f.BelowThreshold {
		base = base.Join("cat_products p ON p.id = b.product_id AND p.tenant_id = b.tenant_id")
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.sku": pattern},
		})
	}
	if f.BelowThreshold {
		base = base.Where(squirrel.Gt{"p.low_stock_threshold": 0}).
			Where("b.on_hand <= p.low_stock_threshold")
	}
	if f.WarehouseID != nil {
		base = base.Where(squirrel.Eq{"b.warehouse_id": *f.WarehouseID})
	}
	if len(f.ProductIDs) > 0 {
		base = base.Where(squirrel.Eq{"b.product_id": f.ProductIDs})
	}
	if f.ExcludeZero {
		base = base.Where(squirrel.Or{
			squirrel.NotEq{"b.on_hand": 0},
			squirrel.NotEq{"b.reserved": 0},
		})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return inventory.BalanceResult{}, fmt.Errorf("build count: %w", err)
	}

	var total int64
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return inventory.BalanceResult{}, fmt.Errorf("count balances: %w", err)
	}

	q := base.Columns(prefixColumns("b", balanceColumns)...).
		OrderBy("b.warehouse_id", "b.product_id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return inventory.BalanceResult{}, fmt.Errorf("build query: %w", err)
	}

	var items []entity.StockBalance
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return inventory.BalanceResult{}, fmt.Errorf("select balances: %w", err)
	}

	return inventory.BalanceResult{
		Items:      items,
		TotalCount: total,
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

// ListByProduct returns balances across all warehouses for a product.
func (r *BalanceRepo) ListByProduct(ctx context.Context, productID id.ID) ([]entity.StockBalance, error) {
	q := r.builder.Select(balanceColumns...).From(balanceTable).
		Where(squirrel.Eq{
			"tenant_id":  tenantID(ctx),
			"product_id": productID,
		}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []entity.StockBalance
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}
	return items, nil
}

// Stats aggregates balance statistics, optionally scoped to one warehouse.
// MovementsToday is filled in by the service from the ledger repository.
func (r *BalanceRepo) Stats(ctx context.Context, warehouseID *id.ID) (inventory.Stats, error) {
	tid := tenantID(ctx)
	querier := r.txm.GetQuerier(ctx)

	totals := r.builder.Select(
		"COUNT(DISTINCT product_id) FILTER (WHERE on_hand <> 0) AS distinct_products",
		"COALESCE(SUM(on_hand), 0) AS total_on_hand",
		"COALESCE(SUM(reserved), 0) AS total_reserved",
		"COUNT(DISTINCT warehouse_id) AS warehouses",
	).From(balanceTable).
		Where(squirrel.Eq{"tenant_id": tid})
	if warehouseID != nil {
		totals = totals.Where(squirrel.Eq{"warehouse_id": *warehouseID})
	}

	sql, args, err := totals.ToSql()
	if err != nil {
		return inventory.Stats{}, fmt.Errorf("build totals: %w", err)
	}

	var stats inventory.Stats
	if err := querier.QueryRow(ctx, sql, args...).Scan(
		&stats.DistinctProducts, &stats.TotalOnHand, &stats.TotalReserved, &stats.Warehouses,
	); err != nil {
		return inventory.Stats{}, fmt.Errorf("aggregate balances: %w", err)
	}

	low := r.builder.Select(
		"b.warehouse_id",
		"b.product_id",
		"b.on_hand",
		"p.low_stock_threshold AS threshold",
	).From(balanceTable+" b").
		Join("cat_products p ON p.id = b.product_id AND p.tenant_id = b.tenant_id").
		Where(squirrel.Eq{"b.tenant_id": tid}).
		Where(squirrel.Gt{"p.low_stock_threshold": 0}).
		Where("b.on_hand <= p.low_stock_threshold").
		OrderBy("b.warehouse_id", "b.product_id")
	if warehouseID != nil {
		low = low.Where(squirrel.Eq{"b.warehouse_id": *warehouseID})
	}

	sql, args, err = low.ToSql()
	if err != nil {
		return inventory.Stats{}, fmt.Errorf("build low stock: %w", err)
	}

	var lowItems []inventory.LowStockItem
	if err := pgxscan.Select(ctx, querier, &lowItems, sql, args...); err != nil {
		return inventory.Stats{}, fmt.Errorf("select low stock: %w", err)
	}
	stats.LowStock = lowItems

	return stats, nil
}

func prefixColumns(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func zeroBalance(tenant, warehouseID, productID id.ID) entity.StockBalance {
	return entity.StockBalance{
		TenantID:    tenant,
		WarehouseID: warehouseID,
		ProductID:   productID,
		OnHand:      0,
		Reserved:    0,
		UpdatedAt:   time.Now().UTC(),
	}
}
