package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/domain/catalogs/warehouse"
	"fieldops/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

var warehouseColumns = []string{
	"id", "tenant_id", "state", "version", "created_at", "updated_at", "deleted_at",
	"code", "name", "type", "address", "description",
}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *WarehouseRepo) Create(ctx context.Context, wh *warehouse.Warehouse) error {
	q := r.builder.Insert(warehouseTable).
		Columns(warehouseColumns...).
		Values(
			wh.ID, wh.TenantID, wh.State, wh.Version, wh.CreatedAt, wh.UpdatedAt, wh.DeletedAt,
			wh.Code, wh.Name, wh.Type, wh.Address, wh.Description,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *WarehouseRepo) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": whID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var wh warehouse.Warehouse
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &wh, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", whID.String())
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &wh, nil
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"state": entity.StateActive}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var wh warehouse.Warehouse
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &wh, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", code)
		}
		return nil, fmt.Errorf("get warehouse by code: %w", err)
	}
	return &wh, nil
}

func (r *WarehouseRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*warehouse.Warehouse, error) {
	result := make(map[id.ID]*warehouse.Warehouse, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.baseSelect(ctx).Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*warehouse.Warehouse
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}

	for _, wh := range items {
		result[wh.ID] = wh
	}
	return result, nil
}

// Update modifies an existing warehouse with optimistic locking.
func (r *WarehouseRepo) Update(ctx context.Context, wh *warehouse.Warehouse) error {
	q := r.builder.Update(warehouseTable).
		Set("code", wh.Code).
		Set("name", wh.Name).
		Set("type", wh.Type).
		Set("address", wh.Address).
		Set("description", wh.Description).
		Set("state", wh.State).
		Set("deleted_at", wh.DeletedAt).
		Set("updated_at", wh.UpdatedAt).
		Set("version", wh.Version).
		Where(squirrel.Eq{
			"tenant_id": tenantID(ctx),
			"id":        wh.ID,
			"version":   wh.Version - 1,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("warehouse was modified concurrently").
			WithDetail("id", wh.ID.String())
	}
	return nil
}

// Delete soft-deletes the warehouse. History in the ledger is retained.
func (r *WarehouseRepo) Delete(ctx context.Context, whID id.ID) error {
	q := r.builder.Update(warehouseTable).
		Set("state", entity.StateDeleted).
		Set("deleted_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{
			"tenant_id": tenantID(ctx),
			"id":        whID,
			"state":     entity.StateActive,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", whID.String())
	}
	return nil
}

func (r *WarehouseRepo) List(ctx context.Context, f warehouse.ListFilter) (warehouse.ListResult, error) {
	base := r.filterSelect(ctx)

	if !f.IncludeDeleted {
		base = base.Where(squirrel.Eq{"state": entity.StateActive})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	if f.Type != nil {
		base = base.Where(squirrel.Eq{"type": *f.Type})
	}

	result := warehouse.ListResult{Limit: f.Limit, Offset: f.Offset}
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count warehouses: %w", err)
	}

	orderBy, err := parseOrderBy(f.OrderBy, warehouseColumns)
	if err != nil {
		return result, err
	}

	q := base.Columns(warehouseColumns...).OrderBy(orderBy)
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list warehouses: %w", err)
	}
	return result, nil
}

func (r *WarehouseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	q := r.builder.Select("1").From(warehouseTable).
		Where(squirrel.Eq{
			"tenant_id": tenantID(ctx),
			"code":      code,
			"state":     entity.StateActive,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by code: %w", err)
	}
	return true, nil
}

func (r *WarehouseRepo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder.Select(warehouseColumns...).From(warehouseTable).
		Where(squirrel.Eq{"tenant_id": tenantID(ctx)})
}

// filterSelect builds a column-less select so List can attach COUNT(*)
// for the total and the full column list for the page.
func (r *WarehouseRepo) filterSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder.Select().From(warehouseTable).
		Where(squirrel.Eq{"tenant_id": tenantID(ctx)})
}
