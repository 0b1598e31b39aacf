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
	"fieldops/internal/domain/catalogs/product"
	"fieldops/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

var productColumns = []string{
	"id", "tenant_id", "state", "version", "created_at", "updated_at", "deleted_at",
	"code", "name", "kind", "sku", "barcode", "unit", "default_cost",
	"low_stock_threshold", "description",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productTable).
		Columns(productColumns...).
		Values(
			p.ID, p.TenantID, p.State, p.Version, p.CreatedAt, p.UpdatedAt, p.DeletedAt,
			p.Code, p.Name, p.Kind, p.SKU, p.Barcode, p.Unit, p.DefaultCost,
			p.LowStockThreshold, p.Description,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID.String())
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"code": code}).
		Where(squirrel.Eq{"state": entity.StateActive}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", code)
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	result := make(map[id.ID]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.baseSelect(ctx).Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	for _, p := range items {
		result[p.ID] = p
	}
	return result, nil
}

// Update modifies an existing product with optimistic locking.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productTable).
		Set("code", p.Code).
		Set("name", p.Name).
		Set("kind", p.Kind).
		Set("sku", p.SKU).
		Set("barcode", p.Barcode).
		Set("unit", p.Unit).
		Set("default_cost", p.DefaultCost).
		Set("low_stock_threshold", p.LowStockThreshold).
		Set("description", p.Description).
		Set("state", p.State).
		Set("deleted_at", p.DeletedAt).
		Set("updated_at", p.UpdatedAt).
		Set("version", p.Version).
		Where(squirrel.Eq{
			"tenant_id": tenantID(ctx),
			"id":        p.ID,
			"version":   p.Version - 1,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConflict("product was modified concurrently").
			WithDetail("id", p.ID.String())
	}
	return nil
}

// Delete soft-deletes the product. History in the ledger is retained.
func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := r.builder.Update(productTable).
		Set("state", entity.StateDeleted).
		Set("deleted_at", squirrel.Expr("now()")).
		Set("updated_at", squirrel.Expr("now()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{
			"tenant_id": tenantID(ctx),
			"id":        productID,
			"state":     entity.StateActive,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context, f product.ListFilter) (product.ListResult, error) {
	base := r.filterSelect(ctx)

	if !f.IncludeDeleted {
		base = base.Where(squirrel.Eq{"state": entity.StateActive})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if f.Kind != nil {
		base = base.Where(squirrel.Eq{"kind": *f.Kind})
	}

	result := product.ListResult{Limit: f.Limit, Offset: f.Offset}
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count products: %w", err)
	}

	orderBy, err := parseOrderBy(f.OrderBy, productColumns)
	if err != nil {
		return result, err
	}

	q := base.Columns(productColumns...).OrderBy(orderBy)
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
		return result, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

func (r *ProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	q := r.builder.Select("1").From(productTable).
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

func (r *ProductRepo) baseSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder.Select(productColumns...).From(productTable).
		Where(squirrel.Eq{"tenant_id": tenantID(ctx)})
}

func (r *ProductRepo) filterSelect(ctx context.Context) squirrel.SelectBuilder {
	return r.builder.Select().From(productTable).
		Where(squirrel.Eq{"tenant_id": tenantID(ctx)})
}
