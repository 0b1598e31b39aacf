package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
	"fieldops/internal/domain/catalogs/product"
	"fieldops/internal/domain/catalogs/warehouse"
	"fieldops/pkg/docnum"
)

// --- In-memory fakes ---

// memStore backs the fake repositories. The tx manager serializes
// transactions on one mutex, which models row locking for the purpose
// of these tests, and restores a snapshot on rollback.
type memStore struct {
	mu       sync.Mutex
	balances map[lockKey]entity.StockBalance
	ledger   []entity.LedgerEntry
}

func newMemStore() *memStore {
	return &memStore{balances: make(map[lockKey]entity.StockBalance)}
}

type memTxManager struct {
	store *memStore
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snapshot := make(map[lockKey]entity.StockBalance, len(m.store.balances))
	for k, v := range m.store.balances {
		snapshot[k] = v
	}
	ledgerLen := len(m.store.ledger)

	if err := fn(ctx); err != nil {
		m.store.balances = snapshot
		m.store.ledger = m.store.ledger[:ledgerLen]
		return err
	}
	return nil
}

type memBalanceRepo struct {
	store      *memStore
	thresholds map[id.ID]types.Quantity
}

func (r *memBalanceRepo) Get(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	if b, ok := r.store.balances[lockKey{warehouseID, productID}]; ok {
		return b, nil
	}
	return entity.StockBalance{WarehouseID: warehouseID, ProductID: productID}, nil
}

func (r *memBalanceRepo) GetForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	return r.Get(ctx, warehouseID, productID)
}

func (r *memBalanceRepo) Credit(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	k := lockKey{warehouseID, productID}
	b, _ := r.Get(ctx, warehouseID, productID)
	b.OnHand += qty
	b.UpdatedAt = time.Now().UTC()
	r.store.balances[k] = b
	return nil
}

func (r *memBalanceRepo) Debit(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	k := lockKey{warehouseID, productID}
	b, _ := r.Get(ctx, warehouseID, productID)
	if b.OnHand-qty < 0 {
		return apperror.NewBusinessRule(apperror.CodeInsufficientStock, "balance would go negative")
	}
	b.OnHand -= qty
	b.UpdatedAt = time.Now().UTC()
	r.store.balances[k] = b
	return nil
}

func (r *memBalanceRepo) SetOnHand(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	k := lockKey{warehouseID, productID}
	b, _ := r.Get(ctx, warehouseID, productID)
	b.OnHand = qty
	b.UpdatedAt = time.Now().UTC()
	r.store.balances[k] = b
	return nil
}

func (r *memBalanceRepo) Reserve(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	k := lockKey{warehouseID, productID}
	b, _ := r.Get(ctx, warehouseID, productID)
	b.Reserved += qty
	r.store.balances[k] = b
	return nil
}

func (r *memBalanceRepo) ReleaseReservation(ctx context.Context, warehouseID, productID id.ID, qty types.Quantity) error {
	k := lockKey{warehouseID, productID}
	b, _ := r.Get(ctx, warehouseID, productID)
	b.Reserved -= qty
	if b.Reserved < 0 {
		b.Reserved = 0
	}
	r.store.balances[k] = b
	return nil
}

func (r *memBalanceRepo) List(ctx context.Context, f BalanceFilter) (BalanceResult, error) {
	var items []entity.StockBalance
	for _, b := range r.store.balances {
		if f.WarehouseID != nil && b.WarehouseID != *f.WarehouseID {
			continue
		}
		if f.ExcludeZero && b.OnHand.IsZero() {
			continue
		}
		items = append(items, b)
	}
	return BalanceResult{Items: items, TotalCount: int64(len(items)), Limit: f.Limit}, nil
}

func (r *memBalanceRepo) ListByProduct(ctx context.Context, productID id.ID) ([]entity.StockBalance, error) {
	var items []entity.StockBalance
	for _, b := range r.store.balances {
		if b.ProductID == productID {
			items = append(items, b)
		}
	}
	return items, nil
}

func (r *memBalanceRepo) Stats(ctx context.Context, warehouseID *id.ID) (Stats, error) {
	var stats Stats
	seen := make(map[id.ID]bool)
	warehouses := make(map[id.ID]bool)
	for _, b := range r.store.balances {
		if warehouseID != nil && b.WarehouseID != *warehouseID {
			continue
		}
		warehouses[b.WarehouseID] = true
		if !b.OnHand.IsZero() && !seen[b.ProductID] {
			seen[b.ProductID] = true
		}
		stats.TotalOnHand += b.OnHand
		stats.TotalReserved += b.Reserved
		if t, ok := r.thresholds[b.ProductID]; ok && b.OnHand <= t {
			stats.LowStock = append(stats.LowStock, LowStockItem{
				WarehouseID: b.WarehouseID,
				ProductID:   b.ProductID,
				OnHand:      b.OnHand,
				Threshold:   t,
			})
		}
	}
	stats.DistinctProducts = int64(len(seen))
	stats.Warehouses = int64(len(warehouses))
	return stats, nil
}

type memLedgerRepo struct {
	store *memStore
}

func (r *memLedgerRepo) CreateEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	r.store.ledger = append(r.store.ledger, entries...)
	return nil
}

func (r *memLedgerRepo) List(ctx context.Context, f LedgerFilter) (LedgerResult, error) {
	var items []entity.LedgerEntry
	for _, e := range r.store.ledger {
		if f.ProductID != nil && e.ProductID != *f.ProductID {
			continue
		}
		if f.MovementType != nil && e.MovementType != *f.MovementType {
			continue
		}
		if f.WarehouseID != nil {
			touches := e.WarehouseID == *f.WarehouseID ||
				(e.DestWarehouseID != nil && *e.DestWarehouseID == *f.WarehouseID)
			if !touches {
				continue
			}
		}
		items = append(items, e)
	}
	return LedgerResult{Items: items, TotalCount: int64(len(items)), Limit: f.Limit}, nil
}

func (r *memLedgerRepo) GetByDocumentNo(ctx context.Context, documentNo string) ([]entity.LedgerEntry, error) {
	var items []entity.LedgerEntry
	for _, e := range r.store.ledger {
		if e.DocumentNo == documentNo {
			items = append(items, e)
		}
	}
	return items, nil
}

func (r *memLedgerRepo) CountSince(ctx context.Context, warehouseID *id.ID, since time.Time) (int64, error) {
	var n int64
	for _, e := range r.store.ledger {
		if e.CreatedAt.Before(since) {
			continue
		}
		if warehouseID != nil {
			// Transfers count for both warehouses they touch.
			touches := e.WarehouseID == *warehouseID ||
				(e.DestWarehouseID != nil && *e.DestWarehouseID == *warehouseID)
			if !touches {
				continue
			}
		}
		n++
	}
	return n, nil
}

type memWarehouses struct {
	items map[id.ID]*warehouse.Warehouse
}

func (r *memWarehouses) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*warehouse.Warehouse, error) {
	out := make(map[id.ID]*warehouse.Warehouse)
	for _, whID := range ids {
		if wh, ok := r.items[whID]; ok {
			out[whID] = wh
		}
	}
	return out, nil
}

type memProducts struct {
	items map[id.ID]*product.Product
}

func (r *memProducts) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product)
	for _, pid := range ids {
		if p, ok := r.items[pid]; ok {
			out[pid] = p
		}
	}
	return out, nil
}

// --- Fixture ---

type fixture struct {
	svc      *Service
	store    *memStore
	balances *memBalanceRepo
	tenant   id.ID

	w1, w2 id.ID
	p1, p2 id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenant := id.New()
	w1 := warehouse.New(tenant, "WH-MAIN", "Main Depot", warehouse.TypeDepot)
	w2 := warehouse.New(tenant, "WH-VAN1", "Van 1", warehouse.TypeVehicle)
	p1 := product.New(tenant, "PRD-001", "Compressor Relay", product.KindPart)
	p2 := product.New(tenant, "PRD-002", "Copper Pipe 15mm", product.KindConsumable)

	store := newMemStore()
	balances := &memBalanceRepo{store: store, thresholds: map[id.ID]types.Quantity{}}
	svc := NewService(
		&memTxManager{store: store},
		&memLedgerRepo{store: store},
		balances,
		&memWarehouses{items: map[id.ID]*warehouse.Warehouse{w1.ID: w1, w2.ID: w2}},
		&memProducts{items: map[id.ID]*product.Product{p1.ID: p1, p2.ID: p2}},
		docnum.New(),
		nil,
	)

	return &fixture{
		svc:      svc,
		store:    store,
		balances: balances,
		tenant:   tenant,
		w1:       w1.ID,
		w2:       w2.ID,
		p1:       p1.ID,
		p2:       p2.ID,
	}
}

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func (f *fixture) onHand(t *testing.T, wh, prod id.ID) types.Quantity {
	t.Helper()
	b, err := f.svc.GetBalance(context.Background(), wh, prod)
	require.NoError(t, err)
	return b.OnHand
}

func (f *fixture) mustImport(t *testing.T, wh, prod id.ID, n float64) {
	t.Helper()
	_, err := f.svc.Import(context.Background(), ImportRequest{
		WarehouseID: wh,
		Lines:       []MovementLine{{ProductID: prod, Quantity: qty(n)}},
	})
	require.NoError(t, err)
}

// checkReconciliation verifies that every materialized balance equals
// the sum of signed ledger quantities for its pair.
func (f *fixture) checkReconciliation(t *testing.T) {
	t.Helper()
	sums := make(map[lockKey]types.Quantity)
	for _, e := range f.store.ledger {
		sums[lockKey{e.WarehouseID, e.ProductID}] += e.SignedQuantityFor(e.WarehouseID)
		if e.DestWarehouseID != nil {
			k := lockKey{*e.DestWarehouseID, e.ProductID}
			sums[k] += e.SignedQuantityFor(*e.DestWarehouseID)
		}
	}
	for k, b := range f.store.balances {
		assert.Equal(t, sums[k], b.OnHand,
			"balance mismatch for warehouse %s product %s", k.WarehouseID, k.ProductID)
	}
}

// --- Movement tests ---

func TestImport(t *testing.T) {
	f := newFixture(t)
	cost := types.MustMoney("10000")

	doc, err := f.svc.Import(context.Background(), ImportRequest{
		WarehouseID: f.w1,
		Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(100), UnitCost: &cost}},
		Reason:      "initial delivery",
		SourceRef:   "PO-1001",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementImport, doc.MovementType)
	assert.Contains(t, doc.DocumentNo, docnum.PrefixImport+"-")
	require.Len(t, doc.Entries, 1)

	e := doc.Entries[0]
	assert.Equal(t, entity.DirectionReceipt, e.Direction)
	assert.Equal(t, qty(100), e.Quantity)
	assert.Equal(t, "initial delivery", e.Reason)
	assert.Equal(t, "PO-1001", e.SourceRef)
	require.NotNil(t, e.UnitCost)
	assert.True(t, cost.Equal(*e.UnitCost))

	assert.Equal(t, qty(100), f.onHand(t, f.w1, f.p1))
	f.checkReconciliation(t)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 100)

	doc, err := f.svc.Export(context.Background(), ExportRequest{
		WarehouseID: f.w1,
		Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(30)}},
		Reason:      "damaged stock",
	})
	require.NoError(t, err)

	require.Len(t, doc.Entries, 1)
	assert.Equal(t, entity.DirectionExpense, doc.Entries[0].Direction)
	assert.Equal(t, "damaged stock", doc.Entries[0].Reason)
	assert.Equal(t, qty(70), f.onHand(t, f.w1, f.p1))
	f.checkReconciliation(t)
}

func TestExport_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 70)

	_, err := f.svc.Export(context.Background(), ExportRequest{
		WarehouseID: f.w1,
		Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(1000)}},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	lines, ok := appErr.Details["lines"].([]apperror.InsufficientLine)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, f.p1.String(), lines[0].ProductID)
	assert.Equal(t, float64(1000), lines[0].Requested)
	assert.Equal(t, float64(70), lines[0].Available)
	assert.Equal(t, float64(70), lines[0].OnHand)
	assert.Equal(t, float64(0), lines[0].Reserved)

	// Rejected entirely: nothing changed.
	assert.Equal(t, qty(70), f.onHand(t, f.w1, f.p1))
	assert.Len(t, f.store.ledger, 1) // only the import
}

func TestExport_AllShortagesReported(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 5)
	f.mustImport(t, f.w1, f.p2, 3)

	_, err := f.svc.Export(context.Background(), ExportRequest{
		WarehouseID: f.w1,
		Lines: []MovementLine{
			{ProductID: f.p1, Quantity: qty(10)},
			{ProductID: f.p2, Quantity: qty(10)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	lines, ok := appErr.Details["lines"].([]apperror.InsufficientLine)
	require.True(t, ok)
	assert.Len(t, lines, 2)
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 70)

	doc, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourceWarehouseID: f.w1,
		DestWarehouseID:   f.w2,
		Lines:             []MovementLine{{ProductID: f.p1, Quantity: qty(20)}},
		Reason:            "restock van",
	})
	require.NoError(t, err)

	require.Len(t, doc.Entries, 1)
	e := doc.Entries[0]
	assert.Equal(t, entity.MovementTransfer, e.MovementType)
	assert.Equal(t, "restock van", e.Reason)
	assert.Equal(t, f.w1, e.WarehouseID)
	require.NotNil(t, e.DestWarehouseID)
	assert.Equal(t, f.w2, *e.DestWarehouseID)
	assert.Equal(t, qty(-20), e.SignedQuantityFor(f.w1))
	assert.Equal(t, qty(20), e.SignedQuantityFor(f.w2))

	assert.Equal(t, qty(50), f.onHand(t, f.w1, f.p1))
	assert.Equal(t, qty(20), f.onHand(t, f.w2, f.p1))
	f.checkReconciliation(t)
}

func TestTransfer_SameWarehouse(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourceWarehouseID: f.w1,
		DestWarehouseID:   f.w1,
		Lines:             []MovementLine{{ProductID: f.p1, Quantity: qty(1)}},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestTransfer_InsufficientSource(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 10)

	_, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourceWarehouseID: f.w1,
		DestWarehouseID:   f.w2,
		Lines:             []MovementLine{{ProductID: f.p1, Quantity: qty(15)}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, qty(10), f.onHand(t, f.w1, f.p1))
	assert.Equal(t, qty(0), f.onHand(t, f.w2, f.p1))
}

func TestStocktake(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 50)

	doc, err := f.svc.Stocktake(context.Background(), StocktakeRequest{
		WarehouseID: f.w1,
		Lines:       []StocktakeLine{{ProductID: f.p1, CountedQty: qty(45)}},
		Reason:      "annual count",
	})
	require.NoError(t, err)

	require.Len(t, doc.Entries, 1)
	e := doc.Entries[0]
	assert.Equal(t, entity.MovementStocktake, e.MovementType)
	assert.Equal(t, entity.DirectionExpense, e.Direction)
	assert.Equal(t, qty(5), e.Quantity)

	assert.Equal(t, qty(45), f.onHand(t, f.w1, f.p1))
	f.checkReconciliation(t)
}

func TestStocktake_SurplusAndNoChange(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 50)
	f.mustImport(t, f.w1, f.p2, 10)

	doc, err := f.svc.Stocktake(context.Background(), StocktakeRequest{
		WarehouseID: f.w1,
		Lines: []StocktakeLine{
			{ProductID: f.p1, CountedQty: qty(52)}, // surplus
			{ProductID: f.p2, CountedQty: qty(10)}, // unchanged
		},
	})
	require.NoError(t, err)

	require.Len(t, doc.Entries, 1)
	assert.Equal(t, entity.DirectionReceipt, doc.Entries[0].Direction)
	assert.Equal(t, qty(2), doc.Entries[0].Quantity)

	assert.Equal(t, qty(52), f.onHand(t, f.w1, f.p1))
	assert.Equal(t, qty(10), f.onHand(t, f.w1, f.p2))
	f.checkReconciliation(t)
}

func TestStocktake_NothingChanged(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 50)

	doc, err := f.svc.Stocktake(context.Background(), StocktakeRequest{
		WarehouseID: f.w1,
		Lines:       []StocktakeLine{{ProductID: f.p1, CountedQty: qty(50)}},
	})
	require.NoError(t, err)
	assert.Empty(t, doc.Entries)
	assert.NotEmpty(t, doc.DocumentNo)
}

func TestExport_Concurrent(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 50)

	export := func() error {
		_, err := f.svc.Export(context.Background(), ExportRequest{
			WarehouseID: f.w1,
			Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(40)}},
		})
		return err
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- export()
		}()
	}
	wg.Wait()
	close(errs)

	var ok, failed int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.True(t, apperror.IsInsufficientStock(err))
			failed++
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
	assert.Equal(t, qty(10), f.onHand(t, f.w1, f.p1))
	f.checkReconciliation(t)
}

// --- Validation tests ---

func TestImport_ValidationAggregatesProblems(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Import(context.Background(), ImportRequest{
		WarehouseID: f.w1,
		Lines: []MovementLine{
			{ProductID: f.p1, Quantity: qty(0)},
			{ProductID: id.Nil(), Quantity: qty(5)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	problems, ok := appErr.Details["lines"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, problems, 2)
}

func TestImport_UnknownProductsBatch(t *testing.T) {
	f := newFixture(t)
	ghost1, ghost2 := id.New(), id.New()

	_, err := f.svc.Import(context.Background(), ImportRequest{
		WarehouseID: f.w1,
		Lines: []MovementLine{
			{ProductID: ghost1, Quantity: qty(1)},
			{ProductID: ghost2, Quantity: qty(2)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	ids, ok := appErr.Details["product_ids"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{ghost1.String(), ghost2.String()}, ids)
}

func TestImport_UnknownWarehouse(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Import(context.Background(), ImportRequest{
		WarehouseID: id.New(),
		Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(1)}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

// --- Reservation tests ---

func TestReserve_HoldsAvailability(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 50)
	ctx := context.Background()

	err := f.svc.Reserve(ctx, ReservationRequest{
		WarehouseID:  f.w1,
		ProductID:    f.p1,
		Quantity:     qty(20),
		WorkOrderRef: "WO-77",
	})
	require.NoError(t, err)

	b, err := f.svc.GetBalance(ctx, f.w1, f.p1)
	require.NoError(t, err)
	assert.Equal(t, qty(50), b.OnHand)
	assert.Equal(t, qty(20), b.Reserved)
	assert.Equal(t, qty(30), b.Available())

	// Free export cannot touch the reserved share.
	_, err = f.svc.Export(ctx, ExportRequest{
		WarehouseID: f.w1,
		Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(40)}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// The work order itself consumes from its reservation.
	_, err = f.svc.Export(ctx, ExportRequest{
		WarehouseID:  f.w1,
		Lines:        []MovementLine{{ProductID: f.p1, Quantity: qty(40)}},
		WorkOrderRef: "WO-77",
	})
	require.NoError(t, err)

	b, err = f.svc.GetBalance(ctx, f.w1, f.p1)
	require.NoError(t, err)
	assert.Equal(t, qty(10), b.OnHand)
	assert.Equal(t, qty(0), b.Reserved)
}

func TestReserve_OverAvailability(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 10)

	err := f.svc.Reserve(context.Background(), ReservationRequest{
		WarehouseID: f.w1,
		ProductID:   f.p1,
		Quantity:    qty(15),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestRelease(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 50)
	ctx := context.Background()

	require.NoError(t, f.svc.Reserve(ctx, ReservationRequest{
		WarehouseID: f.w1, ProductID: f.p1, Quantity: qty(20),
	}))
	require.NoError(t, f.svc.Release(ctx, ReservationRequest{
		WarehouseID: f.w1, ProductID: f.p1, Quantity: qty(20),
	}))

	b, err := f.svc.GetBalance(ctx, f.w1, f.p1)
	require.NoError(t, err)
	assert.Equal(t, qty(0), b.Reserved)
	assert.Equal(t, qty(50), b.Available())
}

// --- Read operation tests ---

func TestGetBalance_UntouchedPairIsZero(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.GetBalance(context.Background(), f.w1, f.p1)
	require.NoError(t, err)
	assert.True(t, b.OnHand.IsZero())
	assert.True(t, b.Reserved.IsZero())
}

func TestGetLedger_FiltersByProduct(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 10)
	f.mustImport(t, f.w1, f.p2, 20)

	res, err := f.svc.GetLedger(context.Background(), LedgerFilter{ProductID: &f.p1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, f.p1, res.Items[0].ProductID)
	assert.Nil(t, res.Balance)
}

func TestGetLedger_StockCardIncludesBalance(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 10)

	res, err := f.svc.GetLedger(context.Background(), LedgerFilter{
		WarehouseID: &f.w1,
		ProductID:   &f.p1,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Balance)
	assert.Equal(t, qty(10), res.Balance.OnHand)
}

func TestGetDocument(t *testing.T) {
	f := newFixture(t)
	doc, err := f.svc.Import(context.Background(), ImportRequest{
		WarehouseID: f.w1,
		Lines:       []MovementLine{{ProductID: f.p1, Quantity: qty(10)}},
	})
	require.NoError(t, err)

	got, err := f.svc.GetDocument(context.Background(), doc.DocumentNo)
	require.NoError(t, err)
	assert.Equal(t, doc.DocumentNo, got.DocumentNo)
	assert.Equal(t, entity.MovementImport, got.MovementType)
	require.Len(t, got.Entries, 1)

	_, err = f.svc.GetDocument(context.Background(), "IMP-00000000-000000-0000")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetAcrossWarehouses(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 30)
	f.mustImport(t, f.w2, f.p1, 12)

	avail, err := f.svc.GetAcrossWarehouses(context.Background(), f.p1)
	require.NoError(t, err)
	assert.Len(t, avail.Balances, 2)
	assert.Equal(t, qty(42), avail.TotalOnHand)
	assert.Equal(t, qty(42), avail.TotalAvailable)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	f.balances.thresholds[f.p2] = qty(5)
	f.mustImport(t, f.w1, f.p1, 30)
	f.mustImport(t, f.w1, f.p2, 3)

	stats, err := f.svc.GetStats(context.Background(), &f.w1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.DistinctProducts)
	assert.Equal(t, qty(33), stats.TotalOnHand)
	assert.Equal(t, int64(2), stats.MovementsToday)
	assert.Equal(t, int64(1), stats.Warehouses)
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, f.p2, stats.LowStock[0].ProductID)
}

func TestGetStats_TransferCountsForDestination(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, f.w1, f.p1, 10)

	_, err := f.svc.Transfer(context.Background(), TransferRequest{
		SourceWarehouseID: f.w1,
		DestWarehouseID:   f.w2,
		Lines:             []MovementLine{{ProductID: f.p1, Quantity: qty(4)}},
	})
	require.NoError(t, err)

	stats, err := f.svc.GetStats(context.Background(), &f.w2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MovementsToday)
}

// --- Lock ordering ---

func TestSortLockKeys(t *testing.T) {
	a := id.MustParse("00000000-0000-0000-0000-000000000001")
	b := id.MustParse("00000000-0000-0000-0000-000000000002")
	c := id.MustParse("00000000-0000-0000-0000-000000000003")

	keys := []lockKey{{b, c}, {a, c}, {b, a}, {a, b}}
	sortLockKeys(keys)

	assert.Equal(t, []lockKey{{a, b}, {a, c}, {b, a}, {b, c}}, keys)
}
