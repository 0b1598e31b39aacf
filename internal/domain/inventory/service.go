package inventory

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fieldops/internal/core/apperror"
	appctx "fieldops/internal/core/context"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/tx"
	"fieldops/internal/domain/catalogs/product"
	"fieldops/internal/domain/catalogs/warehouse"
	"fieldops/pkg/docnum"
	"fieldops/pkg/logger"
)

// WarehouseRegistry resolves warehouse references for movement validation.
type WarehouseRegistry interface {
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*warehouse.Warehouse, error)
}

// ProductCatalog resolves product references for movement validation.
type ProductCatalog interface {
	GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error)
}

// AuditRecorder persists posted movement documents for the audit trail.
// Recording happens inside the movement transaction.
type AuditRecorder interface {
	RecordMovement(ctx context.Context, doc *MovementDocument) error
}

// Service is the inventory ledger engine. All four movement operations
// run inside a single transaction: validate, lock balance rows in global
// order, apply balance changes, append ledger entries.
type Service struct {
	txm        tx.Manager
	ledger     LedgerRepository
	balances   BalanceRepository
	warehouses WarehouseRegistry
	products   ProductCatalog
	numbers    docnum.Generator
	audit      AuditRecorder
}

// NewService creates the inventory engine. audit may be nil.
func NewService(
	txm tx.Manager,
	ledger LedgerRepository,
	balances BalanceRepository,
	warehouses WarehouseRegistry,
	products ProductCatalog,
	numbers docnum.Generator,
	audit AuditRecorder,
) *Service {
	return &Service{
		txm:        txm,
		ledger:     ledger,
		balances:   balances,
		warehouses: warehouses,
		products:   products,
		numbers:    numbers,
		audit:      audit,
	}
}

// --- Movement operations ---

// Import brings stock into a warehouse and returns the posted document.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*MovementDocument, error) {
	if err := validateLines(req.Lines, true); err != nil {
		return nil, err
	}
	if _, err := s.resolveWarehouses(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := s.resolveProducts(ctx, lineProductIDs(req.Lines)); err != nil {
		return nil, err
	}

	docNo := s.numbers.Next(docnum.PrefixImport)
	now := time.Now().UTC()
	tenant := tenantID(ctx)
	user := appctx.GetUserID(ctx)

	var doc *MovementDocument
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockBalances(ctx, lockKeysFor(req.WarehouseID, req.Lines)); err != nil {
			return err
		}

		entries := make([]entity.LedgerEntry, 0, len(req.Lines))
		for _, line := range req.Lines {
			if err := s.balances.Credit(ctx, req.WarehouseID, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("credit balance: %w", err)
			}
			entries = append(entries, entity.LedgerEntry{
				ID:           id.New(),
				TenantID:     tenant,
				DocumentNo:   docNo,
				MovementType: entity.MovementImport,
				Direction:    entity.DirectionReceipt,
				WarehouseID:  req.WarehouseID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				UnitCost:     line.UnitCost,
				Reason:       req.Reason,
				SourceRef:    req.SourceRef,
				CreatedAt:    now,
				CreatedBy:    user,
			})
		}

		if err := s.ledger.CreateEntries(ctx, entries); err != nil {
			return fmt.Errorf("append ledger: %w", err)
		}

		doc = &MovementDocument{
			DocumentNo:   docNo,
			MovementType: entity.MovementImport,
			Entries:      entries,
			CreatedAt:    now,
		}
		return s.recordAudit(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "import posted",
		"document_no", docNo,
		"warehouse_id", req.WarehouseID,
		"lines", len(req.Lines),
	)
	return doc, nil
}

// Export removes stock from a warehouse. All lines are checked against
// availability under lock; any shortage rejects the whole document with
// every failing line reported.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*MovementDocument, error) {
	if err := validateLines(req.Lines, false); err != nil {
		return nil, err
	}
	if _, err := s.resolveWarehouses(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	products, err := s.resolveProducts(ctx, lineProductIDs(req.Lines))
	if err != nil {
		return nil, err
	}

	docNo := s.numbers.Next(docnum.PrefixExport)
	now := time.Now().UTC()
	tenant := tenantID(ctx)
	user := appctx.GetUserID(ctx)

	var doc *MovementDocument
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.lockBalancesMap(ctx, lockKeysFor(req.WarehouseID, req.Lines))
		if err != nil {
			return err
		}

		// Reservation-backed exports may dip into the reserved share,
		// so they check on-hand instead of available.
		fromReservation := req.WorkOrderRef != ""
		var short []apperror.InsufficientLine
		for _, line := range req.Lines {
			bal := locked[lockKey{req.WarehouseID, line.ProductID}]
			limit := bal.Available()
			if fromReservation {
				limit = bal.OnHand
			}
			if line.Quantity > limit {
				sl := apperror.InsufficientLine{
					ProductID: line.ProductID.String(),
					Requested: line.Quantity.Float64(),
					Available: bal.Available().Float64(),
					OnHand:    bal.OnHand.Float64(),
					Reserved:  bal.Reserved.Float64(),
				}
				if p := products[line.ProductID]; p != nil {
					sl.ProductName = p.Name
				}
				short = append(short, sl)
			}
		}
		if len(short) > 0 {
			return apperror.NewInsufficientStock(short)
		}

		entries := make([]entity.LedgerEntry, 0, len(req.Lines))
		for _, line := range req.Lines {
			if err := s.balances.Debit(ctx, req.WarehouseID, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("debit balance: %w", err)
			}
			if fromReservation {
				bal := locked[lockKey{req.WarehouseID, line.ProductID}]
				release := line.Quantity
				if bal.Reserved < release {
					release = bal.Reserved
				}
				if release.IsPositive() {
					if err := s.balances.ReleaseReservation(ctx, req.WarehouseID, line.ProductID, release); err != nil {
						return fmt.Errorf("release reservation: %w", err)
					}
				}
			}
			entries = append(entries, entity.LedgerEntry{
				ID:           id.New(),
				TenantID:     tenant,
				DocumentNo:   docNo,
				MovementType: entity.MovementExport,
				Direction:    entity.DirectionExpense,
				WarehouseID:  req.WarehouseID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				Reason:       req.Reason,
				WorkOrderRef: req.WorkOrderRef,
				CreatedAt:    now,
				CreatedBy:    user,
			})
		}

		if err := s.ledger.CreateEntries(ctx, entries); err != nil {
			return fmt.Errorf("append ledger: %w", err)
		}

		doc = &MovementDocument{
			DocumentNo:   docNo,
			MovementType: entity.MovementExport,
			Entries:      entries,
			CreatedAt:    now,
		}
		return s.recordAudit(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "export posted",
		"document_no", docNo,
		"warehouse_id", req.WarehouseID,
		"lines", len(req.Lines),
	)
	return doc, nil
}

// Transfer moves stock between two warehouses in one transaction.
// A transfer produces one ledger entry per line covering both sides.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*MovementDocument, error) {
	if req.SourceWarehouseID == req.DestWarehouseID {
		return nil, apperror.NewValidation("source and destination warehouses must differ")
	}
	if err := validateLines(req.Lines, false); err != nil {
		return nil, err
	}
	if _, err := s.resolveWarehouses(ctx, req.SourceWarehouseID, req.DestWarehouseID); err != nil {
		return nil, err
	}
	products, err := s.resolveProducts(ctx, lineProductIDs(req.Lines))
	if err != nil {
		return nil, err
	}

	docNo := s.numbers.Next(docnum.PrefixTransfer)
	now := time.Now().UTC()
	tenant := tenantID(ctx)
	user := appctx.GetUserID(ctx)

	var doc *MovementDocument
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		// Both sides are locked as one globally ordered set, so two
		// opposite transfers cannot deadlock on each other.
		keys := append(lockKeysFor(req.SourceWarehouseID, req.Lines),
			lockKeysFor(req.DestWarehouseID, req.Lines)...)
		locked, err := s.lockBalancesMap(ctx, keys)
		if err != nil {
			return err
		}

		var short []apperror.InsufficientLine
		for _, line := range req.Lines {
			bal := locked[lockKey{req.SourceWarehouseID, line.ProductID}]
			if line.Quantity > bal.Available() {
				sl := apperror.InsufficientLine{
					ProductID: line.ProductID.String(),
					Requested: line.Quantity.Float64(),
					Available: bal.Available().Float64(),
					OnHand:    bal.OnHand.Float64(),
					Reserved:  bal.Reserved.Float64(),
				}
				if p := products[line.ProductID]; p != nil {
					sl.ProductName = p.Name
				}
				short = append(short, sl)
			}
		}
		if len(short) > 0 {
			return apperror.NewInsufficientStock(short)
		}

		entries := make([]entity.LedgerEntry, 0, len(req.Lines))
		for _, line := range req.Lines {
			if err := s.balances.Debit(ctx, req.SourceWarehouseID, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("debit source: %w", err)
			}
			if err := s.balances.Credit(ctx, req.DestWarehouseID, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("credit destination: %w", err)
			}
			dest := req.DestWarehouseID
			entries = append(entries, entity.LedgerEntry{
				ID:              id.New(),
				TenantID:        tenant,
				DocumentNo:      docNo,
				MovementType:    entity.MovementTransfer,
				Direction:       entity.DirectionExpense,
				WarehouseID:     req.SourceWarehouseID,
				DestWarehouseID: &dest,
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				Reason:          req.Reason,
				CreatedAt:       now,
				CreatedBy:       user,
			})
		}

		if err := s.ledger.CreateEntries(ctx, entries); err != nil {
			return fmt.Errorf("append ledger: %w", err)
		}

		doc = &MovementDocument{
			DocumentNo:   docNo,
			MovementType: entity.MovementTransfer,
			Entries:      entries,
			CreatedAt:    now,
		}
		return s.recordAudit(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer posted",
		"document_no", docNo,
		"source_warehouse_id", req.SourceWarehouseID,
		"dest_warehouse_id", req.DestWarehouseID,
		"lines", len(req.Lines),
	)
	return doc, nil
}

// Stocktake corrects balances to counted quantities. Lines whose count
// matches the current balance produce no entry; a document where nothing
// changed posts with an empty entry list.
func (s *Service) Stocktake(ctx context.Context, req StocktakeRequest) (*MovementDocument, error) {
	if err := validateStocktakeLines(req.Lines); err != nil {
		return nil, err
	}
	if _, err := s.resolveWarehouses(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	ids := make([]id.ID, len(req.Lines))
	for i, line := range req.Lines {
		ids[i] = line.ProductID
	}
	if _, err := s.resolveProducts(ctx, ids); err != nil {
		return nil, err
	}

	docNo := s.numbers.Next(docnum.PrefixStocktake)
	now := time.Now().UTC()
	tenant := tenantID(ctx)
	user := appctx.GetUserID(ctx)

	var doc *MovementDocument
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		keys := make([]lockKey, len(req.Lines))
		for i, line := range req.Lines {
			keys[i] = lockKey{req.WarehouseID, line.ProductID}
		}
		locked, err := s.lockBalancesMap(ctx, keys)
		if err != nil {
			return err
		}

		entries := make([]entity.LedgerEntry, 0, len(req.Lines))
		for _, line := range req.Lines {
			bal := locked[lockKey{req.WarehouseID, line.ProductID}]
			delta := line.CountedQty - bal.OnHand
			if delta.IsZero() {
				continue
			}

			if err := s.balances.SetOnHand(ctx, req.WarehouseID, line.ProductID, line.CountedQty); err != nil {
				return fmt.Errorf("set on-hand: %w", err)
			}

			direction := entity.DirectionReceipt
			if delta.IsNegative() {
				direction = entity.DirectionExpense
			}
			entries = append(entries, entity.LedgerEntry{
				ID:           id.New(),
				TenantID:     tenant,
				DocumentNo:   docNo,
				MovementType: entity.MovementStocktake,
				Direction:    direction,
				WarehouseID:  req.WarehouseID,
				ProductID:    line.ProductID,
				Quantity:     delta.Abs(),
				Reason:       req.Reason,
				CreatedAt:    now,
				CreatedBy:    user,
			})
		}

		if len(entries) > 0 {
			if err := s.ledger.CreateEntries(ctx, entries); err != nil {
				return fmt.Errorf("append ledger: %w", err)
			}
		}

		doc = &MovementDocument{
			DocumentNo:   docNo,
			MovementType: entity.MovementStocktake,
			Entries:      entries,
			CreatedAt:    now,
		}
		return s.recordAudit(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stocktake posted",
		"document_no", docNo,
		"warehouse_id", req.WarehouseID,
		"adjustments", len(doc.Entries),
	)
	return doc, nil
}

// --- Reservations ---

// Reserve holds stock for a work order. The hold counts against
// availability but stays on hand until consumed or released.
func (s *Service) Reserve(ctx context.Context, req ReservationRequest) error {
	if !req.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive")
	}
	if _, err := s.resolveWarehouses(ctx, req.WarehouseID); err != nil {
		return err
	}
	products, err := s.resolveProducts(ctx, []id.ID{req.ProductID})
	if err != nil {
		return err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		bal, err := s.balances.GetForUpdate(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}
		if req.Quantity > bal.Available() {
			sl := apperror.InsufficientLine{
				ProductID: req.ProductID.String(),
				Requested: req.Quantity.Float64(),
				Available: bal.Available().Float64(),
				OnHand:    bal.OnHand.Float64(),
				Reserved:  bal.Reserved.Float64(),
			}
			if p := products[req.ProductID]; p != nil {
				sl.ProductName = p.Name
			}
			return apperror.NewInsufficientStock([]apperror.InsufficientLine{sl})
		}
		return s.balances.Reserve(ctx, req.WarehouseID, req.ProductID, req.Quantity)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock reserved",
		"warehouse_id", req.WarehouseID,
		"product_id", req.ProductID,
		"work_order_ref", req.WorkOrderRef,
	)
	return nil
}

// Release frees a reservation without moving stock.
func (s *Service) Release(ctx context.Context, req ReservationRequest) error {
	if !req.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive")
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.balances.GetForUpdate(ctx, req.WarehouseID, req.ProductID); err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}
		return s.balances.ReleaseReservation(ctx, req.WarehouseID, req.ProductID, req.Quantity)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "reservation released",
		"warehouse_id", req.WarehouseID,
		"product_id", req.ProductID,
		"work_order_ref", req.WorkOrderRef,
	)
	return nil
}

// --- Read operations ---

// GetBalance returns the balance for one warehouse and product.
// An untouched pair reads as zero.
func (s *Service) GetBalance(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	return s.balances.Get(ctx, warehouseID, productID)
}

// ListBalances returns balances with filtering and pagination.
func (s *Service) ListBalances(ctx context.Context, f BalanceFilter) (BalanceResult, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return s.balances.List(ctx, f)
}

// GetLedger returns a page of ledger entries matching the filter.
// With both warehouse and product pinned the result is a stock card
// and includes the current balance snapshot.
func (s *Service) GetLedger(ctx context.Context, f LedgerFilter) (LedgerResult, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.OrderBy == "" {
		f.OrderBy = "-created_at"
	}
	res, err := s.ledger.List(ctx, f)
	if err != nil {
		return LedgerResult{}, err
	}

	if f.WarehouseID != nil && f.ProductID != nil {
		bal, err := s.balances.Get(ctx, *f.WarehouseID, *f.ProductID)
		if err != nil {
			return LedgerResult{}, fmt.Errorf("balance snapshot: %w", err)
		}
		res.Balance = &bal
	}
	return res, nil
}

// GetDocument returns a posted movement document by number.
func (s *Service) GetDocument(ctx context.Context, documentNo string) (*MovementDocument, error) {
	entries, err := s.ledger.GetByDocumentNo(ctx, documentNo)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperror.NewNotFound("movement document", documentNo)
	}
	return &MovementDocument{
		DocumentNo:   documentNo,
		MovementType: entries[0].MovementType,
		Entries:      entries,
		CreatedAt:    entries[0].CreatedAt,
	}, nil
}

// GetAcrossWarehouses returns per-warehouse balances and totals for a product.
func (s *Service) GetAcrossWarehouses(ctx context.Context, productID id.ID) (ProductAvailability, error) {
	if _, err := s.resolveProducts(ctx, []id.ID{productID}); err != nil {
		return ProductAvailability{}, err
	}

	balances, err := s.balances.ListByProduct(ctx, productID)
	if err != nil {
		return ProductAvailability{}, fmt.Errorf("list balances: %w", err)
	}

	out := ProductAvailability{
		ProductID: productID,
		Balances:  balances,
	}
	for _, b := range balances {
		out.TotalOnHand += b.OnHand
		out.TotalReserved += b.Reserved
	}
	out.TotalAvailable = out.TotalOnHand - out.TotalReserved
	return out, nil
}

// GetStats returns warehouse statistics, optionally scoped to one warehouse.
func (s *Service) GetStats(ctx context.Context, warehouseID *id.ID) (Stats, error) {
	stats, err := s.balances.Stats(ctx, warehouseID)
	if err != nil {
		return Stats{}, fmt.Errorf("balance stats: %w", err)
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	moved, err := s.ledger.CountSince(ctx, warehouseID, midnight)
	if err != nil {
		return Stats{}, fmt.Errorf("count movements: %w", err)
	}
	stats.MovementsToday = moved
	return stats, nil
}

// --- Internals ---

// lockKey identifies one balance row.
type lockKey struct {
	WarehouseID id.ID
	ProductID   id.ID
}

// sortLockKeys orders keys ascending by (warehouse, product) bytes.
// Every movement locks in this order, which rules out lock cycles
// between concurrent documents.
func sortLockKeys(keys []lockKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && lessLockKey(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func lessLockKey(a, b lockKey) bool {
	if c := bytes.Compare(a.WarehouseID[:], b.WarehouseID[:]); c != 0 {
		return c < 0
	}
	return bytes.Compare(a.ProductID[:], b.ProductID[:]) < 0
}

func lockKeysFor(warehouseID id.ID, lines []MovementLine) []lockKey {
	keys := make([]lockKey, len(lines))
	for i, line := range lines {
		keys[i] = lockKey{warehouseID, line.ProductID}
	}
	return keys
}

func (s *Service) lockBalances(ctx context.Context, keys []lockKey) error {
	_, err := s.lockBalancesMap(ctx, keys)
	return err
}

func (s *Service) lockBalancesMap(ctx context.Context, keys []lockKey) (map[lockKey]entity.StockBalance, error) {
	sortLockKeys(keys)
	locked := make(map[lockKey]entity.StockBalance, len(keys))
	for _, k := range keys {
		bal, err := s.balances.GetForUpdate(ctx, k.WarehouseID, k.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lock balance %s/%s: %w", k.WarehouseID, k.ProductID, err)
		}
		locked[k] = bal
	}
	return locked, nil
}

func (s *Service) recordAudit(ctx context.Context, doc *MovementDocument) error {
	if s.audit == nil {
		return nil
	}
	if err := s.audit.RecordMovement(ctx, doc); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

func (s *Service) resolveWarehouses(ctx context.Context, ids ...id.ID) (map[id.ID]*warehouse.Warehouse, error) {
	found, err := s.warehouses.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve warehouses: %w", err)
	}
	for _, whID := range ids {
		wh, ok := found[whID]
		if !ok {
			return nil, apperror.NewNotFound("warehouse", whID)
		}
		if !wh.CanMoveStock() {
			return nil, apperror.NewValidation("warehouse is deleted").
				WithDetail("warehouse_id", whID)
		}
	}
	return found, nil
}

func (s *Service) resolveProducts(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	found, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	var missing []string
	for _, pid := range ids {
		if p, ok := found[pid]; !ok || p.IsDeleted() {
			missing = append(missing, pid.String())
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewUnknownProducts(missing)
	}
	return found, nil
}

func lineProductIDs(lines []MovementLine) []id.ID {
	ids := make([]id.ID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	return ids
}

// validateLines checks structural invariants of movement lines and
// reports every violation at once.
func validateLines(lines []MovementLine, withCost bool) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line is required")
	}

	var problems []map[string]any
	seen := make(map[id.ID]bool, len(lines))
	for i, line := range lines {
		if id.IsNil(line.ProductID) {
			problems = append(problems, lineProblem(i, "product_id is required"))
		}
		if !line.Quantity.IsPositive() {
			problems = append(problems, lineProblem(i, "quantity must be positive"))
		}
		if seen[line.ProductID] {
			problems = append(problems, lineProblem(i, "duplicate product"))
		}
		seen[line.ProductID] = true
		if withCost && line.UnitCost != nil && line.UnitCost.IsNegative() {
			problems = append(problems, lineProblem(i, "unit cost must not be negative"))
		}
	}

	if len(problems) > 0 {
		return apperror.NewValidation("invalid movement lines").
			WithDetail("lines", problems)
	}
	return nil
}

func validateStocktakeLines(lines []StocktakeLine) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line is required")
	}

	var problems []map[string]any
	seen := make(map[id.ID]bool, len(lines))
	for i, line := range lines {
		if id.IsNil(line.ProductID) {
			problems = append(problems, lineProblem(i, "product_id is required"))
		}
		if line.CountedQty.IsNegative() {
			problems = append(problems, lineProblem(i, "counted quantity must not be negative"))
		}
		if seen[line.ProductID] {
			problems = append(problems, lineProblem(i, "duplicate product"))
		}
		seen[line.ProductID] = true
	}

	if len(problems) > 0 {
		return apperror.NewValidation("invalid stocktake lines").
			WithDetail("lines", problems)
	}
	return nil
}

func lineProblem(idx int, msg string) map[string]any {
	return map[string]any{"line": idx, "error": msg}
}

func tenantID(ctx context.Context) id.ID {
	tid, err := id.Parse(appctx.GetTenantID(ctx))
	if err != nil {
		return id.Nil()
	}
	return tid
}
