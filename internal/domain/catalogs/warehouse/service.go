package warehouse

import (
	"context"
	"fmt"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/pkg/docnum"
	"fieldops/pkg/logger"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	repo    Repository
	numbers docnum.Generator
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, numbers docnum.Generator) *Service {
	return &Service{
		repo:    repo,
		numbers: numbers,
	}
}

// Create validates and persists a new warehouse.
func (s *Service) Create(ctx context.Context, wh *Warehouse) error {
	if wh.Code == "" {
		wh.Code = s.numbers.Next("WH")
	}

	if err := wh.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, wh.Code)
	if err != nil {
		return fmt.Errorf("check warehouse code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("warehouse", "code", wh.Code)
	}

	if err := s.repo.Create(ctx, wh); err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse created", "warehouse_id", wh.ID, "code", wh.Code)
	return nil
}

// GetByID retrieves a warehouse by ID.
func (s *Service) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, whID)
}

// GetByCode retrieves a warehouse by code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Warehouse, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update validates and persists warehouse changes.
func (s *Service) Update(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}

	wh.Touch()
	if err := s.repo.Update(ctx, wh); err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse updated", "warehouse_id", wh.ID)
	return nil
}

// Delete soft-deletes a warehouse. Ledger history referencing it stays intact.
func (s *Service) Delete(ctx context.Context, whID id.ID) error {
	if err := s.repo.Delete(ctx, whID); err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse deleted", "warehouse_id", whID)
	return nil
}

// List retrieves warehouses with filtering and pagination.
func (s *Service) List(ctx context.Context, f ListFilter) (ListResult, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListFilter().Limit
	}
	if f.OrderBy == "" {
		f.OrderBy = DefaultListFilter().OrderBy
	}
	return s.repo.List(ctx, f)
}

// GetMany resolves a batch of warehouse IDs in one query.
func (s *Service) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Warehouse, error) {
	return s.repo.GetMany(ctx, ids)
}
