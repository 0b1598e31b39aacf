package product

import (
	"context"
	"fmt"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
	"fieldops/pkg/docnum"
	"fieldops/pkg/logger"
)

// Service provides business logic for the Product catalog.
type Service struct {
	repo    Repository
	numbers docnum.Generator
}

// NewService creates a new Product service.
func NewService(repo Repository, numbers docnum.Generator) *Service {
	return &Service{
		repo:    repo,
		numbers: numbers,
	}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if p.Code == "" {
		p.Code = s.numbers.Next("PRD")
	}

	if err := p.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, p.Code)
	if err != nil {
		return fmt.Errorf("check product code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product", "code", p.Code)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "code", p.Code)
	return nil
}

// GetByID retrieves a product by ID.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetByCode retrieves a product by code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Product, error) {
	return s.repo.GetByCode(ctx, code)
}

// Update validates and persists product changes.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	p.Touch()
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	logger.Info(ctx, "product updated", "product_id", p.ID)
	return nil
}

// Delete soft-deletes a product. Ledger history referencing it stays intact.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// List retrieves products with filtering and pagination.
func (s *Service) List(ctx context.Context, f ListFilter) (ListResult, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListFilter().Limit
	}
	if f.OrderBy == "" {
		f.OrderBy = DefaultListFilter().OrderBy
	}
	return s.repo.List(ctx, f)
}

// GetMany resolves a batch of product IDs in one query.
func (s *Service) GetMany(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error) {
	return s.repo.GetMany(ctx, ids)
}
