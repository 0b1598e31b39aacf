// Package product provides the Product catalog.
// Products are the stock-tracked items of a service business: parts,
// consumables, and equipment.
package product

import (
	"context"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
	"fieldops/internal/core/types"
)

// Kind defines the item category.
type Kind string

const (
	KindPart       Kind = "part"       // spare part
	KindConsumable Kind = "consumable" // used up during a job
	KindEquipment  Kind = "equipment"  // installable unit
)

// Product represents a stock-tracked item.
type Product struct {
	entity.Catalog

	// Kind defines item category
	Kind Kind `db:"kind" json:"kind"`

	// SKU is the stock keeping unit (unique within tenant when set)
	SKU *string `db:"sku" json:"sku,omitempty"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Unit is the unit of measure (pcs, m, kg)
	Unit string `db:"unit" json:"unit"`

	// DefaultCost is the reference purchase cost per unit
	DefaultCost *types.Money `db:"default_cost" json:"defaultCost,omitempty"`

	// LowStockThreshold flags balances at or below this level in stats
	LowStockThreshold types.Quantity `db:"low_stock_threshold" json:"lowStockThreshold"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new Product with required fields.
func New(tenantID id.ID, code, name string, kind Kind) *Product {
	return &Product{
		Catalog: entity.NewCatalog(tenantID, code, name),
		Kind:    kind,
		Unit:    "pcs",
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidKind(p.Kind) {
		return apperror.NewValidation("invalid product kind").
			WithDetail("field", "kind").
			WithDetail("value", string(p.Kind))
	}

	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if p.LowStockThreshold.IsNegative() {
		return apperror.NewValidation("low stock threshold must not be negative").
			WithDetail("field", "lowStockThreshold")
	}

	return nil
}

func isValidKind(k Kind) bool {
	switch k {
	case KindPart, KindConsumable, KindEquipment:
		return true
	}
	return false
}
