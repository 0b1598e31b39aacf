// Package warehouse provides the Warehouse catalog.
// Warehouses are stock locations: central depots, service vehicles,
// and temporary site stores.
package warehouse

import (
	"context"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/entity"
	"fieldops/internal/core/id"
)

// Type defines the kind of stock location.
type Type string

const (
	TypeDepot   Type = "depot"   // central storage
	TypeVehicle Type = "vehicle" // technician van stock
	TypeSite    Type = "site"    // temporary on-site store
)

// Warehouse represents a stock location.
type Warehouse struct {
	entity.Catalog

	// Type defines the location category
	Type Type `db:"type" json:"type"`

	// Address is the physical address (empty for vehicles)
	Address *string `db:"address" json:"address,omitempty"`

	// Description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new Warehouse with required fields.
func New(tenantID id.ID, code, name string, whType Type) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(tenantID, code, name),
		Type:    whType,
	}
}

// Validate implements entity.Validatable interface.
func (w *Warehouse) Validate(ctx context.Context) error {
	if err := w.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidType(w.Type) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}

	return nil
}

// CanMoveStock returns true if the warehouse may participate in movements.
func (w *Warehouse) CanMoveStock() bool {
	return !w.IsDeleted()
}

func isValidType(t Type) bool {
	switch t {
	case TypeDepot, TypeVehicle, TypeSite:
		return true
	}
	return false
}
