package entity

import (
	"context"

	"fieldops/internal/core/apperror"
	"fieldops/internal/core/id"
)

// Catalog is the base type for reference data.
// Examples: Warehouses, Products.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier (unique within tenant)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(tenantID id.ID, code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(tenantID),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if c.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}

	return nil
}
