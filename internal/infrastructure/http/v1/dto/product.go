package dto

import (
	"time"

	"fieldops/internal/core/types"
	"fieldops/internal/domain/catalogs/product"
)

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Kind              string    `json:"kind"`
	SKU               *string   `json:"sku,omitempty"`
	Barcode           *string   `json:"barcode,omitempty"`
	Unit              string    `json:"unit"`
	DefaultCost       *float64  `json:"defaultCost,omitempty"`
	LowStockThreshold float64   `json:"lowStockThreshold"`
	Description       *string   `json:"description,omitempty"`
	State             string    `json:"state"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// FromProduct converts entity to response DTO.
func FromProduct(p *product.Product) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID.String(),
		Code:              p.Code,
		Name:              p.Name,
		Kind:              string(p.Kind),
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Unit:              p.Unit,
		LowStockThreshold: p.LowStockThreshold.Float64(),
		Description:       p.Description,
		State:             string(p.State),
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.DefaultCost != nil {
		cost := p.DefaultCost.InexactFloat64()
		resp.DefaultCost = &cost
	}
	return resp
}

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Code              string   `json:"code"`
	Name              string   `json:"name" binding:"required"`
	Kind              string   `json:"kind" binding:"required"`
	SKU               *string  `json:"sku"`
	Barcode           *string  `json:"barcode"`
	Unit              string   `json:"unit"`
	DefaultCost       *float64 `json:"defaultCost"`
	LowStockThreshold float64  `json:"lowStockThreshold"`
	Description       *string  `json:"description"`
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Code              *string  `json:"code"`
	Name              *string  `json:"name"`
	Kind              *string  `json:"kind"`
	SKU               *string  `json:"sku"`
	Barcode           *string  `json:"barcode"`
	Unit              *string  `json:"unit"`
	DefaultCost       *float64 `json:"defaultCost"`
	LowStockThreshold *float64 `json:"lowStockThreshold"`
	Description       *string  `json:"description"`
}

// ApplyTo merges set fields into the product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Kind != nil {
		p.Kind = product.Kind(*r.Kind)
	}
	if r.SKU != nil {
		p.SKU = r.SKU
	}
	if r.Barcode != nil {
		p.Barcode = r.Barcode
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.DefaultCost != nil {
		cost := types.NewMoney(*r.DefaultCost)
		p.DefaultCost = &cost
	}
	if r.LowStockThreshold != nil {
		p.LowStockThreshold = types.NewQuantityFromFloat64(*r.LowStockThreshold)
	}
	if r.Description != nil {
		p.Description = r.Description
	}
}
