package dto

import (
	"time"

	"fieldops/internal/domain/catalogs/warehouse"
)

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Address     *string   `json:"address,omitempty"`
	Description *string   `json:"description,omitempty"`
	State       string    `json:"state"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromWarehouse converts entity to response DTO.
func FromWarehouse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:          w.ID.String(),
		Code:        w.Code,
		Name:        w.Name,
		Type:        string(w.Type),
		Address:     w.Address,
		Description: w.Description,
		State:       string(w.State),
		Version:     w.Version,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// CreateWarehouseRequest for creating warehouses.
type CreateWarehouseRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// UpdateWarehouseRequest for updating warehouses.
type UpdateWarehouseRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// ApplyTo merges set fields into the warehouse.
func (r UpdateWarehouseRequest) ApplyTo(w *warehouse.Warehouse) {
	if r.Code != nil {
		w.Code = *r.Code
	}
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.Type != nil {
		w.Type = warehouse.Type(*r.Type)
	}
	if r.Address != nil {
		w.Address = r.Address
	}
	if r.Description != nil {
		w.Description = r.Description
	}
}
