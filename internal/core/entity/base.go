package entity

import (
	"context"
	"time"

	"fieldops/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// State is the lifecycle state of a catalog entity.
// Deleted entities are hidden from lookups but retained for ledger history.
type State string

const (
	StateActive  State = "active"
	StateDeleted State = "deleted"
)

// BaseEntity contains common fields for all catalog entities.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// TenantID scopes the row in the shared schema
	TenantID id.ID `db:"tenant_id" json:"-"`

	// State is the lifecycle state (active or deleted)
	State State `db:"state" json:"state"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity(tenantID id.ID) BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		TenantID:  tenantID,
		State:     StateActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// MarkDeleted moves the entity to the deleted state.
func (b *BaseEntity) MarkDeleted() {
	now := time.Now().UTC()
	b.State = StateDeleted
	b.DeletedAt = &now
	b.Touch()
}

// Restore moves the entity back to the active state.
func (b *BaseEntity) Restore() {
	b.State = StateActive
	b.DeletedAt = nil
	b.Touch()
}

// IsDeleted reports whether the entity is soft-deleted.
func (b *BaseEntity) IsDeleted() bool {
	return b.State == StateDeleted
}

// SetVersion updates the version number (used by repository after sync).
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}
