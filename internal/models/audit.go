package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType classifies an audit record
type ChangeType string

const (
	// ChangeCreate is logged once per field when an entity is created
	ChangeCreate ChangeType = "CREATE"
	// ChangeUpdate is logged per changed field on mutation
	ChangeUpdate ChangeType = "UPDATE"
	// ChangeDelete is logged when an entity is soft-deleted
	ChangeDelete ChangeType = "DELETE"
)

// AuditRecord is one immutable field-level change record. The set of
// records for an entity, replayed in created-at order, reconstructs every
// historical field value. Records are never updated or deleted.
type AuditRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType  string     `gorm:"not null;index:idx_audit_entity" json:"entity_type"`
	EntityID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	Field       string     `gorm:"not null" json:"field"`
	OldValue    *string    `json:"old_value"`
	NewValue    *string    `json:"new_value"`
	ChangedByID uuid.UUID  `gorm:"type:uuid;not null" json:"changed_by_id"`
	ChangeType  ChangeType `gorm:"not null" json:"change_type"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
