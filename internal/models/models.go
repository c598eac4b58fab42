package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Model is the base model with common fields for all database entities
type Model struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// LeadStatusName is the derived lifecycle stage of a lead
type LeadStatusName string

const (
	// LeadStatusOpen represents a lead that is still being worked
	LeadStatusOpen LeadStatusName = "Open"
	// LeadStatusDiscarded represents a lead dropped for non-commercial reasons
	LeadStatusDiscarded LeadStatusName = "Discarded"
	// LeadStatusConverted represents a lead that became a customer
	LeadStatusConverted LeadStatusName = "Converted"
	// LeadStatusFailed represents a lead lost for commercial or technical reasons
	LeadStatusFailed LeadStatusName = "Failed"
)

// Lead represents a sales lead owned by a tenant
type Lead struct {
	Model
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	FirstName      string     `gorm:"not null" json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	ChannelID      *uuid.UUID `gorm:"type:uuid" json:"channel_id"`
	Channel        *Channel   `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	ProductID      *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	Product        *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Progress       string     `gorm:"not null" json:"progress"`
	Disposition    string     `json:"disposition"`
	SubDisposition string     `json:"sub_disposition"`

	// Denormalized current status for fast reads; the authoritative
	// sequence lives in StatusHistory and is append-only.
	CurrentStatusID   uuid.UUID      `gorm:"type:uuid;not null" json:"current_status_id"`
	CurrentStatusName LeadStatusName `gorm:"not null;index" json:"current_status"`
	StatusUpdatedAt   time.Time      `json:"status_updated_at"`

	StatusHistory []LeadStatusRecord `gorm:"foreignKey:LeadID" json:"status_history,omitempty"`

	CreatedByID  uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy    *Agent     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to_id"`
	AssignedTo   *Agent     `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedByID *uuid.UUID `gorm:"type:uuid" json:"assigned_by_id"`
	AssignedAt   *time.Time `json:"assigned_at"`

	// Version guards the read-modify-write cycle in updates; writes are
	// conditional on the version read.
	Version uint `gorm:"not null;default:1" json:"version"`
}

// LeadStatusRecord is one entry of a lead's append-only status history
type LeadStatusRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LeadID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"lead_id"`
	Name           LeadStatusName `gorm:"not null" json:"name"`
	Progress       string         `json:"progress"`
	Disposition    string         `json:"disposition"`
	SubDisposition string         `json:"sub_disposition"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// Agent represents a user who can own, allocate, or work leads
type Agent struct {
	Model
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Code      string    `gorm:"not null;uniqueIndex" json:"code"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	ChannelID *uuid.UUID `gorm:"type:uuid" json:"channel_id"`
}

// Channel represents a distribution channel leads arrive through
type Channel struct {
	Model
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Code        string    `gorm:"not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
}

// Product represents a sellable product leads can be interested in
type Product struct {
	Model
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Code        string    `gorm:"not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
}

// ModuleConfig holds per-tenant feature configuration for one module
type ModuleConfig struct {
	Model
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_module_tenant_key" json:"tenant_id"`
	ModuleKey string    `gorm:"not null;uniqueIndex:idx_module_tenant_key" json:"module_key"`
	Enabled   bool      `gorm:"not null;default:true" json:"enabled"`
	Settings  []byte    `gorm:"type:jsonb" json:"settings"`
}

// ResourceItem is a resource-center entry (guides, forms, links)
type ResourceItem struct {
	Model
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Title       string    `gorm:"not null" json:"title"`
	Category    string    `gorm:"index" json:"category"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
}

// Notification is an outbox row for a best-effort notification request.
// Rows are published to the service bus asynchronously; failures leave the
// row unpublished for the worker to retry.
type Notification struct {
	Model
	EventType   string     `gorm:"not null;index" json:"event_type"`
	EntityType  string     `gorm:"not null" json:"entity_type"`
	EntityID    uuid.UUID  `gorm:"type:uuid;not null" json:"entity_id"`
	RecipientID *uuid.UUID `gorm:"type:uuid" json:"recipient_id"`
	Payload     []byte     `gorm:"type:jsonb" json:"payload"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	Attempts    uint       `gorm:"not null;default:0" json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Agent{},
		&Channel{},
		&Product{},
		&Lead{},
		&LeadStatusRecord{},
		&AuditRecord{},
		&Application{},
		&ApplicationStatusRecord{},
		&ApplicationDocument{},
		&DocumentHistoryEntry{},
		&DiscrepancyItem{},
		&ModuleConfig{},
		&ResourceItem{},
		&Notification{},
	)

	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
