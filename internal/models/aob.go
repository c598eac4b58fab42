package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the aggregate status of an onboarding application
type ApplicationStatus string

const (
	// ApplicationStatusSubmitted represents a freshly submitted application
	ApplicationStatusSubmitted ApplicationStatus = "applicationSubmitted"
	// ApplicationStatusUnderReview represents an application being reviewed
	ApplicationStatusUnderReview ApplicationStatus = "underReview"
	// ApplicationStatusApproved represents a fully approved application
	ApplicationStatusApproved ApplicationStatus = "approved"
	// ApplicationStatusRejected represents a terminally rejected application
	ApplicationStatusRejected ApplicationStatus = "rejected"
	// ApplicationStatusReturned represents an application sent back for fixes
	ApplicationStatusReturned ApplicationStatus = "returned"
)

// DocumentDecision is the review status of a single application document
type DocumentDecision string

const (
	// DocumentSubmitted is the initial state of an uploaded document
	DocumentSubmitted DocumentDecision = "documentSubmitted"
	// DocumentApproved marks a document accepted by the reviewer
	DocumentApproved DocumentDecision = "approve"
	// DocumentRejected marks a document rejected with remarks
	DocumentRejected DocumentDecision = "reject"
)

// Application represents an agent-onboarding (AOB) application
type Application struct {
	Model
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ApplicantName  string     `gorm:"not null" json:"applicant_name"`
	ApplicantEmail string     `gorm:"not null" json:"applicant_email"`
	ApplicantPhone string     `json:"applicant_phone"`
	ProjectID      *uuid.UUID `gorm:"type:uuid" json:"project_id"`
	ChannelID      *uuid.UUID `gorm:"type:uuid" json:"channel_id"`

	Status          ApplicationStatus `gorm:"not null;index" json:"status"`
	StatusUpdatedAt time.Time         `json:"status_updated_at"`

	StatusHistory []ApplicationStatusRecord `gorm:"foreignKey:ApplicationID" json:"status_history,omitempty"`
	Documents     []ApplicationDocument     `gorm:"foreignKey:ApplicationID" json:"documents,omitempty"`

	// Discrepancies is a derived cache of the documents currently rejected
	// with remarks, keyed by document type. Maintained on every document
	// status change.
	Discrepancies []DiscrepancyItem `gorm:"foreignKey:ApplicationID" json:"discrepancies,omitempty"`

	CreatedByID  uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`
	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_id"`

	// AgentID is set when final approval provisions the downstream agent.
	AgentID *uuid.UUID `gorm:"type:uuid" json:"agent_id"`

	Version uint `gorm:"not null;default:1" json:"version"`
}

// ApplicationStatusRecord is one entry of an application's append-only
// status history
type ApplicationStatusRecord struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"application_id"`
	Status        ApplicationStatus `gorm:"not null" json:"status"`
	ChangedByID   uuid.UUID         `gorm:"type:uuid" json:"changed_by_id"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// ApplicationDocument is one uploaded document belonging to an application
type ApplicationDocument struct {
	Model
	ApplicationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"application_id"`
	Type          string           `gorm:"not null" json:"type"`
	Name          string           `json:"name"`
	FileKey       string           `json:"file_key"`
	Status        DocumentDecision `gorm:"not null;default:'documentSubmitted'" json:"status"`
	Remarks       string           `json:"remarks"`
}

// DocumentHistoryEntry is one append-only history entry for a document
// status change. Parallel to the entity audit trail, never updated.
type DocumentHistoryEntry struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"application_id"`
	DocumentID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"document_id"`
	Status        DocumentDecision `gorm:"not null" json:"status"`
	Remarks       string           `json:"remarks"`
	ChangedByID   uuid.UUID        `gorm:"type:uuid" json:"changed_by_id"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// DiscrepancyItem is one entry of an application's discrepancy list,
// unique per document type within the application
type DiscrepancyItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_discrepancy_app_type" json:"application_id"`
	DocumentType  string    `gorm:"not null;uniqueIndex:idx_discrepancy_app_type" json:"document_type"`
	DocumentID    uuid.UUID `gorm:"type:uuid;not null" json:"document_id"`
	Remarks       string    `gorm:"not null" json:"remarks"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
