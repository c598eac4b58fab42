package repositories

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page holds normalized pagination parameters
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages computes the page count for a result total
func (p Page) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / p.Size
	if int(total)%p.Size != 0 {
		pages++
	}
	return pages
}

// NormalizePage clamps user-supplied pagination to sane bounds
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Page{Number: page, Size: limit}
}

// likePattern builds a case-insensitive substring pattern, escaping the
// LIKE metacharacters in the user input.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// LeadFilter holds user-supplied lead list criteria
type LeadFilter struct {
	TenantID     *uuid.UUID
	Statuses     []models.LeadStatusName
	AssignedToID *uuid.UUID
	CreatedByID  *uuid.UUID
	ChannelID    *uuid.UUID
	ProductID    *uuid.UUID
	Search       string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Page         int
	Limit        int
}

// Apply adds the filter's predicates to a lead query
func (f LeadFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.TenantID != nil {
		db = db.Where("tenant_id = ?", *f.TenantID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("current_status_name IN ?", f.Statuses)
	}
	if f.AssignedToID != nil {
		db = db.Where("assigned_to_id = ?", *f.AssignedToID)
	}
	if f.CreatedByID != nil {
		db = db.Where("created_by_id = ?", *f.CreatedByID)
	}
	if f.ChannelID != nil {
		db = db.Where("channel_id = ?", *f.ChannelID)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		db = db.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if f.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		db = db.Where("created_at <= ?", *f.CreatedTo)
	}
	return db
}

// ApplicationFilter holds user-supplied application list criteria
type ApplicationFilter struct {
	TenantID    *uuid.UUID
	Statuses    []models.ApplicationStatus
	ProjectID   *uuid.UUID
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	Limit       int
}

// Apply adds the filter's predicates to an application query
func (f ApplicationFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.TenantID != nil {
		db = db.Where("tenant_id = ?", *f.TenantID)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", f.Statuses)
	}
	if f.ProjectID != nil {
		db = db.Where("project_id = ?", *f.ProjectID)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		db = db.Where(
			"applicant_name ILIKE ? OR applicant_email ILIKE ? OR applicant_phone ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if f.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		db = db.Where("created_at <= ?", *f.CreatedTo)
	}
	return db
}

// AgentFilter holds user-supplied agent list criteria
type AgentFilter struct {
	TenantID  *uuid.UUID
	Active    *bool
	ChannelID *uuid.UUID
	Search    string
	Page      int
	Limit     int
}

// Apply adds the filter's predicates to an agent query
func (f AgentFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.TenantID != nil {
		db = db.Where("tenant_id = ?", *f.TenantID)
	}
	if f.Active != nil {
		db = db.Where("active = ?", *f.Active)
	}
	if f.ChannelID != nil {
		db = db.Where("channel_id = ?", *f.ChannelID)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		db = db.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR code ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	return db
}
