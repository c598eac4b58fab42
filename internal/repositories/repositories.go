package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
)

// Repository provides data access methods. The lifecycle services are the
// only writers of status and history fields; handlers read through the
// same interface.
type Repository interface {
	// Transaction support
	WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error

	// Lead operations
	CreateLead(ctx context.Context, lead *models.Lead) error
	FindLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	UpdateLead(ctx context.Context, lead *models.Lead, expectedVersion uint) error
	SoftDeleteLead(ctx context.Context, id uuid.UUID) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]*models.Lead, int64, error)
	InsertLeadStatus(ctx context.Context, record *models.LeadStatusRecord) error
	ListLeadStatuses(ctx context.Context, leadID uuid.UUID) ([]*models.LeadStatusRecord, error)

	// Agent operations
	CreateAgent(ctx context.Context, agent *models.Agent) error
	UpdateAgent(ctx context.Context, agent *models.Agent) error
	FindAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	FindActiveAgentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Agent, error)
	ListAgents(ctx context.Context, filter AgentFilter) ([]*models.Agent, int64, error)
	CountAgentsByCodeOrEmail(ctx context.Context, code, email string, excludeID uuid.UUID) (int64, error)

	// Audit operations
	InsertAuditRecords(ctx context.Context, records []*models.AuditRecord) error
	ListAuditRecords(ctx context.Context, entityType string, entityID uuid.UUID) ([]*models.AuditRecord, error)

	// Application operations
	CreateApplication(ctx context.Context, app *models.Application) error
	FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	UpdateApplication(ctx context.Context, app *models.Application, expectedVersion uint) error
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error)
	InsertApplicationStatus(ctx context.Context, record *models.ApplicationStatusRecord) error
	UpdateDocument(ctx context.Context, doc *models.ApplicationDocument) error
	InsertDocumentHistory(ctx context.Context, entry *models.DocumentHistoryEntry) error
	UpsertDiscrepancy(ctx context.Context, item *models.DiscrepancyItem) error
	DeleteDiscrepancyByType(ctx context.Context, applicationID uuid.UUID, documentType string) error
	ListDiscrepancies(ctx context.Context, applicationID uuid.UUID) ([]*models.DiscrepancyItem, error)

	// Catalog operations
	CreateChannel(ctx context.Context, channel *models.Channel) error
	UpdateChannel(ctx context.Context, channel *models.Channel) error
	FindChannelByID(ctx context.Context, id uuid.UUID) (*models.Channel, error)
	ListChannels(ctx context.Context, tenantID uuid.UUID) ([]*models.Channel, error)
	CountChannelsByCode(ctx context.Context, code string, excludeID uuid.UUID) (int64, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error)
	CountProductsByCode(ctx context.Context, code string, excludeID uuid.UUID) (int64, error)

	// Module configuration
	UpsertModuleConfig(ctx context.Context, cfg *models.ModuleConfig) error
	FindModuleConfig(ctx context.Context, tenantID uuid.UUID, moduleKey string) (*models.ModuleConfig, error)
	ListModuleConfigs(ctx context.Context, tenantID uuid.UUID) ([]*models.ModuleConfig, error)

	// Resource center
	CreateResourceItem(ctx context.Context, item *models.ResourceItem) error
	ListResourceItems(ctx context.Context, tenantID uuid.UUID, category string) ([]*models.ResourceItem, error)
	SoftDeleteResourceItem(ctx context.Context, id uuid.UUID) error

	// Notification outbox
	InsertNotification(ctx context.Context, notification *models.Notification) error
	MarkNotificationPublished(ctx context.Context, id uuid.UUID) error
	MarkNotificationFailed(ctx context.Context, id uuid.UUID, lastError string) error
	ListUnpublishedNotifications(ctx context.Context, limit int) ([]*models.Notification, error)
}

// repo is the GORM implementation of the Repository interface
type repo struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

// WithTransaction executes the given function within a database transaction
func (r *repo) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &repo{db: tx})
	})
}

// Lead operations implementation

func (r *repo) CreateLead(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return errors.Wrap(err, "failed to create lead")
	}
	return nil
}

func (r *repo) FindLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.WithContext(ctx).
		Preload("Channel").
		Preload("Product").
		Preload("CreatedBy").
		Preload("AssignedTo").
		First(&lead, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get lead by ID")
	}
	return &lead, nil
}

// UpdateLead persists the full lead row conditionally on the version the
// caller read. A zero-row match means the lead vanished or was updated
// concurrently; the caller decides which.
func (r *repo) UpdateLead(ctx context.Context, lead *models.Lead, expectedVersion uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ? AND version = ?", lead.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(lead)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update lead")
	}
	if result.RowsAffected == 0 {
		return ErrStaleObject
	}
	return nil
}

func (r *repo) SoftDeleteLead(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Lead{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete lead")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) ListLeads(ctx context.Context, filter LeadFilter) ([]*models.Lead, int64, error) {
	page := NormalizePage(filter.Page, filter.Limit)

	query := filter.Apply(r.db.WithContext(ctx).Model(&models.Lead{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count leads")
	}

	var leads []*models.Lead
	err := query.
		Preload("Channel").
		Preload("Product").
		Preload("AssignedTo").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&leads).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list leads")
	}

	return leads, total, nil
}

func (r *repo) InsertLeadStatus(ctx context.Context, record *models.LeadStatusRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.Wrap(err, "failed to insert lead status record")
	}
	return nil
}

func (r *repo) ListLeadStatuses(ctx context.Context, leadID uuid.UUID) ([]*models.LeadStatusRecord, error) {
	var records []*models.LeadStatusRecord
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list lead status history")
	}
	return records, nil
}

// Agent operations implementation

func (r *repo) CreateAgent(ctx context.Context, agent *models.Agent) error {
	if err := r.db.WithContext(ctx).Create(agent).Error; err != nil {
		return errors.Wrap(err, "failed to create agent")
	}
	return nil
}

func (r *repo) UpdateAgent(ctx context.Context, agent *models.Agent) error {
	if err := r.db.WithContext(ctx).Save(agent).Error; err != nil {
		return errors.Wrap(err, "failed to update agent")
	}
	return nil
}

func (r *repo) FindAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get agent by ID")
	}
	return &agent, nil
}

// FindActiveAgentsByIDs returns only the agents that exist, are active,
// and are not soft-deleted. Missing and inactive ids are simply absent
// from the result; callers diff against their input.
func (r *repo) FindActiveAgentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Agent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var agents []*models.Agent
	err := r.db.WithContext(ctx).
		Where("id IN ? AND active = ?", ids, true).
		Find(&agents).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find agents by ids")
	}
	return agents, nil
}

func (r *repo) ListAgents(ctx context.Context, filter AgentFilter) ([]*models.Agent, int64, error) {
	page := NormalizePage(filter.Page, filter.Limit)

	query := filter.Apply(r.db.WithContext(ctx).Model(&models.Agent{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count agents")
	}

	var agents []*models.Agent
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&agents).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list agents")
	}

	return agents, total, nil
}

func (r *repo) CountAgentsByCodeOrEmail(ctx context.Context, code, email string, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("code = ? OR email = ?", code, email)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count agents by code or email")
	}
	return count, nil
}

// Audit operations implementation

func (r *repo) InsertAuditRecords(ctx context.Context, records []*models.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(records).Error; err != nil {
		return errors.Wrap(err, "failed to insert audit records")
	}
	return nil
}

func (r *repo) ListAuditRecords(ctx context.Context, entityType string, entityID uuid.UUID) ([]*models.AuditRecord, error) {
	var records []*models.AuditRecord
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit records")
	}
	return records, nil
}

// Application operations implementation

func (r *repo) CreateApplication(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return errors.Wrap(err, "failed to create application")
	}
	return nil
}

func (r *repo) FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("Discrepancies").
		First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get application by ID")
	}
	return &app, nil
}

func (r *repo) UpdateApplication(ctx context.Context, app *models.Application, expectedVersion uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND version = ?", app.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(app)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update application")
	}
	if result.RowsAffected == 0 {
		return ErrStaleObject
	}
	return nil
}

func (r *repo) ListApplications(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error) {
	page := NormalizePage(filter.Page, filter.Limit)

	query := filter.Apply(r.db.WithContext(ctx).Model(&models.Application{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count applications")
	}

	var apps []*models.Application
	err := query.
		Preload("Documents").
		Preload("Discrepancies").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&apps).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list applications")
	}

	return apps, total, nil
}

func (r *repo) InsertApplicationStatus(ctx context.Context, record *models.ApplicationStatusRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return errors.Wrap(err, "failed to insert application status record")
	}
	return nil
}

func (r *repo) UpdateDocument(ctx context.Context, doc *models.ApplicationDocument) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApplicationDocument{}).
		Where("id = ?", doc.ID).
		Updates(map[string]interface{}{
			"status":  doc.Status,
			"remarks": doc.Remarks,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update document")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) InsertDocumentHistory(ctx context.Context, entry *models.DocumentHistoryEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return errors.Wrap(err, "failed to insert document history entry")
	}
	return nil
}

// UpsertDiscrepancy replaces the discrepancy entry for the item's document
// type, or appends one if the type is not yet listed.
func (r *repo) UpsertDiscrepancy(ctx context.Context, item *models.DiscrepancyItem) error {
	var existing models.DiscrepancyItem
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND document_type = ?", item.ApplicationID, item.DocumentType).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
				return errors.Wrap(err, "failed to insert discrepancy item")
			}
			return nil
		}
		return errors.Wrap(err, "failed to look up discrepancy item")
	}

	result := r.db.WithContext(ctx).
		Model(&models.DiscrepancyItem{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"document_id": item.DocumentID,
			"remarks":     item.Remarks,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update discrepancy item")
	}
	return nil
}

func (r *repo) DeleteDiscrepancyByType(ctx context.Context, applicationID uuid.UUID, documentType string) error {
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND document_type = ?", applicationID, documentType).
		Delete(&models.DiscrepancyItem{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete discrepancy item")
	}
	return nil
}

func (r *repo) ListDiscrepancies(ctx context.Context, applicationID uuid.UUID) ([]*models.DiscrepancyItem, error) {
	var items []*models.DiscrepancyItem
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list discrepancies")
	}
	return items, nil
}

// Catalog operations implementation

func (r *repo) CreateChannel(ctx context.Context, channel *models.Channel) error {
	if err := r.db.WithContext(ctx).Create(channel).Error; err != nil {
		return errors.Wrap(err, "failed to create channel")
	}
	return nil
}

func (r *repo) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	if err := r.db.WithContext(ctx).Save(channel).Error; err != nil {
		return errors.Wrap(err, "failed to update channel")
	}
	return nil
}

func (r *repo) FindChannelByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.WithContext(ctx).First(&channel, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get channel by ID")
	}
	return &channel, nil
}

func (r *repo) ListChannels(ctx context.Context, tenantID uuid.UUID) ([]*models.Channel, error) {
	var channels []*models.Channel
	query := r.db.WithContext(ctx)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if err := query.Order("name ASC").Find(&channels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list channels")
	}
	return channels, nil
}

func (r *repo) CountChannelsByCode(ctx context.Context, code string, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Channel{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count channels by code")
	}
	return count, nil
}

func (r *repo) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return errors.Wrap(err, "failed to create product")
	}
	return nil
}

func (r *repo) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return errors.Wrap(err, "failed to update product")
	}
	return nil
}

func (r *repo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get product by ID")
	}
	return &product, nil
}

func (r *repo) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	var products []*models.Product
	query := r.db.WithContext(ctx)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	return products, nil
}

func (r *repo) CountProductsByCode(ctx context.Context, code string, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count products by code")
	}
	return count, nil
}

// Module configuration implementation

func (r *repo) UpsertModuleConfig(ctx context.Context, cfg *models.ModuleConfig) error {
	var existing models.ModuleConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND module_key = ?", cfg.TenantID, cfg.ModuleKey).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
				return errors.Wrap(err, "failed to insert module config")
			}
			return nil
		}
		return errors.Wrap(err, "failed to look up module config")
	}

	result := r.db.WithContext(ctx).
		Model(&models.ModuleConfig{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"enabled":  cfg.Enabled,
			"settings": cfg.Settings,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update module config")
	}
	cfg.ID = existing.ID
	return nil
}

func (r *repo) FindModuleConfig(ctx context.Context, tenantID uuid.UUID, moduleKey string) (*models.ModuleConfig, error) {
	var cfg models.ModuleConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND module_key = ?", tenantID, moduleKey).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get module config")
	}
	return &cfg, nil
}

func (r *repo) ListModuleConfigs(ctx context.Context, tenantID uuid.UUID) ([]*models.ModuleConfig, error) {
	var cfgs []*models.ModuleConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("module_key ASC").
		Find(&cfgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list module configs")
	}
	return cfgs, nil
}

// Resource center implementation

func (r *repo) CreateResourceItem(ctx context.Context, item *models.ResourceItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed to create resource item")
	}
	return nil
}

func (r *repo) ListResourceItems(ctx context.Context, tenantID uuid.UUID, category string) ([]*models.ResourceItem, error) {
	query := r.db.WithContext(ctx)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var items []*models.ResourceItem
	if err := query.Order("title ASC").Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list resource items")
	}
	return items, nil
}

func (r *repo) SoftDeleteResourceItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ResourceItem{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete resource item")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Notification outbox implementation

func (r *repo) InsertNotification(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return errors.Wrap(err, "failed to insert notification")
	}
	return nil
}

func (r *repo) MarkNotificationPublished(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"published":    true,
			"published_at": now,
		}).Error
	if err != nil {
		return errors.Wrap(err, "failed to mark notification as published")
	}
	return nil
}

func (r *repo) MarkNotificationFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
	if err != nil {
		return errors.Wrap(err, "failed to mark notification as failed")
	}
	return nil
}

func (r *repo) ListUnpublishedNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unpublished notifications")
	}
	return notifications, nil
}
