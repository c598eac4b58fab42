package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
)

// MockRepository is a testify mock of the data access interface. Its
// WithTransaction runs the callback against the mock itself, so
// transactional expectations are set on the same instance.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, txRepo repositories.Repository) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

func (m *MockRepository) CreateLead(ctx context.Context, lead *models.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockRepository) FindLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *MockRepository) UpdateLead(ctx context.Context, lead *models.Lead, expectedVersion uint) error {
	return m.Called(ctx, lead, expectedVersion).Error(0)
}

func (m *MockRepository) SoftDeleteLead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListLeads(ctx context.Context, filter repositories.LeadFilter) ([]*models.Lead, int64, error) {
	args := m.Called(ctx, filter)
	var leads []*models.Lead
	if args.Get(0) != nil {
		leads = args.Get(0).([]*models.Lead)
	}
	return leads, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) InsertLeadStatus(ctx context.Context, record *models.LeadStatusRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRepository) ListLeadStatuses(ctx context.Context, leadID uuid.UUID) ([]*models.LeadStatusRecord, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeadStatusRecord), args.Error(1)
}

func (m *MockRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	return m.Called(ctx, agent).Error(0)
}

func (m *MockRepository) UpdateAgent(ctx context.Context, agent *models.Agent) error {
	return m.Called(ctx, agent).Error(0)
}

func (m *MockRepository) FindAgentByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agent), args.Error(1)
}

func (m *MockRepository) FindActiveAgentsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Agent, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Agent), args.Error(1)
}

func (m *MockRepository) ListAgents(ctx context.Context, filter repositories.AgentFilter) ([]*models.Agent, int64, error) {
	args := m.Called(ctx, filter)
	var agents []*models.Agent
	if args.Get(0) != nil {
		agents = args.Get(0).([]*models.Agent)
	}
	return agents, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) CountAgentsByCodeOrEmail(ctx context.Context, code, email string, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, code, email, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) InsertAuditRecords(ctx context.Context, records []*models.AuditRecord) error {
	return m.Called(ctx, records).Error(0)
}

func (m *MockRepository) ListAuditRecords(ctx context.Context, entityType string, entityID uuid.UUID) ([]*models.AuditRecord, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditRecord), args.Error(1)
}

func (m *MockRepository) CreateApplication(ctx context.Context, app *models.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockRepository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *MockRepository) UpdateApplication(ctx context.Context, app *models.Application, expectedVersion uint) error {
	return m.Called(ctx, app, expectedVersion).Error(0)
}

func (m *MockRepository) ListApplications(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error) {
	args := m.Called(ctx, filter)
	var apps []*models.Application
	if args.Get(0) != nil {
		apps = args.Get(0).([]*models.Application)
	}
	return apps, args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) InsertApplicationStatus(ctx context.Context, record *models.ApplicationStatusRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRepository) UpdateDocument(ctx context.Context, doc *models.ApplicationDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockRepository) InsertDocumentHistory(ctx context.Context, entry *models.DocumentHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockRepository) UpsertDiscrepancy(ctx context.Context, item *models.DiscrepancyItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository) DeleteDiscrepancyByType(ctx context.Context, applicationID uuid.UUID, documentType string) error {
	return m.Called(ctx, applicationID, documentType).Error(0)
}

func (m *MockRepository) ListDiscrepancies(ctx context.Context, applicationID uuid.UUID) ([]*models.DiscrepancyItem, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DiscrepancyItem), args.Error(1)
}

func (m *MockRepository) CreateChannel(ctx context.Context, channel *models.Channel) error {
	return m.Called(ctx, channel).Error(0)
}

func (m *MockRepository) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	return m.Called(ctx, channel).Error(0)
}

func (m *MockRepository) FindChannelByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockRepository) ListChannels(ctx context.Context, tenantID uuid.UUID) ([]*models.Channel, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Channel), args.Error(1)
}

func (m *MockRepository) CountChannelsByCode(ctx context.Context, code string, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockRepository) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockRepository) CountProductsByCode(ctx context.Context, code string, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpsertModuleConfig(ctx context.Context, cfg *models.ModuleConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockRepository) FindModuleConfig(ctx context.Context, tenantID uuid.UUID, moduleKey string) (*models.ModuleConfig, error) {
	args := m.Called(ctx, tenantID, moduleKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModuleConfig), args.Error(1)
}

func (m *MockRepository) ListModuleConfigs(ctx context.Context, tenantID uuid.UUID) ([]*models.ModuleConfig, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ModuleConfig), args.Error(1)
}

func (m *MockRepository) CreateResourceItem(ctx context.Context, item *models.ResourceItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository) ListResourceItems(ctx context.Context, tenantID uuid.UUID, category string) ([]*models.ResourceItem, error) {
	args := m.Called(ctx, tenantID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResourceItem), args.Error(1)
}

func (m *MockRepository) SoftDeleteResourceItem(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) InsertNotification(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *MockRepository) MarkNotificationPublished(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) MarkNotificationFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return m.Called(ctx, id, lastError).Error(0)
}

func (m *MockRepository) ListUnpublishedNotifications(ctx context.Context, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}
