package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/cache"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
)

const agentCacheTTL = 10 * time.Minute

// AgentInput carries the fields accepted when creating or updating an agent
type AgentInput struct {
	TenantID  uuid.UUID
	Code      string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      string
	ChannelID *uuid.UUID
}

// ChannelInput carries the fields accepted for a channel
type ChannelInput struct {
	TenantID    uuid.UUID
	Code        string
	Name        string
	Description string
	Active      *bool
}

// ProductInput carries the fields accepted for a product
type ProductInput struct {
	TenantID    uuid.UUID
	Code        string
	Name        string
	Description string
	Category    string
	Active      *bool
}

// ModuleConfigInput carries a per-tenant module configuration upsert
type ModuleConfigInput struct {
	TenantID  uuid.UUID
	ModuleKey string
	Enabled   bool
	Settings  json.RawMessage
}

// ResourceItemInput carries the fields accepted for a resource-center entry
type ResourceItemInput struct {
	TenantID    uuid.UUID
	Title       string
	Category    string
	URL         string
	Description string
}

// CatalogService manages the supporting directories: agents, channels,
// products, per-tenant module configuration, and resource-center metadata.
type CatalogService struct {
	repo  repositories.Repository
	cache *cache.RedisCache
}

// NewCatalogService creates a catalog service
func NewCatalogService(repo repositories.Repository, redisCache *cache.RedisCache) *CatalogService {
	return &CatalogService{repo: repo, cache: redisCache}
}

// Agent operations

// CreateAgent creates an agent after an explicit uniqueness pre-check on
// code and email
func (s *CatalogService) CreateAgent(ctx context.Context, input AgentInput) (*models.Agent, error) {
	if err := s.checkAgentUniqueness(ctx, input.Code, input.Email, uuid.Nil); err != nil {
		return nil, err
	}

	agent := &models.Agent{
		Model:     models.Model{ID: uuid.New()},
		TenantID:  input.TenantID,
		Code:      input.Code,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      input.Role,
		Active:    true,
		ChannelID: input.ChannelID,
	}
	if err := s.repo.CreateAgent(ctx, agent); err != nil {
		return nil, errors.Wrap(err, "failed to create agent")
	}
	return agent, nil
}

// UpdateAgent updates an agent's profile fields
func (s *CatalogService) UpdateAgent(ctx context.Context, id uuid.UUID, input AgentInput) (*models.Agent, error) {
	agent, err := s.loadAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAgentUniqueness(ctx, input.Code, input.Email, id); err != nil {
		return nil, err
	}

	agent.Code = input.Code
	agent.FirstName = input.FirstName
	agent.LastName = input.LastName
	agent.Email = input.Email
	agent.Phone = input.Phone
	agent.Role = input.Role
	agent.ChannelID = input.ChannelID

	if err := s.repo.UpdateAgent(ctx, agent); err != nil {
		return nil, errors.Wrap(err, "failed to update agent")
	}

	s.invalidateAgent(ctx, id)
	return agent, nil
}

// SetAgentActive activates or deactivates an agent. Deactivated agents
// fail actor validation exactly like missing ones.
func (s *CatalogService) SetAgentActive(ctx context.Context, id uuid.UUID, active bool) (*models.Agent, error) {
	agent, err := s.loadAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	agent.Active = active
	if err := s.repo.UpdateAgent(ctx, agent); err != nil {
		return nil, errors.Wrap(err, "failed to update agent state")
	}

	s.invalidateAgent(ctx, id)
	return agent, nil
}

// GetAgent reads one agent, cache-aside
func (s *CatalogService) GetAgent(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var cached models.Agent
	if err := s.cache.Get(ctx, cache.GetAgentCacheKey(id), &cached); err == nil {
		return &cached, nil
	}

	agent, err := s.loadAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.GetAgentCacheKey(id), agent, agentCacheTTL); err != nil {
		log.Debug().Err(err).Msg("agent cache set skipped")
	}
	return agent, nil
}

// ListAgents returns agents matching the filter plus the unpaginated total
func (s *CatalogService) ListAgents(ctx context.Context, filter repositories.AgentFilter) ([]*models.Agent, int64, error) {
	return s.repo.ListAgents(ctx, filter)
}

// Channel operations

// CreateChannel creates a channel after a uniqueness pre-check on code
func (s *CatalogService) CreateChannel(ctx context.Context, input ChannelInput) (*models.Channel, error) {
	if err := s.checkCodeUniqueness(ctx, "channel", input.Code, uuid.Nil, s.repo.CountChannelsByCode); err != nil {
		return nil, err
	}

	channel := &models.Channel{
		Model:       models.Model{ID: uuid.New()},
		TenantID:    input.TenantID,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Active:      true,
	}
	if input.Active != nil {
		channel.Active = *input.Active
	}
	if err := s.repo.CreateChannel(ctx, channel); err != nil {
		return nil, errors.Wrap(err, "failed to create channel")
	}
	return channel, nil
}

// UpdateChannel updates a channel
func (s *CatalogService) UpdateChannel(ctx context.Context, id uuid.UUID, input ChannelInput) (*models.Channel, error) {
	channel, err := s.repo.FindChannelByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "channel", ID: id.String()}
		}
		return nil, errors.Wrap(err, "failed to load channel")
	}

	if err := s.checkCodeUniqueness(ctx, "channel", input.Code, id, s.repo.CountChannelsByCode); err != nil {
		return nil, err
	}

	channel.Code = input.Code
	channel.Name = input.Name
	channel.Description = input.Description
	if input.Active != nil {
		channel.Active = *input.Active
	}

	if err := s.repo.UpdateChannel(ctx, channel); err != nil {
		return nil, errors.Wrap(err, "failed to update channel")
	}
	return channel, nil
}

// ListChannels returns the tenant's channels
func (s *CatalogService) ListChannels(ctx context.Context, tenantID uuid.UUID) ([]*models.Channel, error) {
	return s.repo.ListChannels(ctx, tenantID)
}

// Product operations

// CreateProduct creates a product after a uniqueness pre-check on code
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.checkCodeUniqueness(ctx, "product", input.Code, uuid.Nil, s.repo.CountProductsByCode); err != nil {
		return nil, err
	}

	product := &models.Product{
		Model:       models.Model{ID: uuid.New()},
		TenantID:    input.TenantID,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}
	return product, nil
}

// UpdateProduct updates a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: id.String()}
		}
		return nil, errors.Wrap(err, "failed to load product")
	}

	if err := s.checkCodeUniqueness(ctx, "product", input.Code, id, s.repo.CountProductsByCode); err != nil {
		return nil, err
	}

	product.Code = input.Code
	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}
	return product, nil
}

// ListProducts returns the tenant's products
func (s *CatalogService) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx, tenantID)
}

// Module configuration

// UpsertModuleConfig creates or replaces a tenant's configuration for one
// module key
func (s *CatalogService) UpsertModuleConfig(ctx context.Context, input ModuleConfigInput) (*models.ModuleConfig, error) {
	if input.ModuleKey == "" {
		return nil, NewValidationError("moduleKey is required")
	}
	if len(input.Settings) > 0 && !json.Valid(input.Settings) {
		return nil, NewValidationError("settings must be valid JSON")
	}

	cfg := &models.ModuleConfig{
		Model:     models.Model{ID: uuid.New()},
		TenantID:  input.TenantID,
		ModuleKey: input.ModuleKey,
		Enabled:   input.Enabled,
		Settings:  input.Settings,
	}
	if err := s.repo.UpsertModuleConfig(ctx, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to upsert module config")
	}
	return cfg, nil
}

// GetModuleConfig reads a tenant's configuration for one module key
func (s *CatalogService) GetModuleConfig(ctx context.Context, tenantID uuid.UUID, moduleKey string) (*models.ModuleConfig, error) {
	cfg, err := s.repo.FindModuleConfig(ctx, tenantID, moduleKey)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "module config", ID: moduleKey}
		}
		return nil, errors.Wrap(err, "failed to load module config")
	}
	return cfg, nil
}

// ListModuleConfigs returns all module configurations for a tenant
func (s *CatalogService) ListModuleConfigs(ctx context.Context, tenantID uuid.UUID) ([]*models.ModuleConfig, error) {
	return s.repo.ListModuleConfigs(ctx, tenantID)
}

// Resource center

// CreateResourceItem adds a resource-center entry
func (s *CatalogService) CreateResourceItem(ctx context.Context, input ResourceItemInput) (*models.ResourceItem, error) {
	item := &models.ResourceItem{
		Model:       models.Model{ID: uuid.New()},
		TenantID:    input.TenantID,
		Title:       input.Title,
		Category:    input.Category,
		URL:         input.URL,
		Description: input.Description,
	}
	if err := s.repo.CreateResourceItem(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to create resource item")
	}
	return item, nil
}

// ListResourceItems returns resource-center entries, optionally filtered
// by category
func (s *CatalogService) ListResourceItems(ctx context.Context, tenantID uuid.UUID, category string) ([]*models.ResourceItem, error) {
	return s.repo.ListResourceItems(ctx, tenantID, category)
}

// DeleteResourceItem soft-deletes a resource-center entry
func (s *CatalogService) DeleteResourceItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDeleteResourceItem(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Entity: "resource item", ID: id.String()}
		}
		return errors.Wrap(err, "failed to delete resource item")
	}
	return nil
}

// helpers

func (s *CatalogService) loadAgent(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	agent, err := s.repo.FindAgentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "agent", ID: id.String()}
		}
		return nil, errors.Wrap(err, "failed to load agent")
	}
	return agent, nil
}

func (s *CatalogService) checkAgentUniqueness(ctx context.Context, code, email string, excludeID uuid.UUID) error {
	count, err := s.repo.CountAgentsByCodeOrEmail(ctx, code, email, excludeID)
	if err != nil {
		return errors.Wrap(err, "failed to check agent uniqueness")
	}
	if count > 0 {
		return &ConflictError{Message: fmt.Sprintf("agent with code %s or email %s already exists", code, email)}
	}
	return nil
}

func (s *CatalogService) checkCodeUniqueness(
	ctx context.Context,
	entity, code string,
	excludeID uuid.UUID,
	count func(ctx context.Context, code string, excludeID uuid.UUID) (int64, error),
) error {
	n, err := count(ctx, code, excludeID)
	if err != nil {
		return errors.Wrapf(err, "failed to check %s uniqueness", entity)
	}
	if n > 0 {
		return &ConflictError{Message: fmt.Sprintf("%s with code %s already exists", entity, code)}
	}
	return nil
}

func (s *CatalogService) invalidateAgent(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.GetAgentCacheKey(id)); err != nil {
		log.Debug().Err(err).Msg("agent cache invalidation skipped")
	}
}
