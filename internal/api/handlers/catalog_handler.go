package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
)

// CatalogHandler handles agent, channel, product, module-config, and
// resource-center HTTP requests
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// AgentRequest is the payload for creating or updating an agent
type AgentRequest struct {
	TenantID  uuid.UUID  `json:"tenantId" binding:"required"`
	Code      string     `json:"code" binding:"required"`
	FirstName string     `json:"firstName" binding:"required"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email" binding:"required,email"`
	Phone     string     `json:"phone" binding:"omitempty,phone"`
	Role      string     `json:"role"`
	ChannelID *uuid.UUID `json:"channelId"`
}

// ChannelRequest is the payload for creating or updating a channel
type ChannelRequest struct {
	TenantID    uuid.UUID `json:"tenantId" binding:"required"`
	Code        string    `json:"code" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Active      *bool     `json:"active"`
}

// ProductRequest is the payload for creating or updating a product
type ProductRequest struct {
	TenantID    uuid.UUID `json:"tenantId" binding:"required"`
	Code        string    `json:"code" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Active      *bool     `json:"active"`
}

// ModuleConfigRequest is the payload for a module configuration upsert
type ModuleConfigRequest struct {
	TenantID  uuid.UUID       `json:"tenantId" binding:"required"`
	ModuleKey string          `json:"moduleKey" binding:"required"`
	Enabled   bool            `json:"enabled"`
	Settings  json.RawMessage `json:"settings"`
}

// ResourceItemRequest is the payload for a resource-center entry
type ResourceItemRequest struct {
	TenantID    uuid.UUID `json:"tenantId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Category    string    `json:"category"`
	URL         string    `json:"url" binding:"omitempty,url"`
	Description string    `json:"description"`
}

// Agent endpoints

func (h *CatalogHandler) CreateAgent(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	agent, err := h.catalogService.CreateAgent(c.Request.Context(), agentInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "agent created", agent)
}

func (h *CatalogHandler) UpdateAgent(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	agent, err := h.catalogService.UpdateAgent(c.Request.Context(), id, agentInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "agent updated", agent)
}

func (h *CatalogHandler) GetAgent(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	agent, err := h.catalogService.GetAgent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "agent found", agent)
}

func (h *CatalogHandler) ListAgents(c *gin.Context) {
	filter := repositories.AgentFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	var err error
	if filter.TenantID, err = queryUUIDPtr(c, "tenantId"); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if filter.ChannelID, err = queryUUIDPtr(c, "channelId"); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	agents, total, err := h.catalogService.ListAgents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	page := repositories.NormalizePage(filter.Page, filter.Limit)
	respondOK(c, "agents listed", PaginatedData{
		Items:      agents,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: page.TotalPages(total),
	})
}

func (h *CatalogHandler) ActivateAgent(c *gin.Context) {
	h.setAgentActive(c, true)
}

func (h *CatalogHandler) DeactivateAgent(c *gin.Context) {
	h.setAgentActive(c, false)
}

func (h *CatalogHandler) setAgentActive(c *gin.Context, active bool) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	agent, err := h.catalogService.SetAgentActive(c.Request.Context(), id, active)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "agent state updated", agent)
}

// Channel endpoints

func (h *CatalogHandler) CreateChannel(c *gin.Context) {
	var req ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	channel, err := h.catalogService.CreateChannel(c.Request.Context(), channelInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "channel created", channel)
}

func (h *CatalogHandler) UpdateChannel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	channel, err := h.catalogService.UpdateChannel(c.Request.Context(), id, channelInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "channel updated", channel)
}

func (h *CatalogHandler) ListChannels(c *gin.Context) {
	tenantID, err := queryUUIDPtr(c, "tenantId")
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	id := uuid.Nil
	if tenantID != nil {
		id = *tenantID
	}

	channels, err := h.catalogService.ListChannels(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "channels listed", channels)
}

// Product endpoints

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), productInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "product created", product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, productInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "product updated", product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	tenantID, err := queryUUIDPtr(c, "tenantId")
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	id := uuid.Nil
	if tenantID != nil {
		id = *tenantID
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "products listed", products)
}

// Module configuration endpoints

func (h *CatalogHandler) UpsertModuleConfig(c *gin.Context) {
	var req ModuleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	cfg, err := h.catalogService.UpsertModuleConfig(c.Request.Context(), services.ModuleConfigInput{
		TenantID:  req.TenantID,
		ModuleKey: req.ModuleKey,
		Enabled:   req.Enabled,
		Settings:  req.Settings,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "module config saved", cfg)
}

func (h *CatalogHandler) GetModuleConfig(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenantId"))
	if err != nil {
		respond(c, http.StatusBadRequest, "tenantId query parameter is required", nil)
		return
	}

	cfg, err := h.catalogService.GetModuleConfig(c.Request.Context(), tenantID, c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "module config found", cfg)
}

func (h *CatalogHandler) ListModuleConfigs(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenantId"))
	if err != nil {
		respond(c, http.StatusBadRequest, "tenantId query parameter is required", nil)
		return
	}

	cfgs, err := h.catalogService.ListModuleConfigs(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "module configs listed", cfgs)
}

// Resource center endpoints

func (h *CatalogHandler) CreateResourceItem(c *gin.Context) {
	var req ResourceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	item, err := h.catalogService.CreateResourceItem(c.Request.Context(), services.ResourceItemInput{
		TenantID:    req.TenantID,
		Title:       req.Title,
		Category:    req.Category,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "resource item created", item)
}

func (h *CatalogHandler) ListResourceItems(c *gin.Context) {
	tenantID, err := queryUUIDPtr(c, "tenantId")
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	id := uuid.Nil
	if tenantID != nil {
		id = *tenantID
	}

	items, err := h.catalogService.ListResourceItems(c.Request.Context(), id, c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "resource items listed", items)
}

func (h *CatalogHandler) DeleteResourceItem(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteResourceItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "resource item deleted", nil)
}

// RegisterRoutes registers the handler's routes
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	agents := router.Group("/agents")
	agents.POST("", h.CreateAgent)
	agents.GET("", h.ListAgents)
	agents.GET("/:id", h.GetAgent)
	agents.PUT("/:id", h.UpdateAgent)
	agents.POST("/:id/activate", h.ActivateAgent)
	agents.POST("/:id/deactivate", h.DeactivateAgent)

	channels := router.Group("/channels")
	channels.POST("", h.CreateChannel)
	channels.GET("", h.ListChannels)
	channels.PUT("/:id", h.UpdateChannel)

	products := router.Group("/products")
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.PUT("/:id", h.UpdateProduct)

	modules := router.Group("/modules")
	modules.PUT("", h.UpsertModuleConfig)
	modules.GET("", h.ListModuleConfigs)
	modules.GET("/:key", h.GetModuleConfig)

	resources := router.Group("/resources")
	resources.POST("", h.CreateResourceItem)
	resources.GET("", h.ListResourceItems)
	resources.DELETE("/:id", h.DeleteResourceItem)
}

func agentInput(req AgentRequest) services.AgentInput {
	return services.AgentInput{
		TenantID:  req.TenantID,
		Code:      req.Code,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		ChannelID: req.ChannelID,
	}
}

func channelInput(req ChannelRequest) services.ChannelInput {
	return services.ChannelInput{
		TenantID:    req.TenantID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}
}

func productInput(req ProductRequest) services.ProductInput {
	return services.ProductInput{
		TenantID:    req.TenantID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Active:      req.Active,
	}
}
