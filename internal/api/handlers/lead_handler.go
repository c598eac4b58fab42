package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/importer"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

// LeadHandler handles lead lifecycle HTTP requests
type LeadHandler struct {
	leadService *services.LeadService
	tracer      tracing.Tracer
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *services.LeadService, tracer tracing.Tracer) *LeadHandler {
	return &LeadHandler{leadService: leadService, tracer: tracer}
}

// CreateLeadRequest is the payload for lead creation
type CreateLeadRequest struct {
	TenantID       uuid.UUID  `json:"tenantId" binding:"required"`
	FirstName      string     `json:"firstName" binding:"required"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email" binding:"omitempty,email"`
	Phone          string     `json:"phone" binding:"omitempty,phone"`
	ChannelID      *uuid.UUID `json:"channelId"`
	ProductID      *uuid.UUID `json:"productId"`
	Progress       string     `json:"progress" binding:"required"`
	Disposition    string     `json:"disposition"`
	SubDisposition string     `json:"subDisposition"`
	CreatedByID    uuid.UUID  `json:"createdById" binding:"required"`
	AssignedToID   *uuid.UUID `json:"assignedToId"`
	AssignedByID   *uuid.UUID `json:"assignedById"`
}

// UpdateLeadRequest is the payload for a partial lead update
type UpdateLeadRequest struct {
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	Email          *string    `json:"email" binding:"omitempty,email"`
	Phone          *string    `json:"phone" binding:"omitempty,phone"`
	ChannelID      *uuid.UUID `json:"channelId"`
	ProductID      *uuid.UUID `json:"productId"`
	Progress       *string    `json:"progress"`
	Disposition    *string    `json:"disposition"`
	SubDisposition *string    `json:"subDisposition"`
	UpdatedByID    uuid.UUID  `json:"updatedById" binding:"required"`
}

// ChangeOwnershipRequest is the payload for an ownership transfer
type ChangeOwnershipRequest struct {
	AssignedToID uuid.UUID `json:"assignedToId" binding:"required"`
	AssignedByID uuid.UUID `json:"assignedById" binding:"required"`
}

// CreateLead handles POST /api/v1/leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-lead")
	defer h.tracer.EndTransaction(txn)

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), services.CreateLeadInput{
		TenantID:       req.TenantID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		ChannelID:      req.ChannelID,
		ProductID:      req.ProductID,
		Progress:       req.Progress,
		Disposition:    req.Disposition,
		SubDisposition: req.SubDisposition,
		CreatedByID:    req.CreatedByID,
		AssignedToID:   req.AssignedToID,
		AssignedByID:   req.AssignedByID,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	respondCreated(c, "lead created", lead)
}

// GetLead handles GET /api/v1/leads/:id
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "lead found", lead)
}

// ListLeads handles GET /api/v1/leads
func (h *LeadHandler) ListLeads(c *gin.Context) {
	filter, err := parseLeadFilter(c)
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	page := repositories.NormalizePage(filter.Page, filter.Limit)
	respondOK(c, "leads listed", PaginatedData{
		Items:      leads,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: page.TotalPages(total),
	})
}

// UpdateLead handles PATCH /api/v1/leads/:id
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-lead")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), id, services.UpdateLeadInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		ChannelID:      req.ChannelID,
		ProductID:      req.ProductID,
		Progress:       req.Progress,
		Disposition:    req.Disposition,
		SubDisposition: req.SubDisposition,
		UpdatedByID:    req.UpdatedByID,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	respondOK(c, "lead updated", lead)
}

// ChangeOwnership handles POST /api/v1/leads/:id/ownership
func (h *LeadHandler) ChangeOwnership(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-change-lead-ownership")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangeOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	lead, err := h.leadService.ChangeOwnership(c.Request.Context(), id, req.AssignedToID, req.AssignedByID)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	respondOK(c, "lead ownership changed", lead)
}

// DeleteLead handles DELETE /api/v1/leads/:id
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	actorID, err := uuid.Parse(c.Query("actorId"))
	if err != nil {
		respond(c, http.StatusBadRequest, "actorId query parameter is required", nil)
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), id, actorID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "lead deleted", nil)
}

// GetLeadHistory handles GET /api/v1/leads/:id/history
func (h *LeadHandler) GetLeadHistory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	history, err := h.leadService.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "lead status history", history)
}

// GetLeadAudit handles GET /api/v1/leads/:id/audit
func (h *LeadHandler) GetLeadAudit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	records, err := h.leadService.AuditTrail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "lead audit trail", records)
}

// ImportLeads handles POST /api/v1/leads/import with an xlsx file upload
func (h *LeadHandler) ImportLeads(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-import-leads")
	defer h.tracer.EndTransaction(txn)

	tenantID, err := uuid.Parse(c.Query("tenantId"))
	if err != nil {
		respond(c, http.StatusBadRequest, "tenantId query parameter is required", nil)
		return
	}
	createdByID, err := uuid.Parse(c.Query("createdById"))
	if err != nil {
		respond(c, http.StatusBadRequest, "createdById query parameter is required", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond(c, http.StatusBadRequest, "file form field is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	rows, err := importer.ParseLeadSheet(file, tenantID, createdByID)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	summary := h.leadService.ImportLeads(c.Request.Context(), rows)
	respondOK(c, "import finished", summary)
}

// RegisterRoutes registers the handler's routes
func (h *LeadHandler) RegisterRoutes(router *gin.RouterGroup) {
	leads := router.Group("/leads")
	leads.POST("", h.CreateLead)
	leads.GET("", h.ListLeads)
	leads.POST("/import", h.ImportLeads)
	leads.GET("/:id", h.GetLead)
	leads.PATCH("/:id", h.UpdateLead)
	leads.DELETE("/:id", h.DeleteLead)
	leads.POST("/:id/ownership", h.ChangeOwnership)
	leads.GET("/:id/history", h.GetLeadHistory)
	leads.GET("/:id/audit", h.GetLeadAudit)
}

// pathUUID parses the named path parameter as a uuid, writing a 400 on
// failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respond(c, http.StatusBadRequest, "invalid "+name+" parameter", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryUUIDPtr(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryTimePtr(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryInt(c *gin.Context, name string) int {
	value, _ := strconv.Atoi(c.Query(name))
	return value
}

func parseLeadFilter(c *gin.Context) (repositories.LeadFilter, error) {
	filter := repositories.LeadFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	var err error
	if filter.TenantID, err = queryUUIDPtr(c, "tenantId"); err != nil {
		return filter, err
	}
	if filter.AssignedToID, err = queryUUIDPtr(c, "assignedToId"); err != nil {
		return filter, err
	}
	if filter.CreatedByID, err = queryUUIDPtr(c, "createdById"); err != nil {
		return filter, err
	}
	if filter.ChannelID, err = queryUUIDPtr(c, "channelId"); err != nil {
		return filter, err
	}
	if filter.ProductID, err = queryUUIDPtr(c, "productId"); err != nil {
		return filter, err
	}
	if filter.CreatedFrom, err = queryTimePtr(c, "from"); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = queryTimePtr(c, "to"); err != nil {
		return filter, err
	}

	if raw := c.Query("status"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, models.LeadStatusName(strings.TrimSpace(name)))
		}
	}
	return filter, nil
}
