package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

// AOBHandler handles agent-onboarding application HTTP requests
type AOBHandler struct {
	aobService *services.AOBService
	tracer     tracing.Tracer
}

// NewAOBHandler creates a new AOB handler
func NewAOBHandler(aobService *services.AOBService, tracer tracing.Tracer) *AOBHandler {
	return &AOBHandler{aobService: aobService, tracer: tracer}
}

// CreateApplicationRequest is the payload for submitting an application
type CreateApplicationRequest struct {
	TenantID       uuid.UUID                  `json:"tenantId" binding:"required"`
	ApplicantName  string                     `json:"applicantName" binding:"required"`
	ApplicantEmail string                     `json:"applicantEmail" binding:"required,email"`
	ApplicantPhone string                     `json:"applicantPhone" binding:"omitempty,phone"`
	ProjectID      *uuid.UUID                 `json:"projectId"`
	ChannelID      *uuid.UUID                 `json:"channelId"`
	CreatedByID    uuid.UUID                  `json:"createdById" binding:"required"`
	Documents      []ApplicationDocumentEntry `json:"documents" binding:"dive"`
}

// ApplicationDocumentEntry is one uploaded document descriptor
type ApplicationDocumentEntry struct {
	Type    string `json:"type" binding:"required"`
	Name    string `json:"name"`
	FileKey string `json:"fileKey"`
}

// UpdateApplicationStatusRequest is the payload for a status transition
type UpdateApplicationStatusRequest struct {
	Status     string    `json:"status" binding:"required"`
	ReviewerID uuid.UUID `json:"reviewerId" binding:"required"`
}

// DocumentDecisionEntry is one reviewer decision in a batch
type DocumentDecisionEntry struct {
	DocumentID uuid.UUID `json:"documentId" binding:"required"`
	Status     string    `json:"status" binding:"required"`
	Remarks    string    `json:"remarks"`
}

// BatchDocumentDecisionRequest is the payload for a document decision batch
type BatchDocumentDecisionRequest struct {
	ReviewerID      uuid.UUID               `json:"reviewerId" binding:"required"`
	DeriveAggregate bool                    `json:"deriveAggregate"`
	Decisions       []DocumentDecisionEntry `json:"decisions" binding:"required,min=1,dive"`
}

// CreateApplication handles POST /api/v1/applications
func (h *AOBHandler) CreateApplication(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-application")
	defer h.tracer.EndTransaction(txn)

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	input := services.CreateApplicationInput{
		TenantID:       req.TenantID,
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		ApplicantPhone: req.ApplicantPhone,
		ProjectID:      req.ProjectID,
		ChannelID:      req.ChannelID,
		CreatedByID:    req.CreatedByID,
	}
	for _, doc := range req.Documents {
		input.Documents = append(input.Documents, services.ApplicationDocumentInput{
			Type:    doc.Type,
			Name:    doc.Name,
			FileKey: doc.FileKey,
		})
	}

	app, err := h.aobService.Create(c.Request.Context(), input)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	respondCreated(c, "application submitted", app)
}

// GetApplication handles GET /api/v1/applications/:id
func (h *AOBHandler) GetApplication(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	app, err := h.aobService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "application found", app)
}

// ListApplications handles GET /api/v1/applications
func (h *AOBHandler) ListApplications(c *gin.Context) {
	filter, err := parseApplicationFilter(c)
	if err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	apps, total, err := h.aobService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	page := repositories.NormalizePage(filter.Page, filter.Limit)
	respondOK(c, "applications listed", PaginatedData{
		Items:      apps,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Size,
		TotalPages: page.TotalPages(total),
	})
}

// UpdateApplicationStatus handles PUT /api/v1/applications/:id/status
func (h *AOBHandler) UpdateApplicationStatus(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-application-status")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	app, err := h.aobService.UpdateStatus(c.Request.Context(), id, req.Status, req.ReviewerID)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	respondOK(c, "application status updated", app)
}

// BatchUpdateDocuments handles POST /api/v1/applications/:id/documents
func (h *AOBHandler) BatchUpdateDocuments(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-batch-document-decisions")
	defer h.tracer.EndTransaction(txn)

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req BatchDocumentDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	decisions := make([]services.DocumentDecisionInput, 0, len(req.Decisions))
	for _, decision := range req.Decisions {
		decisions = append(decisions, services.DocumentDecisionInput{
			DocumentID: decision.DocumentID,
			Status:     decision.Status,
			Remarks:    decision.Remarks,
		})
	}

	app, err := h.aobService.BatchUpdateDocumentStatus(c.Request.Context(), id, decisions,
		services.BatchDecisionOptions{
			ReviewerID:      req.ReviewerID,
			DeriveAggregate: req.DeriveAggregate,
		})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	respondOK(c, "document decisions applied", app)
}

// GetDiscrepancies handles GET /api/v1/applications/:id/discrepancies
func (h *AOBHandler) GetDiscrepancies(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.aobService.Discrepancies(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "application discrepancies", items)
}

// GetApplicationAudit handles GET /api/v1/applications/:id/audit
func (h *AOBHandler) GetApplicationAudit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	records, err := h.aobService.AuditTrail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "application audit trail", records)
}

// RegisterRoutes registers the handler's routes
func (h *AOBHandler) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/applications")
	apps.POST("", h.CreateApplication)
	apps.GET("", h.ListApplications)
	apps.GET("/:id", h.GetApplication)
	apps.PUT("/:id/status", h.UpdateApplicationStatus)
	apps.POST("/:id/documents", h.BatchUpdateDocuments)
	apps.GET("/:id/discrepancies", h.GetDiscrepancies)
	apps.GET("/:id/audit", h.GetApplicationAudit)
}

func parseApplicationFilter(c *gin.Context) (repositories.ApplicationFilter, error) {
	filter := repositories.ApplicationFilter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	var err error
	if filter.TenantID, err = queryUUIDPtr(c, "tenantId"); err != nil {
		return filter, err
	}
	if filter.ProjectID, err = queryUUIDPtr(c, "projectId"); err != nil {
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
			filter.Statuses = append(filter.Statuses, models.ApplicationStatus(strings.TrimSpace(name)))
		}
	}
	return filter, nil
}
