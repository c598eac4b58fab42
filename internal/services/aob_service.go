package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/status"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

// CreateApplicationInput carries the fields accepted when submitting an
// onboarding application
type CreateApplicationInput struct {
	TenantID       uuid.UUID
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	ProjectID      *uuid.UUID
	ChannelID      *uuid.UUID
	CreatedByID    uuid.UUID
	Documents      []ApplicationDocumentInput
}

// ApplicationDocumentInput describes one uploaded document
type ApplicationDocumentInput struct {
	Type    string
	Name    string
	FileKey string
}

// DocumentDecisionInput is one reviewer decision within a batch
type DocumentDecisionInput struct {
	DocumentID uuid.UUID
	Status     string
	Remarks    string
}

// BatchDecisionOptions controls the optional aggregate behavior of a
// document decision batch
type BatchDecisionOptions struct {
	ReviewerID uuid.UUID

	// DeriveAggregate enables the batch-scoped application status
	// derivation: any rejected document returns the application, a batch
	// of only approvals approves it.
	DeriveAggregate bool
}

// AOBService implements the agent-onboarding application workflow:
// submission, review status transitions, document decision batches with
// discrepancy maintenance, and agent provisioning on final approval.
type AOBService struct {
	repo      repositories.Repository
	recorder  *AuditRecorder
	notifier  *Notifier
	tracer    tracing.Tracer
	collector *metrics.Metrics
}

// NewAOBService creates an AOB service
func NewAOBService(
	repo repositories.Repository,
	recorder *AuditRecorder,
	notifier *Notifier,
	tracer tracing.Tracer,
	collector *metrics.Metrics,
) *AOBService {
	return &AOBService{
		repo:      repo,
		recorder:  recorder,
		notifier:  notifier,
		tracer:    tracer,
		collector: collector,
	}
}

// Create submits a new application with its documents, an initial status
// history entry, and a CREATE audit batch, all in one transaction.
func (s *AOBService) Create(ctx context.Context, input CreateApplicationInput) (*models.Application, error) {
	txn := s.tracer.StartTransaction("AOBService.Create")
	defer s.tracer.EndTransaction(txn)

	if err := s.validateActor(ctx, input.CreatedByID); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	now := time.Now()
	app := &models.Application{
		Model:           models.Model{ID: uuid.New()},
		TenantID:        input.TenantID,
		ApplicantName:   input.ApplicantName,
		ApplicantEmail:  input.ApplicantEmail,
		ApplicantPhone:  input.ApplicantPhone,
		ProjectID:       input.ProjectID,
		ChannelID:       input.ChannelID,
		Status:          models.ApplicationStatusSubmitted,
		StatusUpdatedAt: now,
		CreatedByID:     input.CreatedByID,
		Version:         1,
	}
	for _, doc := range input.Documents {
		app.Documents = append(app.Documents, models.ApplicationDocument{
			Model:         models.Model{ID: uuid.New()},
			ApplicationID: app.ID,
			Type:          doc.Type,
			Name:          doc.Name,
			FileKey:       doc.FileKey,
			Status:        models.DocumentSubmitted,
		})
	}

	statusRecord := &models.ApplicationStatusRecord{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		Status:        models.ApplicationStatusSubmitted,
		ChangedByID:   input.CreatedByID,
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		if err := txRepo.CreateApplication(ctx, app); err != nil {
			return err
		}
		if err := txRepo.InsertApplicationStatus(ctx, statusRecord); err != nil {
			return err
		}
		return s.recorder.Record(ctx, txRepo, "application", app.ID, input.CreatedByID,
			models.ChangeCreate, createApplicationChanges(app))
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to create application")
	}

	s.collector.IncrCounter(metrics.ApplicationsCreated)
	s.notifier.Notify(EventApplicationCreated, "application", app.ID, nil, app)

	return app, nil
}

// UpdateStatus moves the application to rawStatus. The vocabulary is
// strict; unknown values are rejected rather than defaulted.
func (s *AOBService) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string, reviewerID uuid.UUID) (*models.Application, error) {
	txn := s.tracer.StartTransaction("AOBService.UpdateStatus")
	defer s.tracer.EndTransaction(txn)

	newStatus, err := status.ParseApplicationStatus(rawStatus)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, NewValidationError(err.Error())
	}

	if err := s.validateActor(ctx, reviewerID); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	app, err := s.loadApplication(ctx, id)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		return s.transition(ctx, txRepo, app, newStatus, reviewerID)
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, s.translateWriteError(ctx, err, id)
	}

	s.notifyDecision(app)
	return app, nil
}

// BatchUpdateDocumentStatus applies a batch of reviewer decisions. The
// whole batch is validated before any write: a reject without remarks or a
// decision for a document the application does not hold fails the batch
// with every offending document id listed. Writes happen in one
// transaction: per-document status + history, discrepancy maintenance,
// optional aggregate status derivation, and agent provisioning when the
// aggregate lands on approved.
func (s *AOBService) BatchUpdateDocumentStatus(
	ctx context.Context,
	applicationID uuid.UUID,
	decisions []DocumentDecisionInput,
	opts BatchDecisionOptions,
) (*models.Application, error) {
	txn := s.tracer.StartTransaction("AOBService.BatchUpdateDocumentStatus")
	defer s.tracer.EndTransaction(txn)

	if len(decisions) == 0 {
		return nil, NewValidationError("no document decisions submitted")
	}

	if err := s.validateActor(ctx, opts.ReviewerID); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	docsByID := make(map[uuid.UUID]*models.ApplicationDocument, len(app.Documents))
	for i := range app.Documents {
		docsByID[app.Documents[i].ID] = &app.Documents[i]
	}

	parsed, err := validateDecisionBatch(decisions, docsByID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	anyRejected := false
	allApproved := true
	for _, decision := range parsed {
		switch decision.status {
		case models.DocumentRejected:
			anyRejected = true
			allApproved = false
		case models.DocumentApproved:
		default:
			allApproved = false
		}
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		for _, decision := range parsed {
			doc := docsByID[decision.documentID]
			doc.Status = decision.status
			doc.Remarks = decision.remarks

			if err := txRepo.UpdateDocument(ctx, doc); err != nil {
				return err
			}
			entry := &models.DocumentHistoryEntry{
				ID:            uuid.New(),
				ApplicationID: app.ID,
				DocumentID:    doc.ID,
				Status:        decision.status,
				Remarks:       decision.remarks,
				ChangedByID:   opts.ReviewerID,
			}
			if err := txRepo.InsertDocumentHistory(ctx, entry); err != nil {
				return err
			}

			switch decision.status {
			case models.DocumentRejected:
				item := &models.DiscrepancyItem{
					ID:            uuid.New(),
					ApplicationID: app.ID,
					DocumentType:  doc.Type,
					DocumentID:    doc.ID,
					Remarks:       decision.remarks,
				}
				if err := txRepo.UpsertDiscrepancy(ctx, item); err != nil {
					return err
				}
			case models.DocumentApproved:
				if err := txRepo.DeleteDiscrepancyByType(ctx, app.ID, doc.Type); err != nil {
					return err
				}
			}
		}

		if !opts.DeriveAggregate {
			return nil
		}

		switch {
		case anyRejected:
			return s.transition(ctx, txRepo, app, models.ApplicationStatusReturned, opts.ReviewerID)
		case allApproved:
			if err := s.transition(ctx, txRepo, app, models.ApplicationStatusApproved, opts.ReviewerID); err != nil {
				return err
			}
			if app.ProjectID != nil {
				return s.provisionAgent(ctx, txRepo, app)
			}
			return nil
		default:
			return nil
		}
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, s.translateWriteError(ctx, err, applicationID)
	}

	refreshed, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if opts.DeriveAggregate && (anyRejected || allApproved) {
		s.notifyDecision(refreshed)
	}

	return refreshed, nil
}

// Get reads one application with its documents and discrepancy list
func (s *AOBService) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return s.loadApplication(ctx, id)
}

// List returns applications matching the filter plus the unpaginated total
func (s *AOBService) List(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error) {
	return s.repo.ListApplications(ctx, filter)
}

// Discrepancies returns the application's current discrepancy list
func (s *AOBService) Discrepancies(ctx context.Context, id uuid.UUID) ([]*models.DiscrepancyItem, error) {
	if _, err := s.loadApplication(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListDiscrepancies(ctx, id)
}

// AuditTrail returns the application's field-level audit records
func (s *AOBService) AuditTrail(ctx context.Context, id uuid.UUID) ([]*models.AuditRecord, error) {
	return s.repo.ListAuditRecords(ctx, "application", id)
}

type parsedDecision struct {
	documentID uuid.UUID
	status     models.DocumentDecision
	remarks    string
}

// validateDecisionBatch checks the whole batch before any write. Every
// violation is collected so the reviewer sees all offending document ids
// at once.
func validateDecisionBatch(decisions []DocumentDecisionInput, docsByID map[uuid.UUID]*models.ApplicationDocument) ([]parsedDecision, error) {
	var unknownDocs, badStatus, missingRemarks []string
	parsed := make([]parsedDecision, 0, len(decisions))

	for _, decision := range decisions {
		if _, ok := docsByID[decision.DocumentID]; !ok {
			unknownDocs = append(unknownDocs, decision.DocumentID.String())
			continue
		}
		docStatus, err := status.ParseDocumentDecision(decision.Status)
		if err != nil {
			badStatus = append(badStatus, decision.DocumentID.String())
			continue
		}
		if docStatus == models.DocumentRejected && strings.TrimSpace(decision.Remarks) == "" {
			missingRemarks = append(missingRemarks, decision.DocumentID.String())
			continue
		}
		parsed = append(parsed, parsedDecision{
			documentID: decision.DocumentID,
			status:     docStatus,
			remarks:    decision.Remarks,
		})
	}

	var violations []string
	if len(unknownDocs) > 0 {
		sort.Strings(unknownDocs)
		violations = append(violations, "unknown documents: "+strings.Join(unknownDocs, ", "))
	}
	if len(badStatus) > 0 {
		sort.Strings(badStatus)
		violations = append(violations, "invalid status for documents: "+strings.Join(badStatus, ", "))
	}
	if len(missingRemarks) > 0 {
		sort.Strings(missingRemarks)
		violations = append(violations, "remarks required to reject documents: "+strings.Join(missingRemarks, ", "))
	}
	if len(violations) > 0 {
		return nil, NewValidationError(violations...)
	}
	return parsed, nil
}

// transition moves the application to newStatus with a history entry and
// a currentStatus audit record, all through the given (transactional)
// repository.
func (s *AOBService) transition(
	ctx context.Context,
	txRepo repositories.Repository,
	app *models.Application,
	newStatus models.ApplicationStatus,
	reviewerID uuid.UUID,
) error {
	oldStatus := app.Status
	if oldStatus == newStatus {
		return nil
	}

	app.Status = newStatus
	app.StatusUpdatedAt = time.Now()
	app.ReviewedByID = &reviewerID

	expectedVersion := app.Version
	app.Version++

	if err := txRepo.UpdateApplication(ctx, app, expectedVersion); err != nil {
		return err
	}
	record := &models.ApplicationStatusRecord{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		Status:        newStatus,
		ChangedByID:   reviewerID,
	}
	if err := txRepo.InsertApplicationStatus(ctx, record); err != nil {
		return err
	}
	return s.recorder.Record(ctx, txRepo, "application", app.ID, reviewerID,
		models.ChangeUpdate, []FieldChange{
			{Field: "status", Old: string(oldStatus), New: string(newStatus)},
		})
}

// provisionAgent creates the downstream agent for an approved application.
// Runs inside the approval transaction; any failure here rolls the
// approval back.
func (s *AOBService) provisionAgent(ctx context.Context, txRepo repositories.Repository, app *models.Application) error {
	code := agentCode(app.ID)

	count, err := txRepo.CountAgentsByCodeOrEmail(ctx, code, app.ApplicantEmail, uuid.Nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Message: fmt.Sprintf("agent with code %s or email %s already exists", code, app.ApplicantEmail)}
	}

	first, last := splitName(app.ApplicantName)
	agent := &models.Agent{
		Model:     models.Model{ID: uuid.New()},
		TenantID:  app.TenantID,
		Code:      code,
		FirstName: first,
		LastName:  last,
		Email:     app.ApplicantEmail,
		Phone:     app.ApplicantPhone,
		Role:      "agent",
		Active:    true,
		ChannelID: app.ChannelID,
	}
	if err := txRepo.CreateAgent(ctx, agent); err != nil {
		return err
	}

	app.AgentID = &agent.ID
	expectedVersion := app.Version
	app.Version++
	return txRepo.UpdateApplication(ctx, app, expectedVersion)
}

func (s *AOBService) validateActor(ctx context.Context, id uuid.UUID) error {
	agents, err := s.repo.FindActiveAgentsByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return errors.Wrap(err, "failed to validate agent")
	}
	if len(agents) == 0 {
		return NewValidationError("invalid or inactive agents: " + id.String())
	}
	return nil
}

func (s *AOBService) loadApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.repo.FindApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "application", ID: id.String()}
		}
		return nil, errors.Wrap(err, "failed to load application")
	}
	return app, nil
}

func (s *AOBService) translateWriteError(ctx context.Context, err error, id uuid.UUID) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce
	}
	if !errors.Is(err, repositories.ErrStaleObject) {
		return errors.Wrap(err, "failed to update application")
	}
	if _, findErr := s.repo.FindApplicationByID(ctx, id); errors.Is(findErr, repositories.ErrNotFound) {
		return &NotFoundError{Entity: "application", ID: id.String()}
	}
	return &ConflictError{Message: "application " + id.String() + " was modified concurrently"}
}

func (s *AOBService) notifyDecision(app *models.Application) {
	switch app.Status {
	case models.ApplicationStatusApproved:
		s.collector.IncrCounter(metrics.ApplicationsApproved)
	case models.ApplicationStatusReturned:
		s.collector.IncrCounter(metrics.ApplicationsReturned)
	case models.ApplicationStatusRejected:
	default:
		return
	}
	s.notifier.Notify(EventApplicationDecided, "application", app.ID, app.AgentID, map[string]string{
		"id":     app.ID.String(),
		"status": string(app.Status),
	})
}

func createApplicationChanges(app *models.Application) []FieldChange {
	changes := []FieldChange{
		{Field: "applicantName", New: app.ApplicantName},
		{Field: "applicantEmail", New: app.ApplicantEmail},
		{Field: "status", New: string(app.Status)},
	}
	if app.ApplicantPhone != "" {
		changes = append(changes, FieldChange{Field: "applicantPhone", New: app.ApplicantPhone})
	}
	if app.ProjectID != nil {
		changes = append(changes, FieldChange{Field: "projectId", New: *app.ProjectID})
	}
	if app.ChannelID != nil {
		changes = append(changes, FieldChange{Field: "channelId", New: *app.ChannelID})
	}
	if len(app.Documents) > 0 {
		changes = append(changes, FieldChange{Field: "documentCount", New: fmt.Sprintf("%d", len(app.Documents))})
	}
	return changes
}

// agentCode derives a stable, human-readable agent code from the
// application id
func agentCode(applicationID uuid.UUID) string {
	return "AGT-" + strings.ToUpper(strings.ReplaceAll(applicationID.String(), "-", "")[:8])
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return full, ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
