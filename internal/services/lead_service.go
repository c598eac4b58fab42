package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/cache"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/search"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/status"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

const leadCacheTTL = 5 * time.Minute

// CreateLeadInput carries the fields accepted when creating a lead
type CreateLeadInput struct {
	TenantID       uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	ChannelID      *uuid.UUID
	ProductID      *uuid.UUID
	Progress       string
	Disposition    string
	SubDisposition string
	CreatedByID    uuid.UUID
	AssignedToID   *uuid.UUID
	AssignedByID   *uuid.UUID
}

// UpdateLeadInput carries the optional fields of a lead update. Nil means
// the field is untouched.
type UpdateLeadInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Phone          *string
	ChannelID      *uuid.UUID
	ProductID      *uuid.UUID
	Progress       *string
	Disposition    *string
	SubDisposition *string
	UpdatedByID    uuid.UUID
}

// LeadService implements the lead lifecycle: creation, mutation, ownership
// transfer, soft deletion, and reads. Every mutation writes its audit
// records in the same transaction.
type LeadService struct {
	repo      repositories.Repository
	recorder  *AuditRecorder
	notifier  *Notifier
	cache     *cache.RedisCache
	search    *search.ElasticClient
	tracer    tracing.Tracer
	collector *metrics.Metrics
}

// NewLeadService creates a lead service
func NewLeadService(
	repo repositories.Repository,
	recorder *AuditRecorder,
	notifier *Notifier,
	redisCache *cache.RedisCache,
	elastic *search.ElasticClient,
	tracer tracing.Tracer,
	collector *metrics.Metrics,
) *LeadService {
	return &LeadService{
		repo:      repo,
		recorder:  recorder,
		notifier:  notifier,
		cache:     redisCache,
		search:    elastic,
		tracer:    tracer,
		collector: collector,
	}
}

// Create validates the referenced agents, derives the initial status, and
// persists the lead with its first history entry and CREATE audit batch in
// one transaction.
func (s *LeadService) Create(ctx context.Context, input CreateLeadInput) (*models.Lead, error) {
	txn := s.tracer.StartTransaction("LeadService.Create")
	defer s.tracer.EndTransaction(txn)

	actors := []uuid.UUID{input.CreatedByID}
	if input.AssignedToID != nil {
		actors = append(actors, *input.AssignedToID)
	}
	if input.AssignedByID != nil {
		actors = append(actors, *input.AssignedByID)
	}
	if err := s.validateActors(ctx, actors); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	statusRecord := status.DeriveLeadStatus(input.Progress, input.Disposition, input.SubDisposition)
	now := time.Now()

	lead := &models.Lead{
		Model:             models.Model{ID: uuid.New()},
		TenantID:          input.TenantID,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Email:             input.Email,
		Phone:             input.Phone,
		ChannelID:         input.ChannelID,
		ProductID:         input.ProductID,
		Progress:          input.Progress,
		Disposition:       input.Disposition,
		SubDisposition:    input.SubDisposition,
		CurrentStatusID:   statusRecord.ID,
		CurrentStatusName: statusRecord.Name,
		StatusUpdatedAt:   now,
		CreatedByID:       input.CreatedByID,
		AssignedToID:      input.AssignedToID,
		AssignedByID:      input.AssignedByID,
		Version:           1,
	}
	if input.AssignedToID != nil {
		lead.AssignedAt = &now
	}
	statusRecord.LeadID = lead.ID

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		if err := txRepo.CreateLead(ctx, lead); err != nil {
			return err
		}
		if err := txRepo.InsertLeadStatus(ctx, &statusRecord); err != nil {
			return err
		}
		return s.recorder.Record(ctx, txRepo, "lead", lead.ID, input.CreatedByID,
			models.ChangeCreate, createLeadChanges(lead))
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, errors.Wrap(err, "failed to create lead")
	}

	lead.StatusHistory = []models.LeadStatusRecord{statusRecord}

	s.collector.IncrCounter(metrics.LeadsCreated)
	s.notifier.Notify(EventLeadCreated, "lead", lead.ID, lead.AssignedToID, lead)
	s.indexLead(ctx, lead)

	return lead, nil
}

// Update applies a partial mutation. When the progress, disposition, or
// sub-disposition changes, the status is recomputed on the merged view, the
// history gains a new entry, and the audit batch carries an explicit
// currentStatus transition alongside the field changes.
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, input UpdateLeadInput) (*models.Lead, error) {
	txn := s.tracer.StartTransaction("LeadService.Update")
	defer s.tracer.EndTransaction(txn)

	lead, err := s.loadLead(ctx, id)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	if err := s.validateActors(ctx, []uuid.UUID{input.UpdatedByID}); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	var changes []FieldChange
	changes = applyString(changes, "firstName", &lead.FirstName, input.FirstName)
	changes = applyString(changes, "lastName", &lead.LastName, input.LastName)
	changes = applyString(changes, "email", &lead.Email, input.Email)
	changes = applyString(changes, "phone", &lead.Phone, input.Phone)
	changes = applyUUIDPtr(changes, "channelId", &lead.ChannelID, input.ChannelID)
	changes = applyUUIDPtr(changes, "productId", &lead.ProductID, input.ProductID)

	statusTouched := false
	if input.Progress != nil || input.Disposition != nil || input.SubDisposition != nil {
		statusTouched = true
	}
	changes = applyString(changes, "progress", &lead.Progress, input.Progress)
	changes = applyString(changes, "disposition", &lead.Disposition, input.Disposition)
	changes = applyString(changes, "subDisposition", &lead.SubDisposition, input.SubDisposition)

	if len(changes) == 0 {
		return nil, NewValidationError("no changes submitted")
	}

	var statusRecord *models.LeadStatusRecord
	if statusTouched {
		derived := status.DeriveLeadStatus(lead.Progress, lead.Disposition, lead.SubDisposition)
		derived.LeadID = lead.ID

		changes = append(changes, FieldChange{
			Field: "currentStatus",
			Old:   string(lead.CurrentStatusName),
			New:   string(derived.Name),
		})

		lead.CurrentStatusID = derived.ID
		lead.CurrentStatusName = derived.Name
		lead.StatusUpdatedAt = time.Now()
		statusRecord = &derived
	}

	expectedVersion := lead.Version
	lead.Version++

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		if err := txRepo.UpdateLead(ctx, lead, expectedVersion); err != nil {
			return err
		}
		if statusRecord != nil {
			if err := txRepo.InsertLeadStatus(ctx, statusRecord); err != nil {
				return err
			}
		}
		return s.recorder.Record(ctx, txRepo, "lead", lead.ID, input.UpdatedByID,
			models.ChangeUpdate, changes)
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, s.translateWriteError(ctx, err, id)
	}

	s.collector.IncrCounter(metrics.LeadsUpdated)
	s.invalidateLead(ctx, lead.ID)
	s.notifier.Notify(EventLeadUpdated, "lead", lead.ID, lead.AssignedToID, lead)
	s.indexLead(ctx, lead)

	return lead, nil
}

// ChangeOwnership reassigns the lead to newAssignee, recorded by
// newAssigner. The audit batch carries exactly the three ownership fields
// with the assigner as the acting user.
func (s *LeadService) ChangeOwnership(ctx context.Context, id, newAssignee, newAssigner uuid.UUID) (*models.Lead, error) {
	txn := s.tracer.StartTransaction("LeadService.ChangeOwnership")
	defer s.tracer.EndTransaction(txn)

	if err := s.validateActors(ctx, []uuid.UUID{newAssignee, newAssigner}); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	lead, err := s.loadLead(ctx, id)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	now := time.Now()
	changes := []FieldChange{
		{Field: "assignedToId", Old: uuidPtrValue(lead.AssignedToID), New: newAssignee},
		{Field: "assignedById", Old: uuidPtrValue(lead.AssignedByID), New: newAssigner},
		{Field: "assignedAt", Old: timePtrValue(lead.AssignedAt), New: now},
	}

	lead.AssignedToID = &newAssignee
	lead.AssignedByID = &newAssigner
	lead.AssignedAt = &now

	expectedVersion := lead.Version
	lead.Version++

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		if err := txRepo.UpdateLead(ctx, lead, expectedVersion); err != nil {
			return err
		}
		return s.recorder.Record(ctx, txRepo, "lead", lead.ID, newAssigner,
			models.ChangeUpdate, changes)
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, s.translateWriteError(ctx, err, id)
	}

	s.invalidateLead(ctx, lead.ID)
	s.notifier.Notify(EventLeadOwnershipMoved, "lead", lead.ID, &newAssignee, lead)

	return lead, nil
}

// Delete soft-deletes the lead and logs a DELETE audit entry
func (s *LeadService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	txn := s.tracer.StartTransaction("LeadService.Delete")
	defer s.tracer.EndTransaction(txn)

	lead, err := s.loadLead(ctx, id)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repositories.Repository) error {
		if err := txRepo.SoftDeleteLead(ctx, id); err != nil {
			return err
		}
		return s.recorder.Record(ctx, txRepo, "lead", id, actorID, models.ChangeDelete,
			[]FieldChange{{Field: "deleted", Old: "false", New: "true"}})
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Entity: "lead", ID: id.String()}
		}
		return errors.Wrap(err, "failed to delete lead")
	}

	s.invalidateLead(ctx, id)
	s.notifier.Notify(EventLeadDeleted, "lead", id, lead.AssignedToID, map[string]string{"id": id.String()})

	return nil
}

// Get reads a lead, cache-aside. Cache misses and cache errors fall
// through to the database.
func (s *LeadService) Get(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var cached models.Lead
	if err := s.cache.Get(ctx, cache.GetLeadCacheKey(id), &cached); err == nil {
		return &cached, nil
	}

	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.GetLeadCacheKey(id), lead, leadCacheTTL); err != nil {
		log.Debug().Err(err).Msg("lead cache set skipped")
	}

	return lead, nil
}

// List returns leads matching the filter plus the unpaginated total
func (s *LeadService) List(ctx context.Context, filter repositories.LeadFilter) ([]*models.Lead, int64, error) {
	return s.repo.ListLeads(ctx, filter)
}

// History returns the lead's append-only status history in insertion order
func (s *LeadService) History(ctx context.Context, id uuid.UUID) ([]*models.LeadStatusRecord, error) {
	if _, err := s.loadLead(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListLeadStatuses(ctx, id)
}

// AuditTrail returns the lead's field-level audit records in change order
func (s *LeadService) AuditTrail(ctx context.Context, id uuid.UUID) ([]*models.AuditRecord, error) {
	return s.repo.ListAuditRecords(ctx, "lead", id)
}

// validateActors checks that every referenced agent exists and is active.
// The error lists every invalid id so the caller can fix the whole request
// at once.
func (s *LeadService) validateActors(ctx context.Context, ids []uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	agents, err := s.repo.FindActiveAgentsByIDs(ctx, unique)
	if err != nil {
		return errors.Wrap(err, "failed to validate agents")
	}

	found := make(map[uuid.UUID]struct{}, len(agents))
	for _, agent := range agents {
		found[agent.ID] = struct{}{}
	}

	var invalid []string
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			invalid = append(invalid, id.String())
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return NewValidationError("invalid or inactive agents: " + strings.Join(invalid, ", "))
	}
	return nil
}

func (s *LeadService) loadLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead, err := s.repo.FindLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "lead", ID: id.String()}
		}
		return nil, errors.Wrap(err, "failed to load lead")
	}
	return lead, nil
}

// translateWriteError maps a stale-object failure to not-found when the
// row is gone and to conflict when it was modified concurrently.
func (s *LeadService) translateWriteError(ctx context.Context, err error, id uuid.UUID) error {
	if !errors.Is(err, repositories.ErrStaleObject) {
		return errors.Wrap(err, "failed to update lead")
	}
	if _, findErr := s.repo.FindLeadByID(ctx, id); errors.Is(findErr, repositories.ErrNotFound) {
		return &NotFoundError{Entity: "lead", ID: id.String()}
	}
	return &ConflictError{Message: "lead " + id.String() + " was modified concurrently"}
}

func (s *LeadService) invalidateLead(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.GetLeadCacheKey(id)); err != nil {
		log.Debug().Err(err).Msg("lead cache invalidation skipped")
	}
}

func (s *LeadService) indexLead(ctx context.Context, lead *models.Lead) {
	if err := s.search.IndexLead(ctx, lead); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID.String()).Msg("lead indexing skipped")
	}
}

// createLeadChanges builds the CREATE audit batch: one record per
// submitted field, old value nil.
func createLeadChanges(lead *models.Lead) []FieldChange {
	changes := []FieldChange{
		{Field: "firstName", New: lead.FirstName},
		{Field: "progress", New: lead.Progress},
		{Field: "currentStatus", New: string(lead.CurrentStatusName)},
	}
	if lead.LastName != "" {
		changes = append(changes, FieldChange{Field: "lastName", New: lead.LastName})
	}
	if lead.Email != "" {
		changes = append(changes, FieldChange{Field: "email", New: lead.Email})
	}
	if lead.Phone != "" {
		changes = append(changes, FieldChange{Field: "phone", New: lead.Phone})
	}
	if lead.ChannelID != nil {
		changes = append(changes, FieldChange{Field: "channelId", New: *lead.ChannelID})
	}
	if lead.ProductID != nil {
		changes = append(changes, FieldChange{Field: "productId", New: *lead.ProductID})
	}
	if lead.Disposition != "" {
		changes = append(changes, FieldChange{Field: "disposition", New: lead.Disposition})
	}
	if lead.SubDisposition != "" {
		changes = append(changes, FieldChange{Field: "subDisposition", New: lead.SubDisposition})
	}
	if lead.AssignedToID != nil {
		changes = append(changes, FieldChange{Field: "assignedToId", New: *lead.AssignedToID})
	}
	if lead.AssignedByID != nil {
		changes = append(changes, FieldChange{Field: "assignedById", New: *lead.AssignedByID})
	}
	return changes
}

// applyString copies a submitted value onto the target and records the
// change if the value actually differs
func applyString(changes []FieldChange, field string, target *string, submitted *string) []FieldChange {
	if submitted == nil || *submitted == *target {
		return changes
	}
	changes = diffString(changes, field, *target, *submitted)
	*target = *submitted
	return changes
}

func applyUUIDPtr(changes []FieldChange, field string, target **uuid.UUID, submitted *uuid.UUID) []FieldChange {
	if submitted == nil {
		return changes
	}
	before := len(changes)
	changes = diffUUIDPtr(changes, field, *target, submitted)
	if len(changes) > before {
		*target = submitted
	}
	return changes
}

func uuidPtrValue(v *uuid.UUID) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func timePtrValue(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
