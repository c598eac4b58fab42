package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/status"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

func newLeadServiceForTest(t *testing.T) (*LeadService, *MockRepository) {
	t.Helper()
	repo := new(MockRepository)
	repo.On("InsertNotification", mock.Anything, mock.Anything).Return(nil).Maybe()
	collector := metrics.NewMetrics()
	notifier := NewNotifier(repo, nil, collector)
	svc := NewLeadService(repo, NewAuditRecorder(), notifier, nil, nil, &tracing.NewRelicTracer{}, collector)
	return svc, repo
}

func activeAgents(ids ...uuid.UUID) []*models.Agent {
	agents := make([]*models.Agent, 0, len(ids))
	for _, id := range ids {
		agents = append(agents, &models.Agent{Model: models.Model{ID: id}, Active: true})
	}
	return agents
}

func TestCreateLead_DerivesOpenStatusWithAuditBatch(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	creator := uuid.New()

	var audited []*models.AuditRecord
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(creator), nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertLeadStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	lead, err := svc.Create(context.Background(), CreateLeadInput{
		TenantID:    uuid.New(),
		FirstName:   "Maria",
		Progress:    status.ProgressNewLeadEntry,
		CreatedByID: creator,
	})
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusOpen, lead.CurrentStatusName)
	require.Equal(t, uint(1), lead.Version)
	require.Len(t, lead.StatusHistory, 1)
	require.Equal(t, lead.CurrentStatusID, lead.StatusHistory[0].ID)

	require.NotEmpty(t, audited)
	var sawStatus bool
	for _, record := range audited {
		require.Equal(t, "lead", record.EntityType)
		require.Equal(t, lead.ID, record.EntityID)
		require.Equal(t, models.ChangeCreate, record.ChangeType)
		require.Nil(t, record.OldValue)
		require.Equal(t, creator, record.ChangedByID)
		if record.Field == "currentStatus" {
			sawStatus = true
			require.Equal(t, "Open", *record.NewValue)
		}
	}
	require.True(t, sawStatus)
}

func TestCreateLead_ListsEveryInvalidActor(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	creator := uuid.New()
	assignee := uuid.New()
	assigner := uuid.New()

	// Only the creator resolves; both ownership actors are missing.
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(creator), nil)

	_, err := svc.Create(context.Background(), CreateLeadInput{
		FirstName:    "Maria",
		Progress:     status.ProgressNewLeadEntry,
		CreatedByID:  creator,
		AssignedToID: &assignee,
		AssignedByID: &assigner,
	})
	require.Error(t, err)
	require.True(t, IsValidation(err))
	require.Contains(t, err.Error(), assignee.String())
	require.Contains(t, err.Error(), assigner.String())
	repo.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestUpdateLead_RecomputesStatusAndAppendsHistory(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	actor := uuid.New()
	leadID := uuid.New()

	existing := &models.Lead{
		Model:             models.Model{ID: leadID},
		FirstName:         "Maria",
		Progress:          status.ProgressDocumentation,
		Disposition:       status.DispositionInterested,
		CurrentStatusID:   uuid.New(),
		CurrentStatusName: models.LeadStatusOpen,
		Version:           3,
	}

	var audited []*models.AuditRecord
	var appended *models.LeadStatusRecord
	repo.On("FindLeadByID", mock.Anything, leadID).Return(existing, nil)
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(actor), nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateLead", mock.Anything, mock.Anything, uint(3)).Return(nil)
	repo.On("InsertLeadStatus", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*models.LeadStatusRecord)
		}).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	sub := status.SubDispositionReadyToBuy
	updated, err := svc.Update(context.Background(), leadID, UpdateLeadInput{
		SubDisposition: &sub,
		UpdatedByID:    actor,
	})
	require.NoError(t, err)
	require.Equal(t, models.LeadStatusConverted, updated.CurrentStatusName)
	require.Equal(t, uint(4), updated.Version)

	require.NotNil(t, appended)
	require.Equal(t, leadID, appended.LeadID)
	require.Equal(t, models.LeadStatusConverted, appended.Name)

	var statusChange *models.AuditRecord
	for _, record := range audited {
		if record.Field == "currentStatus" {
			statusChange = record
		}
	}
	require.NotNil(t, statusChange)
	require.Equal(t, "Open", *statusChange.OldValue)
	require.Equal(t, "Converted", *statusChange.NewValue)
}

func TestUpdateLead_RejectsEmptyChangeSet(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	actor := uuid.New()
	leadID := uuid.New()

	existing := &models.Lead{
		Model:     models.Model{ID: leadID},
		FirstName: "Maria",
		Progress:  status.ProgressNewLeadEntry,
		Version:   1,
	}
	repo.On("FindLeadByID", mock.Anything, leadID).Return(existing, nil)
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(actor), nil)

	same := "Maria"
	_, err := svc.Update(context.Background(), leadID, UpdateLeadInput{
		FirstName:   &same,
		UpdatedByID: actor,
	})
	require.True(t, IsValidation(err))
	repo.AssertNotCalled(t, "UpdateLead", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateLead_ConcurrentModificationConflicts(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	actor := uuid.New()
	leadID := uuid.New()

	existing := &models.Lead{
		Model:    models.Model{ID: leadID},
		Progress: status.ProgressNewLeadEntry,
		Version:  2,
	}
	repo.On("FindLeadByID", mock.Anything, leadID).Return(existing, nil)
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(actor), nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateLead", mock.Anything, mock.Anything, uint(2)).Return(repositories.ErrStaleObject)

	name := "Ana"
	_, err := svc.Update(context.Background(), leadID, UpdateLeadInput{
		FirstName:   &name,
		UpdatedByID: actor,
	})
	require.True(t, IsConflict(err))
}

func TestChangeOwnership_WritesExactlyThreeAuditEntries(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	leadID := uuid.New()
	previousOwner := uuid.New()
	newAssignee := uuid.New()
	newAssigner := uuid.New()

	past := time.Now().Add(-time.Hour)
	existing := &models.Lead{
		Model:        models.Model{ID: leadID},
		Progress:     status.ProgressNewLeadEntry,
		AssignedToID: &previousOwner,
		AssignedAt:   &past,
		Version:      1,
	}

	var audited []*models.AuditRecord
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(newAssignee, newAssigner), nil)
	repo.On("FindLeadByID", mock.Anything, leadID).Return(existing, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateLead", mock.Anything, mock.Anything, uint(1)).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	updated, err := svc.ChangeOwnership(context.Background(), leadID, newAssignee, newAssigner)
	require.NoError(t, err)
	require.Equal(t, newAssignee, *updated.AssignedToID)
	require.Equal(t, newAssigner, *updated.AssignedByID)

	require.Len(t, audited, 3)
	fields := map[string]bool{}
	for _, record := range audited {
		fields[record.Field] = true
		require.Equal(t, newAssigner, record.ChangedByID)
		require.Equal(t, models.ChangeUpdate, record.ChangeType)
	}
	require.True(t, fields["assignedToId"])
	require.True(t, fields["assignedById"])
	require.True(t, fields["assignedAt"])
}

func TestDeleteLead_SoftDeletesWithAuditEntry(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	leadID := uuid.New()
	actor := uuid.New()

	existing := &models.Lead{Model: models.Model{ID: leadID}, Progress: status.ProgressNewLeadEntry}

	var audited []*models.AuditRecord
	repo.On("FindLeadByID", mock.Anything, leadID).Return(existing, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("SoftDeleteLead", mock.Anything, leadID).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), leadID, actor))
	require.Len(t, audited, 1)
	require.Equal(t, models.ChangeDelete, audited[0].ChangeType)
}

func TestGetLead_NotFound(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	leadID := uuid.New()

	repo.On("FindLeadByID", mock.Anything, leadID).Return(nil, repositories.ErrNotFound)

	_, err := svc.Get(context.Background(), leadID)
	require.True(t, IsNotFound(err))
}

func TestImportLeads_RowFailureDoesNotAbortBatch(t *testing.T) {
	svc, repo := newLeadServiceForTest(t)
	creator := uuid.New()
	badActor := uuid.New()

	repo.On("FindActiveAgentsByIDs", mock.Anything, []uuid.UUID{creator}).Return(activeAgents(creator), nil)
	repo.On("FindActiveAgentsByIDs", mock.Anything, []uuid.UUID{badActor}).Return([]*models.Agent{}, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertLeadStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).Return(nil)

	summary := svc.ImportLeads(context.Background(), []CreateLeadInput{
		{FirstName: "Ana", Progress: status.ProgressNewLeadEntry, CreatedByID: creator},
		{FirstName: "Bad", Progress: status.ProgressNewLeadEntry, CreatedByID: badActor},
		{FirstName: "Carla", Progress: status.ProgressNewLeadEntry, CreatedByID: creator},
	})

	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.Imported)
	require.Equal(t, 1, summary.Failed)
	require.NotEmpty(t, summary.Results[1].Error)
	require.Nil(t, summary.Results[1].LeadID)
	require.NotNil(t, summary.Results[2].LeadID)
}
