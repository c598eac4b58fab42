package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/tracing"
)

func newAOBServiceForTest(t *testing.T) (*AOBService, *MockRepository) {
	t.Helper()
	repo := new(MockRepository)
	repo.On("InsertNotification", mock.Anything, mock.Anything).Return(nil).Maybe()
	collector := metrics.NewMetrics()
	notifier := NewNotifier(repo, nil, collector)
	svc := NewAOBService(repo, NewAuditRecorder(), notifier, &tracing.NewRelicTracer{}, collector)
	return svc, repo
}

func applicationWithDocuments(docTypes ...string) *models.Application {
	app := &models.Application{
		Model:          models.Model{ID: uuid.New()},
		TenantID:       uuid.New(),
		ApplicantName:  "Jose Reyes",
		ApplicantEmail: "jose.reyes@example.com",
		Status:         models.ApplicationStatusUnderReview,
		Version:        1,
	}
	for _, docType := range docTypes {
		app.Documents = append(app.Documents, models.ApplicationDocument{
			Model:         models.Model{ID: uuid.New()},
			ApplicationID: app.ID,
			Type:          docType,
			Status:        models.DocumentSubmitted,
		})
	}
	return app
}

func TestCreateApplication_StartsSubmittedWithAudit(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)
	creator := uuid.New()

	var audited []*models.AuditRecord
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(creator), nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateApplication", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertApplicationStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	app, err := svc.Create(context.Background(), CreateApplicationInput{
		ApplicantName:  "Jose Reyes",
		ApplicantEmail: "jose.reyes@example.com",
		CreatedByID:    creator,
		Documents: []ApplicationDocumentInput{
			{Type: "validId", Name: "id.pdf"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, app.Status)
	require.Len(t, app.Documents, 1)
	require.Equal(t, models.DocumentSubmitted, app.Documents[0].Status)

	require.NotEmpty(t, audited)
	for _, record := range audited {
		require.Equal(t, models.ChangeCreate, record.ChangeType)
		require.Nil(t, record.OldValue)
	}
}

func TestUpdateStatus_RejectsUnknownVocabulary(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "pending", uuid.New())
	require.True(t, IsValidation(err))
	repo.AssertNotCalled(t, "UpdateApplication", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchDecisions_RejectWithoutRemarksNamesEveryOffender(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)
	reviewer := uuid.New()
	app := applicationWithDocuments("validId", "proofOfAddress", "bankStatement")

	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(reviewer), nil)
	repo.On("FindApplicationByID", mock.Anything, app.ID).Return(app, nil)

	_, err := svc.BatchUpdateDocumentStatus(context.Background(), app.ID, []DocumentDecisionInput{
		{DocumentID: app.Documents[0].ID, Status: "reject"},
		{DocumentID: app.Documents[1].ID, Status: "approve"},
		{DocumentID: app.Documents[2].ID, Status: "reject", Remarks: "   "},
	}, BatchDecisionOptions{ReviewerID: reviewer})

	require.True(t, IsValidation(err))
	require.Contains(t, err.Error(), app.Documents[0].ID.String())
	require.Contains(t, err.Error(), app.Documents[2].ID.String())
	require.NotContains(t, err.Error(), app.Documents[1].ID.String())
	repo.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "InsertDocumentHistory", mock.Anything, mock.Anything)
}

func TestBatchDecisions_RejectMaintainsDiscrepancyAndReturnsApplication(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)
	reviewer := uuid.New()
	app := applicationWithDocuments("validId", "proofOfAddress")

	var upserted *models.DiscrepancyItem
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(reviewer), nil)
	repo.On("FindApplicationByID", mock.Anything, app.ID).Return(app, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertDocumentHistory", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpsertDiscrepancy", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(*models.DiscrepancyItem)
		}).Return(nil)
	repo.On("DeleteDiscrepancyByType", mock.Anything, app.ID, "proofOfAddress").Return(nil)
	repo.On("UpdateApplication", mock.Anything, mock.Anything, uint(1)).Return(nil)
	repo.On("InsertApplicationStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.BatchUpdateDocumentStatus(context.Background(), app.ID, []DocumentDecisionInput{
		{DocumentID: app.Documents[0].ID, Status: "reject", Remarks: "photo is blurry"},
		{DocumentID: app.Documents[1].ID, Status: "approve"},
	}, BatchDecisionOptions{ReviewerID: reviewer, DeriveAggregate: true})

	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusReturned, result.Status)

	require.NotNil(t, upserted)
	require.Equal(t, "validId", upserted.DocumentType)
	require.Equal(t, "photo is blurry", upserted.Remarks)
	repo.AssertCalled(t, "DeleteDiscrepancyByType", mock.Anything, app.ID, "proofOfAddress")
}

func TestBatchDecisions_AllApprovedProvisionsAgent(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)
	reviewer := uuid.New()
	projectID := uuid.New()
	app := applicationWithDocuments("validId", "proofOfAddress")
	app.ProjectID = &projectID

	var provisioned *models.Agent
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(reviewer), nil)
	repo.On("FindApplicationByID", mock.Anything, app.ID).Return(app, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertDocumentHistory", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeleteDiscrepancyByType", mock.Anything, app.ID, mock.Anything).Return(nil)
	repo.On("UpdateApplication", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertApplicationStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).Return(nil)
	repo.On("CountAgentsByCodeOrEmail", mock.Anything, mock.Anything, app.ApplicantEmail, uuid.Nil).Return(int64(0), nil)
	repo.On("CreateAgent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			provisioned = args.Get(1).(*models.Agent)
		}).Return(nil)

	result, err := svc.BatchUpdateDocumentStatus(context.Background(), app.ID, []DocumentDecisionInput{
		{DocumentID: app.Documents[0].ID, Status: "approve"},
		{DocumentID: app.Documents[1].ID, Status: "approve"},
	}, BatchDecisionOptions{ReviewerID: reviewer, DeriveAggregate: true})

	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, result.Status)
	require.NotNil(t, provisioned)
	require.Equal(t, app.ApplicantEmail, provisioned.Email)
	require.True(t, provisioned.Active)
	require.NotNil(t, result.AgentID)
	require.Equal(t, provisioned.ID, *result.AgentID)
}

func TestBatchDecisions_ProvisioningConflictFailsApproval(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)
	reviewer := uuid.New()
	projectID := uuid.New()
	app := applicationWithDocuments("validId")
	app.ProjectID = &projectID

	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(reviewer), nil)
	repo.On("FindApplicationByID", mock.Anything, app.ID).Return(app, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertDocumentHistory", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeleteDiscrepancyByType", mock.Anything, app.ID, mock.Anything).Return(nil)
	repo.On("UpdateApplication", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertApplicationStatus", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).Return(nil)
	repo.On("CountAgentsByCodeOrEmail", mock.Anything, mock.Anything, app.ApplicantEmail, uuid.Nil).Return(int64(1), nil)

	_, err := svc.BatchUpdateDocumentStatus(context.Background(), app.ID, []DocumentDecisionInput{
		{DocumentID: app.Documents[0].ID, Status: "approve"},
	}, BatchDecisionOptions{ReviewerID: reviewer, DeriveAggregate: true})

	require.True(t, IsConflict(err))
	repo.AssertNotCalled(t, "CreateAgent", mock.Anything, mock.Anything)
}

func TestUpdateStatus_AppendsHistoryAndAuditsTransition(t *testing.T) {
	svc, repo := newAOBServiceForTest(t)
	reviewer := uuid.New()
	app := applicationWithDocuments("validId")

	var record *models.ApplicationStatusRecord
	var audited []*models.AuditRecord
	repo.On("FindActiveAgentsByIDs", mock.Anything, mock.Anything).Return(activeAgents(reviewer), nil)
	repo.On("FindApplicationByID", mock.Anything, app.ID).Return(app, nil)
	repo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateApplication", mock.Anything, mock.Anything, uint(1)).Return(nil)
	repo.On("InsertApplicationStatus", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			record = args.Get(1).(*models.ApplicationStatusRecord)
		}).Return(nil)
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), app.ID, "rejected", reviewer)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, updated.Status)
	require.Equal(t, reviewer, *updated.ReviewedByID)

	require.NotNil(t, record)
	require.Equal(t, models.ApplicationStatusRejected, record.Status)

	require.Len(t, audited, 1)
	require.Equal(t, "status", audited[0].Field)
	require.Equal(t, string(models.ApplicationStatusUnderReview), *audited[0].OldValue)
	require.Equal(t, string(models.ApplicationStatusRejected), *audited[0].NewValue)
}
