package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
)

func TestAuditRecorder_RejectsEmptyChangeSet(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()

	err := recorder.Record(context.Background(), repo, "lead", uuid.New(), uuid.New(),
		models.ChangeUpdate, nil)
	require.Error(t, err)
	repo.AssertNotCalled(t, "InsertAuditRecords", mock.Anything, mock.Anything)
}

func TestAuditRecorder_WritesOneRecordPerChange(t *testing.T) {
	repo := new(MockRepository)
	recorder := NewAuditRecorder()
	entityID := uuid.New()
	actorID := uuid.New()

	var audited []*models.AuditRecord
	repo.On("InsertAuditRecords", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			audited = args.Get(1).([]*models.AuditRecord)
		}).Return(nil)

	channelID := uuid.New()
	err := recorder.Record(context.Background(), repo, "lead", entityID, actorID,
		models.ChangeUpdate, []FieldChange{
			{Field: "firstName", Old: "Ana", New: "Maria"},
			{Field: "channelId", Old: nil, New: channelID},
		})
	require.NoError(t, err)
	require.Len(t, audited, 2)

	first := audited[0]
	require.Equal(t, "firstName", first.Field)
	require.Equal(t, "Ana", *first.OldValue)
	require.Equal(t, "Maria", *first.NewValue)
	require.Equal(t, actorID, first.ChangedByID)
	require.Equal(t, entityID, first.EntityID)

	second := audited[1]
	require.Equal(t, "channelId", second.Field)
	require.Nil(t, second.OldValue)
	require.Equal(t, channelID.String(), *second.NewValue)
}

func TestStringify_DistinguishesNilFromEmpty(t *testing.T) {
	require.Nil(t, stringify(nil))

	empty := stringify("")
	require.NotNil(t, empty)
	require.Equal(t, "", *empty)

	var nilID *uuid.UUID
	require.Nil(t, stringify(nilID))
}
