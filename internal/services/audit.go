package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/repositories"
)

// FieldChange describes one field mutation to be audited. Old and New are
// the values before and after; nil means absent.
type FieldChange struct {
	Field string
	Old   interface{}
	New   interface{}
}

// AuditRecorder writes immutable field-level audit records. It is always
// invoked with the transaction-scoped repository of the mutation it
// describes, so the records commit or roll back with the change itself.
type AuditRecorder struct{}

// NewAuditRecorder creates an audit recorder
func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{}
}

// Record writes one audit record per change. An empty change set is
// rejected: a mutation that changed nothing has no business writing an
// audit entry, and silently writing none would mask caller bugs.
func (a *AuditRecorder) Record(
	ctx context.Context,
	repo repositories.Repository,
	entityType string,
	entityID uuid.UUID,
	changedByID uuid.UUID,
	changeType models.ChangeType,
	changes []FieldChange,
) error {
	if len(changes) == 0 {
		return errors.New("audit: empty change set")
	}

	now := time.Now()
	records := make([]*models.AuditRecord, 0, len(changes))
	for _, change := range changes {
		records = append(records, &models.AuditRecord{
			ID:          uuid.New(),
			EntityType:  entityType,
			EntityID:    entityID,
			Field:       change.Field,
			OldValue:    stringify(change.Old),
			NewValue:    stringify(change.New),
			ChangedByID: changedByID,
			ChangeType:  changeType,
			CreatedAt:   now,
		})
	}

	return repo.InsertAuditRecords(ctx, records)
}

// stringify renders an audit value for storage. nil stays nil so absent
// values are distinguishable from empty strings.
func stringify(v interface{}) *string {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case *string:
		return t
	case string:
		return &t
	case *uuid.UUID:
		if t == nil {
			return nil
		}
		s := t.String()
		return &s
	case uuid.UUID:
		s := t.String()
		return &s
	case *time.Time:
		if t == nil {
			return nil
		}
		s := t.UTC().Format(time.RFC3339)
		return &s
	case time.Time:
		s := t.UTC().Format(time.RFC3339)
		return &s
	case fmt.Stringer:
		s := t.String()
		return &s
	default:
		s := fmt.Sprintf("%v", v)
		return &s
	}
}

// diffString appends a change when old and new differ
func diffString(changes []FieldChange, field, oldValue, newValue string) []FieldChange {
	if oldValue == newValue {
		return changes
	}
	return append(changes, FieldChange{Field: field, Old: oldValue, New: newValue})
}

// diffUUIDPtr appends a change when old and new differ, treating nil as absent
func diffUUIDPtr(changes []FieldChange, field string, oldValue, newValue *uuid.UUID) []FieldChange {
	switch {
	case oldValue == nil && newValue == nil:
		return changes
	case oldValue != nil && newValue != nil && *oldValue == *newValue:
		return changes
	}
	var o, n interface{}
	if oldValue != nil {
		o = *oldValue
	}
	if newValue != nil {
		n = *newValue
	}
	return append(changes, FieldChange{Field: field, Old: o, New: n})
}
