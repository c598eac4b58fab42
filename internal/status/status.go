package status

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
)

// Lead progress stages and dispositions the rule table matches on.
const (
	ProgressNewLeadEntry  = "New Lead Entry"
	ProgressDocumentation = "Documentation"

	DispositionNotInterested  = "Not Interested"
	DispositionWrongNumber    = "Wrong Number"
	DispositionCannotAfford   = "Cannot Afford"
	DispositionTechnicalIssue = "Technical Issue"
	DispositionInterested     = "Interested"

	SubDispositionReadyToBuy = "Ready to Buy"
)

// DeriveLeadStatus maps a lead's (progress, disposition, subDisposition)
// triple to a fresh status record. The rules are evaluated in precedence
// order and the first match wins; the name is deterministic for a given
// input triple while the id and timestamp are fresh per call.
//
// Unrecognized combinations fall through to Open. That permissiveness is
// inherited behavior; do not tighten it without product confirmation.
func DeriveLeadStatus(progress, disposition, subDisposition string) models.LeadStatusRecord {
	return models.LeadStatusRecord{
		ID:             uuid.New(),
		Name:           leadStatusName(progress, disposition, subDisposition),
		Progress:       progress,
		Disposition:    disposition,
		SubDisposition: subDisposition,
	}
}

func leadStatusName(progress, disposition, subDisposition string) models.LeadStatusName {
	switch {
	case progress == ProgressNewLeadEntry:
		return models.LeadStatusOpen
	case disposition == DispositionNotInterested || disposition == DispositionWrongNumber:
		return models.LeadStatusDiscarded
	case disposition == DispositionCannotAfford || disposition == DispositionTechnicalIssue:
		return models.LeadStatusFailed
	case disposition == DispositionInterested &&
		subDisposition == SubDispositionReadyToBuy &&
		progress == ProgressDocumentation:
		return models.LeadStatusConverted
	default:
		return models.LeadStatusOpen
	}
}

// ParseApplicationStatus validates a raw application status value against
// the allowed vocabulary. Unlike the lead rule table, unknown values are
// rejected rather than defaulted.
func ParseApplicationStatus(raw string) (models.ApplicationStatus, error) {
	switch models.ApplicationStatus(raw) {
	case models.ApplicationStatusSubmitted,
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusReturned:
		return models.ApplicationStatus(raw), nil
	default:
		return "", fmt.Errorf("invalid application status %q", raw)
	}
}

// ParseDocumentDecision validates a raw document review decision.
func ParseDocumentDecision(raw string) (models.DocumentDecision, error) {
	switch models.DocumentDecision(raw) {
	case models.DocumentSubmitted, models.DocumentApproved, models.DocumentRejected:
		return models.DocumentDecision(raw), nil
	default:
		return "", fmt.Errorf("invalid document status %q", raw)
	}
}
