package status

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/models"
)

func TestDeriveLeadStatusTable(t *testing.T) {
	cases := []struct {
		name           string
		progress       string
		disposition    string
		subDisposition string
		want           models.LeadStatusName
	}{
		{"new lead entry is open", "New Lead Entry", "", "", models.LeadStatusOpen},
		{"new lead entry wins over disposition", "New Lead Entry", "Not Interested", "", models.LeadStatusOpen},
		{"wrong number discards", "Follow Up", "Wrong Number", "", models.LeadStatusDiscarded},
		{"not interested discards", "Negotiation", "Not Interested", "", models.LeadStatusDiscarded},
		{"cannot afford fails", "Negotiation", "Cannot Afford", "", models.LeadStatusFailed},
		{"technical issue fails", "Follow Up", "Technical Issue", "", models.LeadStatusFailed},
		{"ready to buy in documentation converts", "Documentation", "Interested", "Ready to Buy", models.LeadStatusConverted},
		{"comparing options falls back to open", "Documentation", "Interested", "Comparing Options", models.LeadStatusOpen},
		{"interested outside documentation stays open", "Negotiation", "Interested", "Ready to Buy", models.LeadStatusOpen},
		{"unknown combination falls back to open", "Site Visit", "Thinking", "", models.LeadStatusOpen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveLeadStatus(tc.progress, tc.disposition, tc.subDisposition)
			require.Equal(t, tc.want, got.Name)
			require.Equal(t, tc.progress, got.Progress)
		})
	}
}

func TestDeriveLeadStatusDeterministicNameFreshID(t *testing.T) {
	a := DeriveLeadStatus("Documentation", "Interested", "Ready to Buy")
	b := DeriveLeadStatus("Documentation", "Interested", "Ready to Buy")

	require.Equal(t, a.Name, b.Name)
	require.NotEqual(t, a.ID, b.ID)
}

func TestParseApplicationStatus(t *testing.T) {
	for _, valid := range []string{
		"applicationSubmitted", "underReview", "approved", "rejected", "returned",
	} {
		st, err := ParseApplicationStatus(valid)
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatus(valid), st)
	}

	_, err := ParseApplicationStatus("Open")
	require.Error(t, err)

	_, err = ParseApplicationStatus("")
	require.Error(t, err)
}

func TestParseDocumentDecision(t *testing.T) {
	for _, valid := range []string{"documentSubmitted", "approve", "reject"} {
		d, err := ParseDocumentDecision(valid)
		require.NoError(t, err)
		require.Equal(t, models.DocumentDecision(valid), d)
	}

	_, err := ParseDocumentDecision("declined")
	require.Error(t, err)
}
