package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/metrics"
)

// ImportRowResult is the outcome of one imported row
type ImportRowResult struct {
	Row    int        `json:"row"`
	LeadID *uuid.UUID `json:"lead_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// ImportSummary aggregates the per-row results of a bulk import
type ImportSummary struct {
	Total    int               `json:"total"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Results  []ImportRowResult `json:"results"`
}

// ImportLeads runs each pre-parsed row through lead creation independently.
// A failing row is recorded and skipped; it never aborts the batch.
func (s *LeadService) ImportLeads(ctx context.Context, rows []CreateLeadInput) ImportSummary {
	summary := ImportSummary{
		Total:   len(rows),
		Results: make([]ImportRowResult, 0, len(rows)),
	}

	for i, row := range rows {
		result := ImportRowResult{Row: i + 1}

		lead, err := s.Create(ctx, row)
		if err != nil {
			result.Error = err.Error()
			summary.Failed++
			log.Warn().Err(err).Int("row", i+1).Msg("lead import row failed")
		} else {
			id := lead.ID
			result.LeadID = &id
			summary.Imported++
			s.collector.IncrCounter(metrics.LeadsImported)
		}

		summary.Results = append(summary.Results, result)
	}

	return summary
}
