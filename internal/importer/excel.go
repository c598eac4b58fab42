package importer

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/BhaskarKeelu1008/salesversedemo-be-sub002/internal/services"
)

// Column headers recognized in the first row of a lead import sheet.
// Matching is case-insensitive; unknown columns are ignored.
const (
	colFirstName      = "first_name"
	colLastName       = "last_name"
	colEmail          = "email"
	colPhone          = "phone"
	colProgress       = "progress"
	colDisposition    = "disposition"
	colSubDisposition = "sub_disposition"
	colChannelID      = "channel_id"
	colProductID      = "product_id"
	colAssignedToID   = "assigned_to_id"
)

// ParseLeadSheet reads the first sheet of an xlsx workbook into lead
// creation inputs. The first row must be a header row; every following
// non-empty row becomes one input. Parsing is strict only about uuid
// columns; malformed ids fail the whole parse so the caller never imports
// a silently truncated batch.
func ParseLeadSheet(r io.Reader, tenantID, createdByID uuid.UUID) ([]services.CreateLeadInput, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sheet rows")
	}
	if len(rows) < 2 {
		return nil, errors.New("sheet has no data rows")
	}

	columns := headerIndex(rows[0])
	if _, ok := columns[colFirstName]; !ok {
		return nil, errors.Errorf("missing required column %q", colFirstName)
	}
	if _, ok := columns[colProgress]; !ok {
		return nil, errors.Errorf("missing required column %q", colProgress)
	}

	inputs := make([]services.CreateLeadInput, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		input := services.CreateLeadInput{
			TenantID:       tenantID,
			CreatedByID:    createdByID,
			FirstName:      cell(row, columns, colFirstName),
			LastName:       cell(row, columns, colLastName),
			Email:          cell(row, columns, colEmail),
			Phone:          cell(row, columns, colPhone),
			Progress:       cell(row, columns, colProgress),
			Disposition:    cell(row, columns, colDisposition),
			SubDisposition: cell(row, columns, colSubDisposition),
		}

		input.ChannelID, err = cellUUID(row, columns, colChannelID)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		input.ProductID, err = cellUUID(row, columns, colProductID)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		input.AssignedToID, err = cellUUID(row, columns, colAssignedToID)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		if input.AssignedToID != nil {
			input.AssignedByID = &createdByID
		}

		inputs = append(inputs, input)
	}

	return inputs, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			columns[key] = i
		}
	}
	return columns
}

func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellUUID(row []string, columns map[string]int, name string) (*uuid.UUID, error) {
	raw := cell(row, columns, name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s %q", name, raw)
	}
	return &id, nil
}

func isEmptyRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
