package importer

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, workbook.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParseLeadSheet_ReadsRowsAndSkipsBlanks(t *testing.T) {
	tenantID := uuid.New()
	creatorID := uuid.New()
	channelID := uuid.New()

	reader := sheetBytes(t, [][]interface{}{
		{"first_name", "last_name", "email", "progress", "disposition", "channel_id"},
		{"Maria", "Santos", "maria@example.com", "New Lead Entry", "", channelID.String()},
		{"", "", "", "", "", ""},
		{"Jose", "", "", "Documentation", "Interested", ""},
	})

	rows, err := ParseLeadSheet(reader, tenantID, creatorID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "Maria", rows[0].FirstName)
	require.Equal(t, "maria@example.com", rows[0].Email)
	require.Equal(t, tenantID, rows[0].TenantID)
	require.Equal(t, creatorID, rows[0].CreatedByID)
	require.NotNil(t, rows[0].ChannelID)
	require.Equal(t, channelID, *rows[0].ChannelID)

	require.Equal(t, "Jose", rows[1].FirstName)
	require.Equal(t, "Interested", rows[1].Disposition)
	require.Nil(t, rows[1].ChannelID)
}

func TestParseLeadSheet_RequiresHeaderColumns(t *testing.T) {
	reader := sheetBytes(t, [][]interface{}{
		{"last_name", "email"},
		{"Santos", "maria@example.com"},
	})

	_, err := ParseLeadSheet(reader, uuid.New(), uuid.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "first_name")
}

func TestParseLeadSheet_MalformedUUIDFailsParse(t *testing.T) {
	reader := sheetBytes(t, [][]interface{}{
		{"first_name", "progress", "channel_id"},
		{"Maria", "New Lead Entry", "not-a-uuid"},
	})

	_, err := ParseLeadSheet(reader, uuid.New(), uuid.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel_id")
}
