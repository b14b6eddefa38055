package jobnum

import (
	"context"
	"testing"

	"jobsync/core/sheets"
	"jobsync/core/sheets/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		StateSheetName:  "Job Number State",
		KeyColumn:       "key",
		ValueColumn:     "value",
		DataKey:         "StateData",
		DeptColumn:      "Dept #",
		WRNumColumn:     "Work Request #",
		JobNumColumn:    "Job #",
		ExcludePatterns: []string{"no match", "not assigned"},
		MaxAttempts:     3,
		RetryDelayMS:    1,
	}
}

// sourceSheet builds a sheet with the required columns (dept=1, wr=2, job=3)
// and one row per triple of display values.
func sourceSheet(id int64, name string, rows ...[3]string) *sheets.Sheet {
	sheet := &sheets.Sheet{
		ID:   id,
		Name: name,
		Columns: []sheets.Column{
			{ID: id*100 + 1, Title: "Dept #"},
			{ID: id*100 + 2, Title: "Work Request #"},
			{ID: id*100 + 3, Title: "Job #"},
		},
	}
	for i, r := range rows {
		sheet.Rows = append(sheet.Rows, sheets.Row{
			ID: id*1000 + int64(i+1),
			Cells: []sheets.Cell{
				{ColumnID: id*100 + 1, DisplayValue: r[0]},
				{ColumnID: id*100 + 2, DisplayValue: r[1]},
				{ColumnID: id*100 + 3, DisplayValue: r[2]},
			},
		})
	}
	return sheet
}

func TestDiscover_KeepsOnlyQualifyingSheets(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListSheets", mock.Anything).Return([]sheets.SheetInfo{
		{ID: 1, Name: "Requests A"},
		{ID: 2, Name: "Unrelated"},
		{ID: 3, Name: "Job Number State"},
	}, nil)
	client.On("GetSheet", mock.Anything, int64(1)).
		Return(sourceSheet(1, "Requests A"), nil)
	client.On("GetSheet", mock.Anything, int64(2)).Return(&sheets.Sheet{
		ID:      2,
		Name:    "Unrelated",
		Columns: []sheets.Column{{ID: 9, Title: "Notes"}},
	}, nil)

	collector := NewCollector(client, testConfig(), zap.NewNop())
	targets, err := collector.Discover(context.Background())

	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, int64(1), targets[0].SheetID)
	// The state sheet is never fetched, let alone processed.
	client.AssertNotCalled(t, "GetSheet", mock.Anything, int64(3))
}

func TestDiscover_InaccessibleSheetIsSkipped(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListSheets", mock.Anything).Return([]sheets.SheetInfo{
		{ID: 1, Name: "Requests A"},
		{ID: 2, Name: "Locked"},
	}, nil)
	client.On("GetSheet", mock.Anything, int64(1)).
		Return(sourceSheet(1, "Requests A"), nil)
	client.On("GetSheet", mock.Anything, int64(2)).
		Return(nil, &sheets.APIError{StatusCode: 403, Message: "forbidden"})

	collector := NewCollector(client, testConfig(), zap.NewNop())
	targets, err := collector.Discover(context.Background())

	require.NoError(t, err)
	require.Len(t, targets, 1)
}

func TestCollectRows_UsesDisplayValues(t *testing.T) {
	sheet := sourceSheet(1, "Requests A")
	// A formula cell: raw value differs from the rendered text.
	sheet.Rows = append(sheet.Rows, sheets.Row{
		ID: 1500,
		Cells: []sheets.Cell{
			{ColumnID: 101, Value: "=VLOOKUP(...)", DisplayValue: "101"},
			{ColumnID: 102, DisplayValue: "WR-1"},
			{ColumnID: 103, DisplayValue: ""},
		},
	})

	collector := NewCollector(new(mocks.Client), testConfig(), zap.NewNop())
	refs := collector.CollectRows([]Target{{
		SheetID:   1,
		SheetName: "Requests A",
		Columns:   map[string]int64{"Dept #": 101, "Work Request #": 102, "Job #": 103},
		Rows:      sheet.Rows,
	}})

	require.Len(t, refs, 1)
	assert.Equal(t, "101", refs[0].Dept)
	assert.Equal(t, "WR-1", refs[0].WRNum)
	assert.Equal(t, int64(103), refs[0].JobColumnID)
}

func TestCollectRows_Exclusions(t *testing.T) {
	tests := []struct {
		name string
		row  [3]string
		kept bool
	}{
		{"normal row", [3]string{"101", "WR-1", ""}, true},
		{"empty dept", [3]string{"", "WR-1", ""}, false},
		{"empty wr_num", [3]string{"101", "", ""}, false},
		{"dept with pattern", [3]string{"No Match - 004", "WR-1", ""}, false},
		{"wr_num with pattern", [3]string{"101", "not assigned", ""}, false},
		{"pattern is case-insensitive", [3]string{"101", "NO MATCH", ""}, false},
		{"excluded job_num does not drop the row", [3]string{"101", "WR-1", "No Match - 004"}, true},
	}

	collector := NewCollector(new(mocks.Client), testConfig(), zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := sourceSheet(1, "Requests A", tt.row)
			refs := collector.CollectRows([]Target{{
				SheetID:   1,
				SheetName: "Requests A",
				Columns:   map[string]int64{"Dept #": 101, "Work Request #": 102, "Job #": 103},
				Rows:      sheet.Rows,
			}})
			if tt.kept {
				assert.Len(t, refs, 1)
			} else {
				assert.Empty(t, refs)
			}
		})
	}
}
