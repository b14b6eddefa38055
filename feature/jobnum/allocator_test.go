package jobnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func row(sheetID int64, rowID int64, dept, wrNum, jobNum string) RowRef {
	return RowRef{
		SheetID:     sheetID,
		SheetName:   "Sheet",
		RowID:       rowID,
		JobColumnID: 900,
		Dept:        dept,
		WRNum:       wrNum,
		JobNum:      jobNum,
	}
}

func TestAllocate_FirstAssignment(t *testing.T) {
	state := NewState()
	rows := []RowRef{row(1, 10, "101", "WR-1", "")}

	alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())

	assert.Equal(t, "101-001", alloc.Decided["WR-1"])
	assert.Equal(t, 1, alloc.NewAssignments)
	assert.Equal(t, "101-001", state.Assignments["WR-1"].BaseJobNum)
	assert.Equal(t, 1, state.DeptCounters["101"])
}

func TestAllocate_SameWRNumAcrossSheets(t *testing.T) {
	state := NewState()
	rows := []RowRef{
		row(1, 10, "101", "WR-1", ""),
		row(2, 20, "101", "WR-1", ""),
		row(1, 11, "101", "WR-2", ""),
	}

	alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())

	// The value is decided once per wr_num, never per row.
	assert.Equal(t, "101-001", alloc.Decided["WR-1"])
	assert.Equal(t, "101-002", alloc.Decided["WR-2"])
	assert.Equal(t, 2, alloc.NewAssignments)
}

func TestAllocate_ReusesPersistedNumber(t *testing.T) {
	state := NewState()
	state.Assignments["WR-1"] = AssignmentRecord{BaseJobNum: "101-001"}

	rows := []RowRef{
		row(1, 10, "101", "WR-1", "101-001"),
		row(1, 11, "101", "WR-2", ""),
	}

	alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())

	// Counters rehydrate from persisted numbers: WR-2 must not collide.
	assert.Equal(t, "101-001", alloc.Decided["WR-1"])
	assert.Equal(t, "101-002", alloc.Decided["WR-2"])
	assert.Equal(t, 1, alloc.Reused)
	assert.Equal(t, 1, alloc.NewAssignments)
}

func TestAllocate_CounterNeverRunsBackwards(t *testing.T) {
	state := NewState()
	state.Assignments["WR-9"] = AssignmentRecord{BaseJobNum: "101-017"}
	// Simulate a partial save that left the counter behind.
	state.DeptCounters["101"] = 3

	rows := []RowRef{row(1, 10, "101", "WR-NEW", "")}

	alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())

	assert.Equal(t, "101-018", alloc.Decided["WR-NEW"])
	assert.Equal(t, 18, state.DeptCounters["101"])
}

func TestAllocate_IndependentDepartmentCounters(t *testing.T) {
	state := NewState()
	rows := []RowRef{
		row(1, 10, "101", "WR-1", ""),
		row(1, 11, "202", "WR-2", ""),
		row(1, 12, "101", "WR-3", ""),
	}

	alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())

	assert.Equal(t, "101-001", alloc.Decided["WR-1"])
	assert.Equal(t, "202-001", alloc.Decided["WR-2"])
	assert.Equal(t, "101-002", alloc.Decided["WR-3"])
}

func TestAllocate_DeptConflictFirstRowWins(t *testing.T) {
	state := NewState()
	rows := []RowRef{
		row(1, 10, "101", "WR-1", ""),
		row(2, 20, "202", "WR-1", ""),
	}

	alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())

	assert.Equal(t, "101-001", alloc.Decided["WR-1"])
	assert.Zero(t, state.DeptCounters["202"])
}

func TestAllocate_DuplicateSuffixVariant(t *testing.T) {
	state := NewState()
	state.Assignments["WR-1"] = AssignmentRecord{BaseJobNum: "101-001"}

	rows := []RowRef{row(1, 10, "101", "WR-1", "101-001")}

	alloc := Allocate(state, rows, DefaultFormatter, true, zap.NewNop())

	// Re-sighting a persisted wr_num derives an occurrence number.
	assert.Equal(t, "101-001-1", alloc.Decided["WR-1"])
	assert.Equal(t, 1, state.Assignments["WR-1"].DuplicateCount)
	// The base never changes.
	assert.Equal(t, "101-001", state.Assignments["WR-1"].BaseJobNum)
}

func TestAllocate_DuplicateSuffixNotAppliedWithinSameRun(t *testing.T) {
	state := NewState()
	rows := []RowRef{
		row(1, 10, "101", "WR-1", ""),
		row(2, 20, "101", "WR-1", ""),
	}

	alloc := Allocate(state, rows, DefaultFormatter, true, zap.NewNop())

	// Numbers assigned within the current pass are not "re-sightings".
	require.Equal(t, "101-001", alloc.Decided["WR-1"])
	assert.Zero(t, state.Assignments["WR-1"].DuplicateCount)
}

func TestAllocate_Deterministic(t *testing.T) {
	rows := []RowRef{
		row(1, 10, "101", "WR-B", ""),
		row(1, 11, "101", "WR-A", ""),
	}

	for i := 0; i < 5; i++ {
		state := NewState()
		alloc := Allocate(state, rows, DefaultFormatter, false, zap.NewNop())
		// First-seen order decides, not map iteration order.
		assert.Equal(t, "101-001", alloc.Decided["WR-B"])
		assert.Equal(t, "101-002", alloc.Decided["WR-A"])
	}
}
