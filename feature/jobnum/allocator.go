package jobnum

import (
	"fmt"

	"go.uber.org/zap"
)

// Allocation is the outcome of one allocator pass.
type Allocation struct {
	// Decided maps every observed work request number to its job number
	// for this run. All rows sharing a wr_num get the identical value.
	Decided map[string]string
	// NewAssignments counts work requests seen for the first time.
	NewAssignments int
	// Reused counts work requests whose persisted number was kept.
	Reused int
}

// Allocate decides a job number for every unique work request number in
// rows, mutating state in place.
//
// Counters are rehydrated from persisted numbers first, so a manually
// edited or partially saved state can never cause a counter to run
// backwards. A wr_num not yet in state gets the next number for its
// department (department taken from the first row encountered). A known
// wr_num keeps its stored number unchanged, unless the duplicate-suffix
// policy is enabled, in which case a re-sighting in a later run yields
// "<base>-<occurrence>"; that policy deliberately changes the visible
// number and is off by default.
func Allocate(state *State, rows []RowRef, format Formatter, duplicateSuffix bool, log *zap.Logger) Allocation {
	state.RehydrateCounters()

	// Group rows by wr_num, preserving first-seen order so assignment is
	// deterministic for a given collection pass.
	order := make([]string, 0, len(rows))
	grouped := make(map[string][]RowRef, len(rows))
	for _, row := range rows {
		if _, seen := grouped[row.WRNum]; !seen {
			order = append(order, row.WRNum)
		}
		grouped[row.WRNum] = append(grouped[row.WRNum], row)
	}

	// Snapshot which wr_nums were persisted by earlier runs; the suffix
	// policy only applies to those, never to numbers assigned within the
	// current pass.
	persisted := make(map[string]struct{}, len(state.Assignments))
	for wr := range state.Assignments {
		persisted[wr] = struct{}{}
	}

	alloc := Allocation{Decided: make(map[string]string, len(order))}
	for _, wrNum := range order {
		entries := grouped[wrNum]
		dept := entries[0].Dept
		warnDeptConflicts(wrNum, entries, log)

		rec, known := state.Assignments[wrNum]
		switch {
		case !known:
			state.DeptCounters[dept]++
			number := format(dept, state.DeptCounters[dept])
			state.Assignments[wrNum] = AssignmentRecord{BaseJobNum: number}
			alloc.Decided[wrNum] = number
			alloc.NewAssignments++
			log.Info("assigned new job number",
				zap.String("job_number", number),
				zap.String("wr_num", wrNum),
				zap.String("dept", dept))

		case duplicateSuffix:
			if _, wasPersisted := persisted[wrNum]; wasPersisted {
				rec.DuplicateCount++
				state.Assignments[wrNum] = rec
				derived := fmt.Sprintf("%s-%d", rec.BaseJobNum, rec.DuplicateCount)
				alloc.Decided[wrNum] = derived
				alloc.Reused++
				log.Info("re-sighted work request, deriving occurrence number",
					zap.String("wr_num", wrNum),
					zap.String("base", rec.BaseJobNum),
					zap.String("derived", derived))
			} else {
				alloc.Decided[wrNum] = rec.BaseJobNum
				alloc.Reused++
			}

		default:
			alloc.Decided[wrNum] = rec.BaseJobNum
			alloc.Reused++
		}
	}

	return alloc
}

func warnDeptConflicts(wrNum string, entries []RowRef, log *zap.Logger) {
	first := entries[0]
	sheetsSeen := map[int64]struct{}{first.SheetID: {}}
	for _, e := range entries[1:] {
		sheetsSeen[e.SheetID] = struct{}{}
		if e.Dept != first.Dept {
			log.Warn("work request appears with conflicting departments, first one wins",
				zap.String("wr_num", wrNum),
				zap.String("dept", first.Dept),
				zap.String("conflicting", e.Dept))
		}
	}
	if len(sheetsSeen) > 1 {
		log.Warn("duplicate work request found in multiple sheets, assigning the same job number to all occurrences",
			zap.String("wr_num", wrNum), zap.Int("sheets", len(sheetsSeen)))
	}
}
