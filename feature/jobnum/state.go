package jobnum

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AssignmentRecord is the persisted record for one work request number.
type AssignmentRecord struct {
	// BaseJobNum is the job number assigned on first sighting. It is never
	// reassigned on later runs.
	BaseJobNum string `json:"base_job_num"`
	// DuplicateCount tracks how many times the work request has been
	// re-sighted across runs. Only advanced under the duplicate-suffix
	// policy.
	DuplicateCount int `json:"duplicate_count"`
}

// SheetChain groups a source sheet with the overflow siblings created for
// it when the source hit its row limit.
type SheetChain struct {
	SourceSheetID    int64   `json:"source_sheet_id"`
	OverflowSheetIDs []int64 `json:"overflow_sheet_ids"`
}

// State is the cross-run persistence blob. It is loaded once at run start,
// mutated only by the allocator and the overflow writer, and saved exactly
// once at run end (last writer wins).
type State struct {
	// Assignments maps work request number to its assignment record.
	Assignments map[string]AssignmentRecord `json:"assignments"`
	// DeptCounters holds the highest counter handed out per department.
	// Monotonically non-decreasing.
	DeptCounters map[string]int `json:"dept_counters"`
	// Chains records overflow sheets per source sheet name, so later runs
	// find the siblings without reconfiguration.
	Chains map[string]SheetChain `json:"chains"`
}

// NewState returns an empty state with all maps initialized.
func NewState() *State {
	return &State{
		Assignments:  map[string]AssignmentRecord{},
		DeptCounters: map[string]int{},
		Chains:       map[string]SheetChain{},
	}
}

// ParseState decodes a persisted state blob. Two shapes are accepted: the
// full State document, and the legacy flat map of wr_num to job number that
// earlier revisions of the tool persisted. Missing top-level keys merge
// with empty defaults. A blob that parses as neither yields (nil, false);
// callers treat that as "no prior state".
func ParseState(data []byte) (*State, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	// The presence of any known top-level key discriminates the full shape
	// from the legacy flat map; an edited blob may carry a subset of keys.
	if hasStateKey(raw) {
		var full State
		if err := json.Unmarshal(data, &full); err != nil {
			return nil, false
		}
		ensureDefaults(&full)
		return &full, true
	}

	// Legacy shape: {"WR-1": "101-001", ...}
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err == nil {
		state := NewState()
		for wr, job := range flat {
			state.Assignments[wr] = AssignmentRecord{BaseJobNum: job}
		}
		return state, true
	}

	return nil, false
}

func hasStateKey(raw map[string]json.RawMessage) bool {
	for _, key := range []string{"assignments", "dept_counters", "chains"} {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

func ensureDefaults(s *State) {
	if s.Assignments == nil {
		s.Assignments = map[string]AssignmentRecord{}
	}
	if s.DeptCounters == nil {
		s.DeptCounters = map[string]int{}
	}
	if s.Chains == nil {
		s.Chains = map[string]SheetChain{}
	}
}

// Encode serializes the state for persistence.
func (s *State) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// RehydrateCounters re-derives each department counter from the persisted
// job numbers, keeping whichever is higher. This tolerates externally
// edited state and partial saves: the counter can only ratchet up, never
// below the highest suffix already handed out.
func (s *State) RehydrateCounters() {
	for _, rec := range s.Assignments {
		dept, n, ok := parseJobNumber(rec.BaseJobNum)
		if !ok {
			continue
		}
		if n > s.DeptCounters[dept] {
			s.DeptCounters[dept] = n
		}
	}
}

// parseJobNumber extracts the department and numeric suffix from a job
// number of the form "<dept>-<N>" or "<prefix>-<dept>-<N>". Numbers in any
// other shape (including bare digits) are skipped.
func parseJobNumber(jobNum string) (dept string, n int, ok bool) {
	parts := strings.Split(strings.TrimSpace(jobNum), "-")
	if len(parts) < 2 {
		return "", 0, false
	}
	last := parts[len(parts)-1]
	num, err := strconv.Atoi(last)
	if err != nil {
		return "", 0, false
	}
	return parts[len(parts)-2], num, true
}
