package jobnum

import (
	"context"
	"fmt"
	"time"

	"jobsync/core/sheets"

	"github.com/avast/retry-go"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// PlannedRow is one row whose job number cell must change.
type PlannedRow struct {
	Ref       RowRef
	JobNumber string
}

// Summary aggregates what a plan would do.
type Summary struct {
	SheetsProcessed  int `json:"sheets_processed"`
	RowsSeen         int `json:"rows_seen"`
	RowsChanged      int `json:"rows_changed"`
	NewAssignments   int `json:"new_assignments"`
	Reused           int `json:"reused"`
	ExcludedReplaced int `json:"excluded_replaced"`
}

// Plan is the set of batched updates one run would apply, grouped by sheet.
type Plan struct {
	BySheet map[int64][]PlannedRow
	Names   map[int64]string
	Summary Summary
}

// Empty reports whether the plan contains no updates. A second run over
// unchanged data always builds an empty plan.
func (p *Plan) Empty() bool {
	return len(p.BySheet) == 0
}

// BuildPlan diffs the decided job numbers against current cell values and
// keeps only rows that differ. A row currently holding an excluded
// placeholder (e.g. "No Match - 004") is treated as unassigned and always
// overwritten.
func BuildPlan(rows []RowRef, alloc Allocation, excluded func(string) bool) *Plan {
	plan := &Plan{
		BySheet: map[int64][]PlannedRow{},
		Names:   map[int64]string{},
	}
	plan.Summary.RowsSeen = len(rows)
	plan.Summary.NewAssignments = alloc.NewAssignments
	plan.Summary.Reused = alloc.Reused

	seenSheets := map[int64]struct{}{}
	for _, row := range rows {
		seenSheets[row.SheetID] = struct{}{}
		decided, ok := alloc.Decided[row.WRNum]
		if !ok {
			continue
		}

		placeholder := row.JobNum != "" && excluded(row.JobNum)
		if row.JobNum == decided && !placeholder {
			continue
		}
		if placeholder {
			plan.Summary.ExcludedReplaced++
		}

		plan.BySheet[row.SheetID] = append(plan.BySheet[row.SheetID], PlannedRow{
			Ref:       row,
			JobNumber: decided,
		})
		plan.Names[row.SheetID] = row.SheetName
		plan.Summary.RowsChanged++
	}
	plan.Summary.SheetsProcessed = len(seenSheets)
	return plan
}

// Writer applies plans: one batched update per sheet, exponential-backoff
// retries for transient failures, and overflow-chain fallback when a sheet
// reports it is at capacity.
type Writer struct {
	client sheets.Client
	cfg    Config
	log    *zap.Logger
}

// NewWriter creates a writer over the given client.
func NewWriter(client sheets.Client, cfg Config, log *zap.Logger) *Writer {
	return &Writer{client: client, cfg: cfg, log: log}
}

// Apply executes the plan. A sheet that keeps failing after retries is
// skipped and reported; the remaining sheets still get their updates
// (best-effort partial application). state is mutated when capacity
// fallback creates or reuses overflow siblings.
func (w *Writer) Apply(ctx context.Context, plan *Plan, state *State) (applied int, err error) {
	var failures *multierror.Error

	for sheetID, rows := range plan.BySheet {
		name := plan.Names[sheetID]
		updates := make([]sheets.RowUpdate, 0, len(rows))
		for _, row := range rows {
			updates = append(updates, sheets.RowUpdate{
				ID: row.Ref.RowID,
				Cells: []sheets.CellValue{
					{ColumnID: row.Ref.JobColumnID, Value: row.JobNumber},
				},
			})
		}

		w.log.Info("updating rows",
			zap.String("sheet", name), zap.Int64("sheet_id", sheetID),
			zap.Int("rows", len(updates)))

		writeErr := w.withRetry(ctx, func() error {
			return w.client.UpdateRows(ctx, sheetID, updates)
		})

		if writeErr != nil && sheets.IsCapacity(writeErr) {
			w.log.Warn("sheet at capacity, spilling to overflow chain",
				zap.String("sheet", name), zap.Int64("sheet_id", sheetID))
			writeErr = w.spill(ctx, sheetID, name, rows, state)
		}

		if writeErr != nil {
			w.log.Error("sheet update failed, skipping sheet",
				zap.String("sheet", name), zap.Int64("sheet_id", sheetID),
				zap.Error(writeErr))
			failures = multierror.Append(failures,
				fmt.Errorf("sheet %q (ID: %d): %w", name, sheetID, writeErr))
			continue
		}
		applied += len(rows)
	}

	return applied, failures.ErrorOrNil()
}

// spill places the rows of a full sheet into its overflow chain: first any
// existing sibling with spare capacity, else a fresh sibling copied from
// the source schema. New siblings are recorded in state so later runs find
// them without reconfiguration.
func (w *Writer) spill(ctx context.Context, sourceID int64, sourceName string, rows []PlannedRow, state *State) error {
	chain, ok := state.Chains[sourceName]
	if !ok {
		chain = SheetChain{SourceSheetID: sourceID}
	}

	for _, siblingID := range chain.OverflowSheetIDs {
		err := w.appendTo(ctx, siblingID, rows)
		if err == nil {
			state.Chains[sourceName] = chain
			return nil
		}
		if sheets.IsCapacity(err) {
			continue
		}
		return err
	}

	newName := fmt.Sprintf("%s (overflow %d)", sourceName, len(chain.OverflowSheetIDs)+1)
	newID, err := w.client.CopySheet(ctx, sourceID, newName)
	if err != nil {
		return fmt.Errorf("create overflow sheet: %w", err)
	}
	w.log.Info("created overflow sheet",
		zap.String("sheet", newName), zap.Int64("sheet_id", newID),
		zap.String("source", sourceName))

	if err := w.appendTo(ctx, newID, rows); err != nil {
		return fmt.Errorf("write to overflow sheet %d: %w", newID, err)
	}

	chain.OverflowSheetIDs = append(chain.OverflowSheetIDs, newID)
	state.Chains[sourceName] = chain
	return nil
}

// appendTo adds the planned rows to a sibling sheet. Column IDs differ
// between siblings even for identical column names, so the sibling schema
// is resolved by name before building cells.
func (w *Writer) appendTo(ctx context.Context, sheetID int64, rows []PlannedRow) error {
	sheet, err := w.client.GetSheet(ctx, sheetID)
	if err != nil {
		return err
	}
	columns, err := sheets.ResolveColumns(sheet, w.cfg.RequiredColumns())
	if err != nil {
		return err
	}

	newRows := make([]sheets.NewRow, 0, len(rows))
	for _, row := range rows {
		newRows = append(newRows, sheets.NewRow{
			ToBottom: true,
			Cells: []sheets.CellValue{
				{ColumnID: columns[w.cfg.DeptColumn], Value: row.Ref.Dept},
				{ColumnID: columns[w.cfg.WRNumColumn], Value: row.Ref.WRNum},
				{ColumnID: columns[w.cfg.JobNumColumn], Value: row.JobNumber},
			},
		})
	}

	return w.withRetry(ctx, func() error {
		return w.client.AddRows(ctx, sheetID, newRows)
	})
}

func (w *Writer) withRetry(ctx context.Context, op func() error) error {
	attempts := w.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 4
	}
	delay := time.Duration(w.cfg.RetryDelayMS) * time.Millisecond
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	return retry.Do(
		op,
		retry.Attempts(uint(attempts)),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			// Capacity and schema errors have their own handling paths.
			return sheets.IsTransient(err)
		}),
	)
}
