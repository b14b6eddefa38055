package jobnum

import (
	"context"
	"fmt"

	"jobsync/core/logger"
	"jobsync/core/sheets"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotWriter archives a serialized state blob after a successful save.
// Implementations must treat failures as non-fatal to the run.
type SnapshotWriter interface {
	Snapshot(ctx context.Context, runID string, data []byte) (location string, err error)
}

// RunOptions controls a single reconciliation pass.
type RunOptions struct {
	// DryRun builds and reports the plan without writing anything.
	DryRun bool
}

// Report is the outcome of one pass.
type Report struct {
	RunID   string  `json:"run_id"`
	Summary Summary `json:"summary"`
	Applied int     `json:"applied"`
	DryRun  bool    `json:"dry_run"`
}

// Runner wires one full pass: load state, discover sheets, collect rows,
// allocate numbers, diff, write, save state.
type Runner struct {
	client   sheets.Client
	cfg      Config
	log      *zap.Logger
	store    *Store
	archiver SnapshotWriter
}

// NewRunner creates a runner. archiver may be nil.
func NewRunner(client sheets.Client, cfg Config, log *zap.Logger, archiver SnapshotWriter) *Runner {
	return &Runner{
		client:   client,
		cfg:      cfg,
		log:      log,
		store:    NewStore(client, cfg, log),
		archiver: archiver,
	}
}

// Run performs one reconciliation pass. State is loaded once at the start
// and saved exactly once at the end; rows already written stay written even
// when a later sheet fails (best-effort partial application). The returned
// error is non-nil when config is invalid or any sheet ultimately failed.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	runID := uuid.NewString()
	log := logger.WithRunID(r.log, runID)
	report := &Report{RunID: runID, DryRun: opts.DryRun}

	state, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	collector := NewCollector(r.client, r.cfg, log)
	targets, err := collector.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sheets: %w", err)
	}
	if len(targets) == 0 {
		log.Warn("no qualifying sheets found, nothing to process")
		return report, nil
	}

	rows := collector.CollectRows(targets)

	formatter, ok := FormatterFromConfig(r.cfg.Format)
	if !ok {
		formatter = DetectFormat(rows, collector.Excluded, log)
	}

	alloc := Allocate(state, rows, formatter, r.cfg.DuplicateSuffix, log)
	plan := BuildPlan(rows, alloc, collector.Excluded)
	report.Summary = plan.Summary

	if plan.Empty() {
		log.Info("all job numbers are consistent, nothing to write")
	}

	if opts.DryRun {
		log.Info("dry-run: no changes were made",
			zap.Int("rows_changed", plan.Summary.RowsChanged))
		return report, nil
	}

	writer := NewWriter(r.client, r.cfg, log)
	applied, applyErr := writer.Apply(ctx, plan, state)
	report.Applied = applied

	// The state map is authoritative for every number decided this run,
	// including rows on sheets that failed to update; persisting it keeps
	// those decisions stable for the retry on the next scheduled pass.
	if err := r.store.Save(ctx, state); err != nil {
		return report, fmt.Errorf("save state: %w", err)
	}
	r.archive(ctx, runID, state, log)

	if applyErr != nil {
		return report, applyErr
	}
	log.Info("process complete",
		zap.Int("applied", applied),
		zap.Int("new_assignments", plan.Summary.NewAssignments))
	return report, nil
}

func (r *Runner) archive(ctx context.Context, runID string, state *State, log *zap.Logger) {
	if r.archiver == nil {
		return
	}
	payload, err := state.Encode()
	if err != nil {
		log.Warn("state archive skipped", zap.Error(err))
		return
	}
	location, err := r.archiver.Snapshot(ctx, runID, payload)
	if err != nil {
		log.Warn("state archive failed", zap.Error(err))
		return
	}
	log.Info("archived state snapshot", zap.String("location", location))
}

// Store exposes the underlying state store, for the state inspection CLI.
func (r *Runner) Store() *Store {
	return r.store
}
