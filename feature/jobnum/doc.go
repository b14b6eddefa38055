// Package jobnum implements job number reconciliation across spreadsheet
// sheets hosted by the collaboration service.
//
// # Pipeline
//
// One pass runs five stages in order:
//
//  1. Store.Load reads the persisted state blob from a sentinel row of the
//     state sheet (empty state on first run).
//  2. Collector.Discover finds every sheet carrying the required columns;
//     Collector.CollectRows normalizes their rows into (dept, wr_num,
//     job_num) tuples, dropping placeholder values.
//  3. Allocate decides one job number per unique work request number:
//     known numbers are reused, new ones advance the per-department
//     counter. Counters are rehydrated from persisted numbers first, so
//     they can never run backwards.
//  4. BuildPlan keeps only rows whose current cell differs from the
//     decision; Writer.Apply sends one batched update per sheet, retrying
//     transient failures and spilling into overflow siblings when a sheet
//     is at capacity.
//  5. Store.Save persists the mutated state exactly once.
//
// # Stability
//
// A job number, once assigned to a work request, is never reassigned.
// The optional duplicate-suffix policy (Config.DuplicateSuffix) is the one
// documented exception: re-sighting a previously persisted work request
// then yields "<base>-<occurrence>".
//
// # Concurrency
//
// All state mutation happens in-process before any write is issued. Runs
// are expected to be externally serialized; concurrent runs race on the
// final save (last writer wins).
package jobnum
