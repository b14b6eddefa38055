package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"jobsync/core/config"
	"jobsync/core/logger"
	"jobsync/core/sheets"
	"jobsync/core/storage"
	"jobsync/feature/archive"
	"jobsync/feature/jobnum"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	dryRunSync bool
	yesConfirm bool
)

// syncCmd performs one job number reconciliation pass.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Assign and reconcile job numbers across discovered sheets",
	Long: `Run one reconciliation pass: discover sheets carrying the required
columns, assign job numbers for new work requests, and update every row
whose job number cell differs from the decided value.

Examples:
  # Report what would change without writing
  jobsync sync --dry-run

  # Full pass with interactive confirmation
  jobsync sync

  # Full pass, non-interactive (scheduled runs)
  jobsync sync --yes`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Build and report the plan without writing")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	runner, l, err := buildRunner()
	if err != nil {
		return err
	}
	defer l.Sync()

	l.Info("Starting job number synchronization")

	// Preview pass first, so the confirmation prompt can show real numbers.
	preview, err := runner.Run(ctx, jobnum.RunOptions{DryRun: true})
	if err != nil {
		return err
	}
	printReport(l, preview)

	if dryRunSync {
		l.Info("Dry-run mode: no changes were made.")
		return nil
	}
	if preview.Summary.RowsChanged == 0 {
		l.Info("All job numbers are consistent. Nothing to write.")
		return nil
	}

	if !confirmWrite(preview.Summary.RowsChanged) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	report, err := runner.Run(ctx, jobnum.RunOptions{})
	if err != nil {
		return err
	}
	printReport(l, report)
	l.Info("Synchronization complete", zap.Int("applied", report.Applied))
	return nil
}

// buildRunner loads config and wires the client, archiver and runner.
// Shared by sync, discover, state and serve.
func buildRunner() (*jobnum.Runner, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := sheets.NewClient(cfg.Sheets)
	if err != nil {
		return nil, nil, err
	}

	var snapshots jobnum.SnapshotWriter
	if cfg.Archive.Enabled {
		storageClient, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to archive storage: %w", err)
		}
		snapshots = archive.New(storageClient, cfg.Storage.Bucket, cfg.Archive, l)
	}

	return jobnum.NewRunner(client, cfg.Jobnum, l, snapshots), l, nil
}

func printReport(l *zap.Logger, report *jobnum.Report) {
	s := report.Summary
	l.Info("Reconciliation report",
		zap.String("run_id", report.RunID),
		zap.Int("sheets_processed", s.SheetsProcessed),
		zap.Int("rows_seen", s.RowsSeen),
		zap.Int("rows_changed", s.RowsChanged),
		zap.Int("new_assignments", s.NewAssignments),
		zap.Int("reused", s.Reused),
		zap.Int("excluded_replaced", s.ExcludedReplaced),
	)
}

// confirmWrite prompts the user for confirmation or uses the --yes flag.
func confirmWrite(rowsChanged int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\nType 'yes' to update %d rows: ", rowsChanged)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
