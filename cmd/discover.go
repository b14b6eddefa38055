package cmd

import (
	"context"
	"fmt"

	"jobsync/core/config"
	"jobsync/core/logger"
	"jobsync/core/sheets"
	"jobsync/feature/jobnum"

	"github.com/spf13/cobra"
)

// discoverCmd lists the sheets that qualify for processing.
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List sheets that carry the required columns",
	Long: `Scan all accessible sheets and report which ones qualify for job
number processing (i.e. carry the configured dept, work request and job
number columns). No data is modified.`,
	RunE: runDiscover,
}

func init() {
	RootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	client, err := sheets.NewClient(cfg.Sheets)
	if err != nil {
		return err
	}

	collector := jobnum.NewCollector(client, cfg.Jobnum, l)
	targets, err := collector.Discover(ctx)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Println("No qualifying sheets found.")
		return nil
	}
	fmt.Printf("Qualifying sheets (%d):\n", len(targets))
	for _, t := range targets {
		fmt.Printf("  - %s (ID: %d, rows: %d)\n", t.SheetName, t.SheetID, len(t.Rows))
	}
	return nil
}
