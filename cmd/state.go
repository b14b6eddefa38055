package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"jobsync/core/config"
	"jobsync/core/logger"
	"jobsync/core/storage"
	"jobsync/feature/archive"
	"jobsync/feature/jobnum"

	"github.com/spf13/cobra"
)

var yesResetState bool

// stateCmd is the parent command for state inspection operations.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or reset the persisted job number state",
}

// stateShowCmd prints the persisted state blob.
var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted state (assignments, counters, chains)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		runner, l, err := buildRunner()
		if err != nil {
			return err
		}
		defer l.Sync()

		state, err := runner.Store().Load(ctx)
		if err != nil {
			return err
		}
		payload, err := state.Encode()
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	},
}

// stateResetCmd replaces the persisted state with an empty one.
var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the persisted state to empty",
	Long: `Replace the persisted state with an empty one. The next sync run
will re-derive department counters from the job numbers present on the
sheets, but duplicate metadata and overflow chain records are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		runner, l, err := buildRunner()
		if err != nil {
			return err
		}
		defer l.Sync()

		if !confirmResetState() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		return runner.Store().Save(ctx, jobnum.NewState())
	},
}

// stateSnapshotsCmd lists the archived state snapshots.
var stateSnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List archived state snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Archive.Enabled {
			return fmt.Errorf("state archiving is not enabled (set ARCHIVE_ENABLED=true)")
		}
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		storageClient, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to archive storage: %w", err)
		}

		keys, err := archive.New(storageClient, cfg.Storage.Bucket, cfg.Archive, l).List(ctx)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("No snapshots found.")
			return nil
		}
		fmt.Printf("Snapshots (%d):\n", len(keys))
		for _, key := range keys {
			fmt.Printf("  - %s\n", key)
		}
		return nil
	},
}

func init() {
	stateResetCmd.Flags().BoolVar(&yesResetState, "yes", false, "Auto-confirm reset (non-interactive)")
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateResetCmd)
	stateCmd.AddCommand(stateSnapshotsCmd)
	RootCmd.AddCommand(stateCmd)
}

func confirmResetState() bool {
	if yesResetState {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to reset the persisted state: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
