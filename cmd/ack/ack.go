package ack

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/checkview/internal/acknowledge"
	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/internal/render"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// RunOptionsAck holds the arguments for the ack command.
type RunOptionsAck struct {
	Unset  bool
	Show   bool
	Since  time.Duration
	Checks []string
	Format string
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	logger          hclog.Logger
	ackOptions      RunOptionsAck
	now             = time.Now
	exampleAckUsage = `  # Acknowledge a finding
  checkview ack 1042

  # Acknowledge several findings at once
  checkview ack 1042 1043 1077

  # Withdraw an acknowledgment
  checkview ack --unset 1042

  # Acknowledge a finding and print the refreshed findings of the last 48 hours
  checkview ack 1042 --show --since 48h --checks SearchBinaries`
)

// AckCmd represents the ack command.
var AckCmd = &cobra.Command{
	Use:                   "ack [--unset] [--show [--since DURATION] [--checks/-c CHECKS] [--format/-f FORMAT]] FINDING_ID...",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAckUsage,
	Short:                 "Acknowledge findings on the scanning service",
	Long: `Mark findings as acknowledged, or withdraw the acknowledgment with --unset.

Finding IDs are shown in the ID column of table reports and in the findingId field
of JSON reports. With --show the findings are fetched again after the update.`,
	RunE: runAckCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runAckCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if ackOptions.Format == "" {
		ackOptions.Format = AppConfig.Output.Format
	}
	ids, err := validateAckArgs(&ackOptions, args)
	if err != nil {
		logger.Error("invalid ack arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid ack arguments: %w", err), errors.ExitCodeUsage)
	}

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	client := scanclient.New(logger.Named("client"), AppConfig)
	updater := acknowledge.New(client, logger.Named("acknowledge"))
	acknowledged := !ackOptions.Unset

	if !ackOptions.Show {
		if err := updater.SetAll(ctx, ids, acknowledged); err != nil {
			return errors.NewCommandError(err, 0)
		}
		logger.Info("ack command completed successfully", "findings", len(ids), "acknowledged", acknowledged)
		return nil
	}

	checks, cat, err := cmdutil.ResolveChecks(ctx, logger, client, ackOptions.Checks, len(ackOptions.Checks) == 0)
	if err != nil {
		logger.Error("failed to resolve checks", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to resolve checks: %w", err), 0)
	}

	to := now()
	from := to.Add(-ackOptions.Since)
	reload := func(ctx context.Context) ([]results.RepositoryScanResult, error) {
		return client.FetchChecks(ctx, from, to, checks)
	}

	view, err := updater.SetAndReload(ctx, ids[0], acknowledged, reload)
	if err != nil {
		return errors.NewCommandError(err, 0)
	}

	report := cmdutil.Report{
		Command: "ack",
		View:    view,
		Render:  render.Options{Catalog: cat},
		Now:     to,
	}
	if err := cmdutil.WriteReport(ctx, logger, cmd.OutOrStdout(), report, cmdutil.ReportOptions{Format: ackOptions.Format}, nil); err != nil {
		logger.Error("failed to write report", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to write report: %w", err), 0)
	}

	logger.Info("ack command completed successfully", "finding_id", ids[0], "acknowledged", acknowledged)
	return nil
}

func init() {
	AckCmd.Flags().BoolVar(&ackOptions.Unset, "unset", false, "Withdraw the acknowledgment instead of setting it.")
	AckCmd.Flags().BoolVar(&ackOptions.Show, "show", false, "Print the refreshed findings after the update. Accepts a single finding ID.")
	AckCmd.Flags().DurationVar(&ackOptions.Since, "since", 24*time.Hour, "How far back --show looks for findings.")
	AckCmd.Flags().StringSliceVarP(&ackOptions.Checks, "checks", "c", nil, "Checks shown by --show (default every check).")
	AckCmd.Flags().StringVarP(&ackOptions.Format, "format", "f", "", "Report format used by --show (default from config).")
	AckCmd.Flags().BoolP("help", "h", false, "Show help for the ack command.")
}
