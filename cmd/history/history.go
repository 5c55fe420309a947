package history

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/internal/render"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// DefaultWindow is how far back history looks when --from is not set.
const DefaultWindow = 24 * time.Hour

// RunOptionsHistory holds the arguments for the history command.
type RunOptionsHistory struct {
	From       string
	To         string
	Checks     []string
	AllChecks  bool
	Format     string
	OutputPath string
	Upload     string
}

// Global variables for configuration and command arguments
var (
	AppConfig           *config.Config
	ToolVersion         = "unknown"
	logger              hclog.Logger
	historyOptions      RunOptionsHistory
	now                 = time.Now
	exampleHistoryUsage = `  # Show findings of every check stored during the last 24 hours
  checkview history --all-checks

  # Show commit metadata findings for a given day as JSON
  checkview history --checks CheckCommitMetaInformation --from 2024-03-05T00:00:00Z --to 2024-03-06T00:00:00Z --format json

  # Use millisecond timestamps and save an HTML report
  checkview history --all-checks --from 1709596800000 --format html --output /path/to/reports`
)

// HistoryCmd represents the history command.
var HistoryCmd = &cobra.Command{
	Use:                   "history {--checks/-c CHECKS | --all-checks} [--from TIME] [--to TIME] [--format/-f FORMAT] [--output/-o PATH] [--upload[=S3_URI]]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleHistoryUsage,
	Short:                 "Show scan results stored by the scanning service",
	Long: `Show scan results stored by the scanning service within a time window.

Times are RFC3339 or milliseconds since the Unix epoch. The window defaults to the
last 24 hours.`,
	RunE: runHistoryCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runHistoryCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if historyOptions.Format == "" {
		historyOptions.Format = AppConfig.Output.Format
	}
	from, to, err := validateHistoryArgs(&historyOptions, args, now())
	if err != nil {
		logger.Error("invalid history arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid history arguments: %w", err), errors.ExitCodeUsage)
	}

	destination, err := cmdutil.ResolveUploadDestination(AppConfig, historyOptions.Upload)
	if err != nil {
		logger.Error("invalid upload destination", "error", err)
		return errors.NewCommandError(err, 0)
	}
	reportOptions := cmdutil.ReportOptions{
		Format:     historyOptions.Format,
		OutputPath: historyOptions.OutputPath,
		Upload:     destination,
	}

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	client := scanclient.New(logger.Named("client"), AppConfig)
	checks, cat, err := cmdutil.ResolveChecks(ctx, logger, client, historyOptions.Checks, historyOptions.AllChecks)
	if err != nil {
		logger.Error("failed to resolve checks", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to resolve checks: %w", err), 0)
	}

	uploader, err := cmdutil.NewUploader(AppConfig, logger, reportOptions)
	if err != nil {
		logger.Error("failed to prepare uploader", "error", err)
		return errors.NewCommandError(err, 0)
	}

	logger.Debug("fetching history", "from", from, "to", to, "checks", checks)
	res, err := client.FetchChecks(ctx, from, to, checks)
	if err != nil {
		logger.Error("failed to fetch history", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to fetch history: %w", err), 0)
	}

	view := results.BuildView(res)
	report := cmdutil.Report{
		Command: "history",
		View:    view,
		Render:  render.Options{Catalog: cat, ToolVersion: ToolVersion},
		Now:     now(),
	}
	if err := cmdutil.WriteReport(ctx, logger, cmd.OutOrStdout(), report, reportOptions, uploader); err != nil {
		logger.Error("failed to write report", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to write report: %w", err), 0)
	}

	logger.Info("history command completed successfully", "repositories", len(res), "findings", len(view.Rows), "errors", len(view.Errors))
	return nil
}

func init() {
	HistoryCmd.Flags().StringVar(&historyOptions.From, "from", "", "Start of the window, RFC3339 or milliseconds (default 24h before --to).")
	HistoryCmd.Flags().StringVar(&historyOptions.To, "to", "", "End of the window, RFC3339 or milliseconds (default now).")
	HistoryCmd.Flags().StringSliceVarP(&historyOptions.Checks, "checks", "c", nil, "Comma-separated list of checks to show.")
	HistoryCmd.Flags().BoolVar(&historyOptions.AllChecks, "all-checks", false, "Show every check known to the scanning service.")
	HistoryCmd.Flags().StringVarP(&historyOptions.Format, "format", "f", "", "Report format: table, json, sarif or html (default from config).")
	HistoryCmd.Flags().StringVarP(&historyOptions.OutputPath, "output", "o", "", "Path to the output file or directory. The report goes to stdout when empty.")
	HistoryCmd.Flags().StringVar(&historyOptions.Upload, "upload", "", "S3 URI to upload the report to. Without a value the configured destination is used.")
	HistoryCmd.Flags().Lookup("upload").NoOptDefVal = cmdutil.UploadFromConfig
	HistoryCmd.Flags().BoolP("help", "h", false, "Show help for the history command.")
}
