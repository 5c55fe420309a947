package scan

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/internal/coordinator"
	"github.com/scan-io-git/checkview/internal/render"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/internal/targets"
	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Checks          []string
	AllChecks       bool
	Format          string
	OutputPath      string
	Upload          string
	UseOrigin       bool
	FailOnScanError bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	ToolVersion      = "unknown"
	logger           hclog.Logger
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Search a repository for binaries and big files
  checkview scan --checks SearchBinaries,SearchBigFiles https://github.com/scan-io-git/scan-io

  # Run every check the service offers against several repositories
  checkview scan --all-checks https://github.com/org/app.git git@github.com:org/lib.git

  # Scan the repository the current directory was cloned from
  checkview scan --all-checks --use-origin .

  # Save a SARIF report to a folder and upload it to the configured S3 destination
  checkview scan --all-checks --format sarif --output /path/to/reports --upload https://github.com/org/app

  # Fail the pipeline when a repository could not be scanned
  checkview scan --checks CheckCommitMetaInformation --fail-on-scan-error https://github.com/org/app`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan {--checks/-c CHECKS | --all-checks} [--format/-f FORMAT] [--output/-o PATH] [--upload[=S3_URI]] [--use-origin] [--fail-on-scan-error] TARGET...",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Run checks against repositories on the scanning service",
	Long: `Run checks against one or more repositories on the scanning service and print the findings.

Targets are repository URLs or local paths. With --use-origin a local working copy is
replaced by the URL of its origin remote. Findings are grouped per check; repositories
whose scan failed are listed separately.`,
	RunE: runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if scanOptions.Format == "" {
		scanOptions.Format = AppConfig.Output.Format
	}
	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid scan arguments: %w", err), errors.ExitCodeUsage)
	}

	reportOptions, err := prepareReportOptions(&scanOptions)
	if err != nil {
		logger.Error("invalid upload destination", "error", err)
		return errors.NewCommandError(err, 0)
	}

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	scanTargets, err := prepareScanTargets(&scanOptions, args)
	if err != nil {
		logger.Error("failed to prepare scan targets", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to prepare scan targets: %w", err), 0)
	}

	client := scanclient.New(logger.Named("client"), AppConfig)
	checks, cat, err := cmdutil.ResolveChecks(ctx, logger, client, scanOptions.Checks, scanOptions.AllChecks)
	if err != nil {
		logger.Error("failed to resolve checks", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to resolve checks: %w", err), 0)
	}

	uploader, err := cmdutil.NewUploader(AppConfig, logger, reportOptions)
	if err != nil {
		logger.Error("failed to prepare uploader", "error", err)
		return errors.NewCommandError(err, 0)
	}

	c := coordinator.New(client,
		coordinator.WithLogger(logger.Named("coordinator")),
		coordinator.WithCatalog(cat),
	)
	defer c.Close()

	if err := c.Submit(targets.Specifiers(scanTargets), checks); err != nil {
		logger.Error("failed to submit scan", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to submit scan: %w", err), 0)
	}

	snap, err := c.Wait(ctx)
	if err != nil {
		logger.Error("scan request failed", "error", err)
		return errors.NewCommandError(fmt.Errorf("scan request failed: %w", err), 0)
	}

	for _, scanErr := range snap.View.Errors {
		logger.Warn("repository scan failed", "repository", scanErr.RepositoryIdentifier, "error", scanErr.ErrorMessage)
	}

	report := cmdutil.Report{
		Command: "scan",
		View:    snap.View,
		Render:  render.Options{Catalog: cat, ToolVersion: ToolVersion},
		Now:     time.Now(),
	}
	if err := cmdutil.WriteReport(ctx, logger, cmd.OutOrStdout(), report, reportOptions, uploader); err != nil {
		logger.Error("failed to write report", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to write report: %w", err), 0)
	}

	if scanOptions.FailOnScanError && len(snap.View.Errors) > 0 {
		return errors.NewCommandError(fmt.Errorf("%d repository scan(s) failed", len(snap.View.Errors)), errors.ExitCodeScanFindings)
	}

	logger.Info("scan command completed successfully", "repositories", len(snap.Results), "findings", len(snap.View.Rows), "errors", len(snap.View.Errors))
	return nil
}

// prepareScanTargets parses the positional targets and resolves local paths when asked to.
func prepareScanTargets(options *RunOptionsScan, args []string) ([]targets.Target, error) {
	parsed, err := targets.Parse(args)
	if err != nil {
		return nil, err
	}
	if !options.UseOrigin {
		return parsed, nil
	}
	resolved, err := targets.ResolveLocal(parsed)
	if err != nil {
		return nil, err
	}
	for _, t := range resolved {
		logger.Debug("scan target", "target", t.Raw, "name", t.Name(), "kind", t.Kind)
	}
	return resolved, nil
}

func prepareReportOptions(options *RunOptionsScan) (cmdutil.ReportOptions, error) {
	destination, err := cmdutil.ResolveUploadDestination(AppConfig, options.Upload)
	if err != nil {
		return cmdutil.ReportOptions{}, err
	}
	return cmdutil.ReportOptions{
		Format:     options.Format,
		OutputPath: options.OutputPath,
		Upload:     destination,
	}, nil
}

func init() {
	ScanCmd.Flags().StringSliceVarP(&scanOptions.Checks, "checks", "c", nil, "Comma-separated list of checks to run.")
	ScanCmd.Flags().BoolVar(&scanOptions.AllChecks, "all-checks", false, "Run every check known to the scanning service.")
	ScanCmd.Flags().StringVarP(&scanOptions.Format, "format", "f", "", "Report format: table, json, sarif or html (default from config).")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path to the output file or directory. The report goes to stdout when empty.")
	ScanCmd.Flags().StringVar(&scanOptions.Upload, "upload", "", "S3 URI to upload the report to. Without a value the configured destination is used.")
	ScanCmd.Flags().Lookup("upload").NoOptDefVal = cmdutil.UploadFromConfig
	ScanCmd.Flags().BoolVar(&scanOptions.UseOrigin, "use-origin", false, "Replace local paths with the origin remote URL of their git working copy.")
	ScanCmd.Flags().BoolVar(&scanOptions.FailOnScanError, "fail-on-scan-error", false, "Exit with code 3 when at least one repository scan failed.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
