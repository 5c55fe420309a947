package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/checkview/cmd/ack"
	"github.com/scan-io-git/checkview/cmd/auth"
	"github.com/scan-io-git/checkview/cmd/checks"
	"github.com/scan-io-git/checkview/cmd/history"
	"github.com/scan-io-git/checkview/cmd/scan"
	"github.com/scan-io-git/checkview/cmd/version"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
	"github.com/scan-io-git/checkview/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "checkview [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Checkview is a client for the repository checks scanning service.",
		Long: `Checkview runs repository checks on the scanning service and presents the results:
binaries, illegal unicode characters, commit metadata policy violations and big files.
Findings are grouped per check and can be rendered as a table, JSON, SARIF or HTML.
`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the config file (default is config.yml).")
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(history.HistoryCmd)
	rootCmd.AddCommand(ack.AckCmd)
	rootCmd.AddCommand(checks.ChecksCmd)
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig(cmd *cobra.Command, args []string) error {
	explicit := cfgFile != ""
	cfg, err := config.LoadConfig(cfgFile, explicit)
	if err != nil {
		return errors.NewCommandError(fmt.Errorf("initializing config file failed: %w", err), errors.ExitCodeUsage)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return errors.NewCommandError(err, errors.ExitCodeUsage)
	}
	AppConfig = cfg

	l := logger.NewLogger(AppConfig, "core")
	scan.Init(AppConfig, l.Named("scan"))
	history.Init(AppConfig, l.Named("history"))
	ack.Init(AppConfig, l.Named("ack"))
	checks.Init(AppConfig, l.Named("checks"))
	auth.Init(AppConfig, l.Named("auth"))
	version.Init(AppConfig)

	scan.ToolVersion = version.CoreVersion
	history.ToolVersion = version.CoreVersion
	return nil
}
