package checks

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/checkview/internal/catalog"
	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// RunOptionsChecks holds the arguments for the checks subcommands.
type RunOptionsChecks struct {
	Remote   bool
	Enabled  bool
	Set      []string
	FromFile string
}

// Global variables for configuration and command arguments
var (
	AppConfig          *config.Config
	logger             hclog.Logger
	checksOptions      RunOptionsChecks
	exampleChecksUsage = `  # List the built-in checks
  checkview checks list

  # List the checks the scanning service offers
  checkview checks list --remote

  # Show the configuration of a check
  checkview checks config get CheckCommitMetaInformation

  # Disable a check
  checkview checks config set SearchBigFiles --enabled=false

  # Change single configuration values
  checkview checks config set SearchBigFiles --set maxSize=10485760 --set ignoreLfs=true

  # Replace configuration values from a YAML file
  checkview checks config set CheckCommitMetaInformation --from-file /path/to/commit-policy.yml`
)

// ChecksCmd groups the commands that inspect and configure checks.
var ChecksCmd = &cobra.Command{
	Use:                   "checks [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleChecksUsage,
	Short:                 "Inspect and configure the checks of the scanning service",
}

var listCmd = &cobra.Command{
	Use:                   "list [--remote]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "List the available checks",
	RunE:                  runListCommand,
}

var configCmd = &cobra.Command{
	Use:                   "config [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Read or change the service-side configuration of a check",
}

var configGetCmd = &cobra.Command{
	Use:                   "get CHECK_NAME",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Print the configuration of a check as YAML",
	RunE:                  runConfigGetCommand,
}

var configSetCmd = &cobra.Command{
	Use:                   "set CHECK_NAME [--enabled=BOOL] [--set KEY=VALUE]... [--from-file PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Change the configuration of a check",
	Long: `Change the configuration of a check.

The current configuration is read first; values from --from-file are merged into it,
then every --set pair. Values are parsed as YAML scalars, so numbers and booleans keep
their type.`,
	RunE: runConfigSetCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runListCommand(cmd *cobra.Command, args []string) error {
	if err := validateListArgs(args); err != nil {
		logger.Error("invalid list arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid list arguments: %w", err), errors.ExitCodeUsage)
	}

	cat := catalog.Default()
	if checksOptions.Remote {
		ctx, stop := cmdutil.SignalContext(cmd)
		defer stop()

		remote, err := scanclient.New(logger.Named("client"), AppConfig).Catalog(ctx)
		if err != nil {
			logger.Error("failed to list checks", "error", err)
			return errors.NewCommandError(fmt.Errorf("failed to list checks: %w", err), 0)
		}
		cat = remote
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tLABEL\tCATEGORY\tFIELDS")
	for _, def := range cat.List() {
		fields := "-"
		if len(def.Fields) > 0 {
			fields = strings.Join(def.Fields, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Identifier, def.DisplayLabel, def.Category, fields)
	}
	return tw.Flush()
}

func init() {
	listCmd.Flags().BoolVar(&checksOptions.Remote, "remote", false, "List the checks announced by the scanning service instead of the built-in ones.")

	configSetCmd.Flags().BoolVar(&checksOptions.Enabled, "enabled", true, "Enable or disable the check.")
	configSetCmd.Flags().StringArrayVar(&checksOptions.Set, "set", nil, "Configuration value as KEY=VALUE. Can be repeated.")
	configSetCmd.Flags().StringVar(&checksOptions.FromFile, "from-file", "", "YAML file with configuration values.")

	configCmd.AddCommand(configGetCmd, configSetCmd)
	ChecksCmd.AddCommand(listCmd, configCmd)
}
