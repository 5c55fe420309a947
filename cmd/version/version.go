package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = runtime.Version()
	BuildTime     = "unknown"
	outputJSON    bool
)

// VersionInfo is what the version command prints.
type VersionInfo struct {
	Versions   shared.Versions `json:"versions"`
	ServiceURL string          `json:"service_url"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version of checkview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersionInfo(cmd.OutOrStdout(), currentVersion(), outputJSON)
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the version information as JSON.")
	return cmd
}

func currentVersion() VersionInfo {
	info := VersionInfo{
		Versions: shared.Versions{
			Version:       CoreVersion,
			GolangVersion: GolangVersion,
			BuildTime:     BuildTime,
		},
	}
	if AppConfig != nil {
		info.ServiceURL = AppConfig.ScanService.URL
	}
	return info
}

// printVersionInfo prints the version information.
func printVersionInfo(w io.Writer, info VersionInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintf(w, "Core Version: v%s\n", info.Versions.Version)
	fmt.Fprintf(w, "Go Version: %s\n", info.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", info.Versions.BuildTime)
	if info.ServiceURL != "" {
		fmt.Fprintf(w, "Scanning Service: %s\n", info.ServiceURL)
	}
	return nil
}
