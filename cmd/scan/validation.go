package scan

import (
	"fmt"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/pkg/shared"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one target must be specified")
	}

	checks := shared.SplitList(options.Checks)
	if options.AllChecks && len(checks) > 0 {
		return fmt.Errorf("you cannot use the 'checks' and 'all-checks' flags at the same time")
	}
	if !options.AllChecks && len(checks) == 0 {
		return fmt.Errorf("either the 'checks' or the 'all-checks' flag must be specified")
	}

	if err := cmdutil.ValidateFormat(options.Format); err != nil {
		return err
	}
	return nil
}
