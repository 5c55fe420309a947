package history

import (
	"fmt"
	"strings"
	"time"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/pkg/shared"
)

// validateHistoryArgs validates the history arguments and returns the resolved window.
func validateHistoryArgs(options *RunOptionsHistory, args []string, now time.Time) (time.Time, time.Time, error) {
	if len(args) > 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, " "))
	}

	checks := shared.SplitList(options.Checks)
	if options.AllChecks && len(checks) > 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("you cannot use the 'checks' and 'all-checks' flags at the same time")
	}
	if !options.AllChecks && len(checks) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("either the 'checks' or the 'all-checks' flag must be specified")
	}

	if err := cmdutil.ValidateFormat(options.Format); err != nil {
		return time.Time{}, time.Time{}, err
	}

	to := now
	if options.To != "" {
		t, err := cmdutil.ParseTime(options.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("'to': %w", err)
		}
		to = t
	}

	from := to.Add(-DefaultWindow)
	if options.From != "" {
		t, err := cmdutil.ParseTime(options.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("'from': %w", err)
		}
		from = t
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("'to' must not be before 'from'")
	}
	return from, to, nil
}
