package ack

import (
	"fmt"
	"strconv"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
)

// validateAckArgs validates the arguments provided to the ack command and parses the finding IDs.
func validateAckArgs(options *RunOptionsAck, args []string) ([]uint64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one finding ID must be specified")
	}

	ids := make([]uint64, 0, len(args))
	seen := make(map[uint64]struct{}, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid finding ID %q, expected a positive integer", arg)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if !options.Show {
		return ids, nil
	}
	if len(ids) > 1 {
		return nil, fmt.Errorf("the 'show' flag accepts a single finding ID")
	}
	if options.Since <= 0 {
		return nil, fmt.Errorf("the 'since' flag must be positive")
	}
	if err := cmdutil.ValidateFormat(options.Format); err != nil {
		return nil, err
	}
	return ids, nil
}
