package auth

import (
	"fmt"
	"strings"
)

func validateSSHKeyArgs(options *RunOptionsAuth, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, " "))
	}
	if options.KeyFile == "" {
		return fmt.Errorf("the 'key-file' flag must be specified")
	}
	return nil
}

func validateBasicArgs(options *RunOptionsAuth, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, " "))
	}
	var missing []string
	if options.Username == "" {
		missing = append(missing, "username")
	}
	if options.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required values: %s", strings.Join(missing, ", "))
	}
	return nil
}
