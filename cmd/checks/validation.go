package checks

import (
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/files"
)

// validateListArgs validates the arguments provided to the list command.
func validateListArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected positional arguments: %s", strings.Join(args, " "))
	}
	return nil
}

// validateConfigGetArgs validates the arguments provided to the config get command.
func validateConfigGetArgs(args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("exactly one check name must be specified")
	}
	return nil
}

// validateConfigSetArgs validates the config set arguments and returns the
// values to merge into the check configuration.
func validateConfigSetArgs(options *RunOptionsChecks, args []string) (map[string]interface{}, error) {
	if err := validateConfigGetArgs(args); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if options.FromFile != "" {
		fromFile, err := loadConfigFile(options.FromFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			updates[k] = v
		}
	}

	for _, pair := range options.Set {
		key, value, err := parseSetPair(pair)
		if err != nil {
			return nil, err
		}
		updates[key] = value
	}
	return updates, nil
}

func loadConfigFile(path string) (map[string]interface{}, error) {
	expanded, err := files.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand path %q: %w", path, err)
	}
	var values map[string]interface{}
	if err := config.LoadYAML(expanded, &values); err != nil {
		return nil, fmt.Errorf("failed to read 'from-file': %w", err)
	}
	return normalizeMap(values), nil
}

// parseSetPair splits KEY=VALUE and decodes VALUE as a YAML scalar.
func parseSetPair(pair string) (string, interface{}, error) {
	key, raw, found := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", nil, fmt.Errorf("invalid 'set' value %q, expected KEY=VALUE", pair)
	}
	if strings.TrimSpace(raw) == "" {
		return key, "", nil
	}

	var value interface{}
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("invalid 'set' value for %q: %w", key, err)
	}
	return key, normalizeValue(value), nil
}
