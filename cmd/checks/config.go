package checks

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// checkConfigDocument is the YAML shape printed by config get.
type checkConfigDocument struct {
	Name    string                 `yaml:"name"`
	Enabled bool                   `yaml:"enabled"`
	Config  map[string]interface{} `yaml:"config"`
}

func runConfigGetCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}
	if err := validateConfigGetArgs(args); err != nil {
		logger.Error("invalid config get arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid config get arguments: %w", err), errors.ExitCodeUsage)
	}

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	cfg, err := scanclient.New(logger.Named("client"), AppConfig).GetCheckConfig(ctx, args[0])
	if err != nil {
		logger.Error("failed to get check config", "check", args[0], "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to get check config: %w", err), 0)
	}

	doc := checkConfigDocument{Name: cfg.Name, Enabled: cfg.Enabled, Config: normalizeMap(cfg.Config)}
	if doc.Config == nil {
		doc.Config = map[string]interface{}{}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.NewCommandError(fmt.Errorf("failed to encode check config: %w", err), 0)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runConfigSetCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}
	updates, err := validateConfigSetArgs(&checksOptions, args)
	if err != nil {
		logger.Error("invalid config set arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid config set arguments: %w", err), errors.ExitCodeUsage)
	}
	name := args[0]

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	client := scanclient.New(logger.Named("client"), AppConfig)
	current, err := client.GetCheckConfig(ctx, name)
	if err != nil {
		logger.Error("failed to get check config", "check", name, "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to get check config: %w", err), 0)
	}

	next := scanclient.CheckConfig{
		Name:    name,
		Enabled: current.Enabled,
		Config:  mergeConfig(current.Config, updates),
	}
	if cmd.Flags().Changed("enabled") {
		next.Enabled = checksOptions.Enabled
	}

	if err := client.PutCheckConfig(ctx, next); err != nil {
		logger.Error("failed to update check config", "check", name, "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to update check config: %w", err), 0)
	}

	logger.Info("check config updated", "check", name, "enabled", next.Enabled, "keys", len(updates))
	return nil
}

// mergeConfig returns a copy of base with updates applied on top.
func mergeConfig(base, updates map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(updates))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}

// normalizeMap converts decoded YAML or JSON into values both encoders accept:
// maps keyed by strings and whole floats as integers.
func normalizeMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case map[string]interface{}:
		return normalizeMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	default:
		return v
	}
}
