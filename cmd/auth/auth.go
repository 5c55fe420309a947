package auth

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	cmdutil "github.com/scan-io-git/checkview/internal/cmd"
	"github.com/scan-io-git/checkview/internal/credentials"
	"github.com/scan-io-git/checkview/internal/scanclient"
	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

const (
	envSSHKeyPassphrase  = "CHECKVIEW_SSH_KEY_PASSPHRASE"
	envBasicAuthPassword = "CHECKVIEW_BASIC_AUTH_PASSWORD"
)

// RunOptionsAuth holds the arguments for the auth subcommands.
type RunOptionsAuth struct {
	KeyFile    string
	Passphrase string
	Username   string
	Password   string
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	logger           hclog.Logger
	authOptions      RunOptionsAuth
	exampleAuthUsage = `  # Upload the SSH key the service clones private repositories with
  checkview auth ssh-key --key-file ~/.ssh/id_ed25519

  # Upload an encrypted key, taking the passphrase from the environment
  CHECKVIEW_SSH_KEY_PASSPHRASE=secret checkview auth ssh-key --key-file ~/.ssh/id_rsa

  # Set the credentials used for cloning over HTTPS
  CHECKVIEW_BASIC_AUTH_PASSWORD=token checkview auth basic --username ci-bot`
)

// AuthCmd groups the commands that manage clone credentials on the service.
var AuthCmd = &cobra.Command{
	Use:                   "auth [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAuthUsage,
	Short:                 "Manage the credentials the scanning service clones repositories with",
}

var sshKeyCmd = &cobra.Command{
	Use:                   "ssh-key --key-file PATH [--passphrase PASSPHRASE]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Upload a private SSH key",
	Long: fmt.Sprintf(`Upload a private SSH key to the scanning service.

The key is parsed locally first, so a corrupted key or a wrong passphrase is reported
before anything is sent. The passphrase falls back to %s.`, envSSHKeyPassphrase),
	RunE: runSSHKeyCommand,
}

var basicCmd = &cobra.Command{
	Use:                   "basic --username USERNAME [--password PASSWORD]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Set HTTP basic auth credentials",
	Long: fmt.Sprintf(`Set the username and password the scanning service uses for HTTPS clones.

The password falls back to %s.`, envBasicAuthPassword),
	RunE: runBasicCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runSSHKeyCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	authOptions.Passphrase = config.SetThen(authOptions.Passphrase, os.Getenv(envSSHKeyPassphrase))
	if err := validateSSHKeyArgs(&authOptions, args); err != nil {
		logger.Error("invalid ssh-key arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid ssh-key arguments: %w", err), errors.ExitCodeUsage)
	}

	key, err := credentials.LoadSSHKey(authOptions.KeyFile, authOptions.Passphrase)
	if err != nil {
		logger.Error("failed to load ssh key", "path", authOptions.KeyFile, "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to load ssh key: %w", err), 0)
	}
	logger.Debug("ssh key loaded", "type", key.Type, "fingerprint", key.Fingerprint, "encrypted", key.Encrypted)

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	if err := scanclient.New(logger.Named("client"), AppConfig).PutSSHKey(ctx, key.PEM, authOptions.Passphrase); err != nil {
		logger.Error("failed to upload ssh key", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to upload ssh key: %w", err), 0)
	}

	logger.Info("ssh key uploaded", "type", key.Type, "fingerprint", key.Fingerprint)
	return nil
}

func runBasicCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	authOptions.Password = config.SetThen(authOptions.Password, os.Getenv(envBasicAuthPassword))
	if err := validateBasicArgs(&authOptions, args); err != nil {
		logger.Error("invalid basic arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid basic arguments: %w", err), errors.ExitCodeUsage)
	}

	ctx, stop := cmdutil.SignalContext(cmd)
	defer stop()

	if err := scanclient.New(logger.Named("client"), AppConfig).PutBasicAuth(ctx, authOptions.Username, authOptions.Password); err != nil {
		logger.Error("failed to update basic auth", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to update basic auth: %w", err), 0)
	}

	logger.Info("basic auth credentials updated", "username", authOptions.Username)
	return nil
}

func init() {
	sshKeyCmd.Flags().StringVar(&authOptions.KeyFile, "key-file", "", "Path to the private key file.")
	sshKeyCmd.Flags().StringVar(&authOptions.Passphrase, "passphrase", "", "Passphrase of an encrypted key.")
	sshKeyCmd.Flags().BoolP("help", "h", false, "Show help for the ssh-key command.")

	basicCmd.Flags().StringVarP(&authOptions.Username, "username", "u", "", "Username for HTTPS clones.")
	basicCmd.Flags().StringVarP(&authOptions.Password, "password", "p", "", "Password or access token for HTTPS clones.")
	basicCmd.Flags().BoolP("help", "h", false, "Show help for the basic command.")

	AuthCmd.AddCommand(sshKeyCmd, basicCmd)
}
