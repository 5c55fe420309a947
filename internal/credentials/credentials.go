// Package credentials loads and validates the secrets uploaded to the
// scanning service for cloning private repositories.
package credentials

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/scan-io-git/checkview/pkg/shared/errors"
	"github.com/scan-io-git/checkview/pkg/shared/files"
)

// SSHKey is a validated private key ready for upload.
type SSHKey struct {
	PEM         []byte
	Type        string
	Fingerprint string
	Encrypted   bool
}

// LoadSSHKey reads the private key at path and checks that it can be decoded,
// using passphrase when the key is encrypted.
func LoadSSHKey(path, passphrase string) (*SSHKey, error) {
	if path == "" {
		return nil, errors.NewPreconditionError("key-file", "path must be set")
	}

	expanded, err := files.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand key path %q: %w", path, err)
	}
	if err := files.ValidatePath(expanded); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", expanded, err)
	}
	return ParseSSHKey(data, passphrase)
}

// ParseSSHKey validates a PEM encoded private key.
func ParseSSHKey(data []byte, passphrase string) (*SSHKey, error) {
	key := &SSHKey{PEM: data}

	raw, err := ssh.ParseRawPrivateKey(data)
	if _, missing := err.(*ssh.PassphraseMissingError); missing {
		key.Encrypted = true
		if passphrase == "" {
			return nil, errors.NewPreconditionError("passphrase", "the key is encrypted and requires a passphrase")
		}
		raw, err = ssh.ParseRawPrivateKeyWithPassphrase(data, []byte(passphrase))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	signer, err := ssh.NewSignerFromKey(raw)
	if err != nil {
		return nil, fmt.Errorf("unsupported private key: %w", err)
	}
	key.Type = signer.PublicKey().Type()
	key.Fingerprint = ssh.FingerprintSHA256(signer.PublicKey())
	return key, nil
}
