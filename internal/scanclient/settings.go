package scanclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// CheckConfig is the service-side configuration of one check. Config is
// passed through as-is.
type CheckConfig struct {
	Name    string                 `json:"name"`
	Enabled bool                   `json:"enabled"`
	Config  map[string]interface{} `json:"config,omitempty"`
}

// checkConfigResponse is the shape returned by GET /api/v1/config/{checkName}.
type checkConfigResponse struct {
	CheckName string                 `json:"checkName"`
	Enabled   *bool                  `json:"enabled,omitempty"`
	Config    map[string]interface{} `json:"config"`
}

// GetCheckConfig returns the current configuration of a check.
func (c *Client) GetCheckConfig(ctx context.Context, name string) (CheckConfig, error) {
	if name == "" {
		return CheckConfig{}, errors.NewPreconditionError("check", "name must not be empty")
	}

	var resp checkConfigResponse
	err := c.call(ctx, c.reads, "get check config", http.MethodGet, pathCheckConfig, func(r *resty.Request) {
		r.SetPathParam("checkName", name)
	}, &resp)
	if err != nil {
		return CheckConfig{}, err
	}

	cfg := CheckConfig{Name: resp.CheckName, Config: resp.Config}
	if cfg.Name == "" {
		cfg.Name = name
	}
	if resp.Enabled != nil {
		cfg.Enabled = *resp.Enabled
	}
	return cfg, nil
}

// PutCheckConfig replaces the configuration of a check.
func (c *Client) PutCheckConfig(ctx context.Context, cfg CheckConfig) error {
	if cfg.Name == "" {
		return errors.NewPreconditionError("check", "name must not be empty")
	}
	return c.call(ctx, c.writes, "update check config", http.MethodPut, pathConfig, func(r *resty.Request) {
		r.SetBody(cfg)
	}, nil)
}

// PutSSHKey uploads the private key the service uses to clone over SSH.
func (c *Client) PutSSHKey(ctx context.Context, key []byte, passphrase string) error {
	if len(key) == 0 {
		return errors.NewPreconditionError("key", "must not be empty")
	}
	return c.call(ctx, c.writes, "update ssh key", http.MethodPut, pathSSHKey, func(r *resty.Request) {
		r.SetBody(sshKeyBody{Key: string(key), Password: passphrase})
	}, nil)
}

// PutBasicAuth sets the credentials the service uses to clone over HTTP.
func (c *Client) PutBasicAuth(ctx context.Context, username, password string) error {
	if username == "" {
		return errors.NewPreconditionError("username", "must not be empty")
	}
	return c.call(ctx, c.writes, "update basic auth", http.MethodPut, pathBasicAuth, func(r *resty.Request) {
		r.SetBody(basicAuthBody{Username: username, Password: password})
	}, nil)
}
