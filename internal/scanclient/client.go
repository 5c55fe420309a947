// Package scanclient talks to the external scanning service over its REST API.
package scanclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
	"github.com/scan-io-git/checkview/pkg/shared/httpclient"
)

const (
	pathCheckRepos       = "/api/v1/checkRepos"
	pathAcknowledged     = "/api/v1/acknowledged/{id}"
	pathChecks           = "/api/v1/checks"
	pathCheckDefinitions = "/api/v1/checkDefinitions"
	pathCheckConfig      = "/api/v1/config/{checkName}"
	pathConfig           = "/api/v1/config"
	pathSSHKey           = "/api/v1/config/sshkey"
	pathBasicAuth        = "/api/v1/config/basicauth"

	// RequestIDHeader correlates a request with the service logs.
	RequestIDHeader = "X-Request-ID"
)

// Client holds one resty client per request class. Reads are retried according
// to the http_client settings; scan submissions and updates are never retried.
type Client struct {
	reads  *resty.Client
	writes *resty.Client
	scans  *resty.Client
	logger hclog.Logger
}

// New creates a client for the service configured in cfg.
func New(logger hclog.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	c := &Client{
		reads:  newRestyClient(logger, cfg),
		writes: newRestyClient(logger, cfg),
		scans:  newRestyClient(logger, cfg),
		logger: logger,
	}
	c.writes.SetRetryCount(0)
	c.scans.SetRetryCount(0)
	if cfg.ScanService.ScanTimeout > 0 {
		c.scans.SetTimeout(cfg.ScanService.ScanTimeout)
	}
	return c
}

func newRestyClient(logger hclog.Logger, cfg *config.Config) *resty.Client {
	rc := httpclient.InitializeRestyClient(logger, cfg)
	rc.SetBaseURL(strings.TrimRight(cfg.ScanService.URL, "/"))
	rc.SetHeader("Accept", "application/json")
	if cfg.ScanService.Token != "" {
		rc.SetAuthToken(cfg.ScanService.Token)
	}
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})
	return rc
}

// call executes a request and decodes a JSON response into result when it is not nil.
func (c *Client) call(ctx context.Context, rc *resty.Client, operation, method, path string, prepare func(*resty.Request), result interface{}) error {
	req := rc.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug("request failed", "operation", operation, "error", err)
		return errors.NewRequestError(operation, err)
	}

	c.logger.Debug("response received",
		"operation", operation,
		"status", resp.StatusCode(),
		"request_id", resp.Request.Header.Get(RequestIDHeader),
		"duration", resp.Time(),
	)

	if !resp.IsSuccess() {
		return errors.NewStatusError(operation, resp.StatusCode(), errorDetail(resp))
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return &errors.RequestError{
			Operation:  operation,
			StatusCode: resp.StatusCode(),
			Detail:     fmt.Sprintf("malformed response body: %v", err),
			Err:        err,
		}
	}
	return nil
}

// errorDetail returns the text the service wrote for a failed request,
// falling back to the status text.
func errorDetail(resp *resty.Response) string {
	if body := strings.TrimSpace(resp.String()); body != "" {
		return body
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return resp.Status()
}
