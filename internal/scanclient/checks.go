package scanclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// ScanRequest asks the service to run checks against targets.
type ScanRequest struct {
	Targets []string
	Checks  []string
	// Catalog selects the details variant of returned findings. Default() when nil.
	Catalog *catalog.Catalog
}

// SubmitScan runs a scan and returns one result per target.
func (c *Client) SubmitScan(ctx context.Context, req ScanRequest) ([]results.RepositoryScanResult, error) {
	if len(req.Targets) == 0 {
		return nil, errors.NewPreconditionError("targets", "at least one target is required")
	}
	if len(req.Checks) == 0 {
		return nil, errors.NewPreconditionError("checks", "at least one check must be selected")
	}

	body := scanRequestBody{
		Path:       strings.Join(req.Targets, ","),
		CheckNames: req.Checks,
	}

	c.logger.Info("submitting scan", "targets", len(req.Targets), "checks", strings.Join(req.Checks, ","))

	var records []scanRecord
	err := c.call(ctx, c.scans, "submit scan", http.MethodPost, pathCheckRepos, func(r *resty.Request) {
		r.SetBody(body)
	}, &records)
	if err != nil {
		return nil, err
	}
	return decodeRecords("submit scan", req.Catalog, records)
}

// FetchChecks returns stored scan results between from and to for the given checks.
func (c *Client) FetchChecks(ctx context.Context, from, to time.Time, checks []string) ([]results.RepositoryScanResult, error) {
	if len(checks) == 0 {
		return nil, errors.NewPreconditionError("checks", "at least one check must be selected")
	}
	if to.Before(from) {
		return nil, errors.NewPreconditionError("to", "must not be before 'from'")
	}

	query := map[string]string{
		"from":       strconv.FormatInt(from.UnixMilli(), 10),
		"to":         strconv.FormatInt(to.UnixMilli(), 10),
		"checkNames": strings.Join(checks, ","),
	}

	var records []scanRecord
	err := c.call(ctx, c.reads, "fetch checks", http.MethodGet, pathChecks, func(r *resty.Request) {
		r.SetQueryParams(query)
	}, &records)
	if err != nil {
		return nil, err
	}
	return decodeRecords("fetch checks", nil, records)
}

// SetAcknowledged changes the acknowledgment state of one finding.
func (c *Client) SetAcknowledged(ctx context.Context, findingID uint64, acknowledged bool) error {
	return c.call(ctx, c.writes, "update acknowledgment", http.MethodPut, pathAcknowledged, func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatUint(findingID, 10)).
			SetBody(acknowledgeBody{Acknowledged: acknowledged})
	}, nil)
}

// CheckNames returns the identifiers of the checks the service can run.
func (c *Client) CheckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, c.reads, "list checks", http.MethodGet, pathCheckDefinitions, nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Catalog builds a catalog from the check names announced by the service.
func (c *Client) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	names, err := c.CheckNames(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FromNames(names), nil
}

func decodeRecords(operation string, cat *catalog.Catalog, records []scanRecord) ([]results.RepositoryScanResult, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	res, err := toResults(cat, records)
	if err != nil {
		return nil, &errors.RequestError{
			Operation: operation,
			Detail:    fmt.Sprintf("malformed additionalInfo: %v", err),
			Err:       err,
		}
	}
	return res, nil
}
