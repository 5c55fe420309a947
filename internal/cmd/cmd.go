// Package cmd holds plumbing shared by the checkview commands: check selection,
// time flags and report output.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/render"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/internal/upload"
	"github.com/scan-io-git/checkview/pkg/shared"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
	"github.com/scan-io-git/checkview/pkg/shared/files"
)

// SignalContext returns the command context cancelled on SIGINT or SIGTERM.
func SignalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// CatalogSource fetches the catalog announced by the scanning service.
type CatalogSource interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
}

// ResolveChecks turns the check flags into a selection and the catalog it was
// resolved against. The service catalog is preferred; when it cannot be fetched
// the built-in one is used and unknown names are only warned about.
func ResolveChecks(ctx context.Context, logger hclog.Logger, source CatalogSource, names []string, all bool) ([]string, *catalog.Catalog, error) {
	cat, err := source.Catalog(ctx)
	remote := err == nil
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		logger.Warn("failed to fetch check definitions, using built-in catalog", "error", err)
		cat = catalog.Default()
	}

	if all {
		return cat.Identifiers(), cat, nil
	}

	checks := shared.SplitList(names)
	if len(checks) == 0 {
		return nil, nil, errors.NewPreconditionError("checks", "at least one check must be selected")
	}
	if remote {
		if err := cat.Validate(checks); err != nil {
			return nil, nil, err
		}
	} else if unknown := cat.Unknown(checks); len(unknown) > 0 {
		logger.Warn("selected checks are not in the built-in catalog", "checks", unknown)
	}
	return checks, cat, nil
}

// ParseTime accepts RFC3339 or a Unix timestamp in milliseconds.
func ParseTime(value string) (time.Time, error) {
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected RFC3339 or milliseconds since epoch", value)
	}
	return t, nil
}

// ReportOptions are the output flags shared by the reporting commands.
type ReportOptions struct {
	Format     string
	OutputPath string
	Upload     string
}

// Uploader stores a rendered report. *upload.S3Uploader implements it.
type Uploader interface {
	Upload(ctx context.Context, uri, fileName, contentType string, body io.Reader) (string, error)
}

// NewUploader returns nil when the report is not uploaded.
func NewUploader(cfg *config.Config, logger hclog.Logger, opts ReportOptions) (Uploader, error) {
	if opts.Upload == "" {
		return nil, nil
	}
	region := ""
	if cfg != nil {
		region = cfg.Upload.Region
	}
	return upload.NewS3Uploader(logger.Named("upload"), region)
}

// ReportFileName names a report file for command and format.
func ReportFileName(command, format string, now time.Time) string {
	return fmt.Sprintf("checkview-%s-%s%s", command, now.UTC().Format("20060102T150405Z"), render.Extension(format))
}

// Report is one rendered view ready to be written out.
type Report struct {
	Command string
	View    results.View
	Render  render.Options
	Now     time.Time
}

// WriteReport renders report once, writes it to stdout or the output path,
// then uploads it when an uploader is given.
func WriteReport(ctx context.Context, logger hclog.Logger, stdout io.Writer, report Report, opts ReportOptions, uploader Uploader) error {
	var buf bytes.Buffer
	if err := render.Render(&buf, opts.Format, report.View, report.Render); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	fileName := ReportFileName(report.Command, opts.Format, report.Now)
	if opts.OutputPath == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		outputPath, _, err := files.DetermineFileFullPath(opts.OutputPath, fileName)
		if err != nil {
			return err
		}
		if err := files.WriteFile(outputPath, buf.Bytes()); err != nil {
			return err
		}
		fileName = filepath.Base(outputPath)
		logger.Info("report saved to file", "path", outputPath)
	}

	if opts.Upload == "" || uploader == nil {
		return nil
	}
	location, err := uploader.Upload(ctx, opts.Upload, fileName, upload.ContentType(opts.Format), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return err
	}
	logger.Info("report uploaded", "location", location)
	return nil
}

// ValidateFormat checks format against the render formats.
func ValidateFormat(format string) error {
	for _, f := range render.Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q, expected one of: %s", format, strings.Join(render.Formats, ", "))
}

// UploadFromConfig is the --upload value used when the flag is given bare.
const UploadFromConfig = "config"

// ResolveUploadDestination maps a bare --upload to the configured destination.
func ResolveUploadDestination(cfg *config.Config, value string) (string, error) {
	if value != UploadFromConfig {
		return value, nil
	}
	if cfg == nil || cfg.Upload.Destination == "" {
		return "", errors.NewPreconditionError("upload", "no destination given and upload.destination is not configured")
	}
	return cfg.Upload.Destination, nil
}
