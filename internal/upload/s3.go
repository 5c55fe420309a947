// Package upload stores rendered reports in S3.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// S3Uploader uploads report bodies to s3:// destinations.
type S3Uploader struct {
	api    s3manageriface.UploaderAPI
	logger hclog.Logger
}

// NewS3Uploader creates an uploader using the default AWS credential chain.
// An empty region is resolved from the environment.
func NewS3Uploader(logger hclog.Logger, region string) (*S3Uploader, error) {
	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return newS3Uploader(s3manager.NewUploader(sess), logger), nil
}

func newS3Uploader(api s3manageriface.UploaderAPI, logger hclog.Logger) *S3Uploader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &S3Uploader{api: api, logger: logger}
}

// ParseURI splits s3://bucket/key. A key ending in "/" or an empty key is a
// prefix and fileName is appended to it.
func ParseURI(uri, fileName string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", errors.NewPreconditionError("upload", fmt.Sprintf("invalid destination %q: %v", uri, err))
	}
	if u.Scheme != "s3" {
		return "", "", errors.NewPreconditionError("upload", fmt.Sprintf("destination %q must use the s3:// scheme", uri))
	}
	if u.Host == "" {
		return "", "", errors.NewPreconditionError("upload", fmt.Sprintf("destination %q has no bucket", uri))
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		if fileName == "" {
			return "", "", errors.NewPreconditionError("upload", fmt.Sprintf("destination %q is a prefix and no file name was given", uri))
		}
		key = path.Join(key, fileName)
	}
	return u.Host, key, nil
}

// Upload stores body at uri and returns the object location.
func (u *S3Uploader) Upload(ctx context.Context, uri, fileName, contentType string, body io.Reader) (string, error) {
	bucket, key, err := ParseURI(uri, fileName)
	if err != nil {
		return "", err
	}

	input := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	u.logger.Info("uploading report", "bucket", bucket, "key", key)
	result, err := u.api.UploadWithContext(ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			u.logger.Error("failed to upload report", "bucket", bucket, "key", key, "code", aerr.Code(), "error", aerr.Message())
		} else {
			u.logger.Error("failed to upload report", "bucket", bucket, "key", key, "error", err)
		}
		return "", fmt.Errorf("failed to upload report to %s: %w", uri, err)
	}

	u.logger.Info("uploaded report", "location", result.Location)
	return result.Location, nil
}

// ContentType returns the MIME type of a render format.
func ContentType(format string) string {
	switch format {
	case "json", "sarif":
		return "application/json"
	case "html":
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
