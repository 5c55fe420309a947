package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateScanServiceConfig(&cfg.ScanService); err != nil {
		return fmt.Errorf("YAML global config: scan_service directive is invalid: %w", err)
	}
	if err := ValidateOutputConfig(&cfg.Output); err != nil {
		return fmt.Errorf("YAML global config: output directive is invalid: %w", err)
	}
	if err := ValidateUploadConfig(&cfg.Upload); err != nil {
		return fmt.Errorf("YAML global config: upload directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

// ValidateScanServiceConfig checks the scanning service endpoint settings.
func ValidateScanServiceConfig(svc *ScanService) error {
	if svc == nil {
		return fmt.Errorf("scan service configuration is nil")
	}
	u, err := url.Parse(svc.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", svc.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must use the http or https scheme", svc.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", svc.URL)
	}
	return validateDuration(svc.ScanTimeout, "scan_timeout", 24*time.Hour)
}

// ValidateOutputConfig checks that the configured report format is known.
func ValidateOutputConfig(out *Output) error {
	if out == nil {
		return fmt.Errorf("output configuration is nil")
	}
	for _, f := range OutputFormats {
		if out.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q, expected one of: %s", out.Format, strings.Join(OutputFormats, ", "))
}

// ValidateUploadConfig checks that a configured destination is an S3 URI.
func ValidateUploadConfig(up *Upload) error {
	if up == nil {
		return fmt.Errorf("upload configuration is nil")
	}
	if up.Destination != "" && !strings.HasPrefix(up.Destination, "s3://") {
		return fmt.Errorf("destination %q must start with s3://", up.Destination)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	return validatePort(proxy.Port)
}

// validateHost ensures the proxy host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
