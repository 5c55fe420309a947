package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const DefaultConfigPath = "config.yml"

type Config struct {
	Logger      Logger      `yaml:"logger"`
	HTTPClient  HTTPClient  `yaml:"http_client"`
	ScanService ScanService `yaml:"scan_service"`
	Output      Output      `yaml:"output"`
	Upload      Upload      `yaml:"upload"`
}

type Logger struct {
	Level string `yaml:"level"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ScanService describes how to reach the external scanning service.
type ScanService struct {
	URL         string        `yaml:"url"`
	Token       string        `yaml:"token"`
	ScanTimeout time.Duration `yaml:"scan_timeout"`
}

type Output struct {
	Format string `yaml:"format"`
}

// Upload configures where reports go when --upload is given without a value.
type Upload struct {
	Region      string `yaml:"region"`
	Destination string `yaml:"destination"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// LoadConfig reads the YAML config at configPath. When explicit is false and the
// file does not exist, an empty config is used so the defaults apply.
func LoadConfig(configPath string, explicit bool) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		configPath = DefaultConfigPath
	}

	if err := LoadYAML(configPath, cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg = &Config{}
		} else {
			return nil, err
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnv lets environment variables take priority over the file for values
// that usually differ between machines.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CHECKVIEW_SERVICE_URL"); v != "" {
		cfg.ScanService.URL = v
	}
	if v := os.Getenv("CHECKVIEW_SERVICE_TOKEN"); v != "" {
		cfg.ScanService.Token = v
	}
}

func applyDefaults(cfg *Config) {
	cfg.ScanService.URL = SetThen(cfg.ScanService.URL, DefaultServiceURL)
	cfg.ScanService.ScanTimeout = SetThen(cfg.ScanService.ScanTimeout, DefaultScanTimeout)
	cfg.Output.Format = SetThen(cfg.Output.Format, DefaultOutputFormat)
}
