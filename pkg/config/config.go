// Package config resolves the Google Document AI and output settings for the
// extraction service from a YAML file and environment variables.
//
// Resolution order: YAML file values (when a file is given), then environment
// overrides. Required keys fail fast with a ConfigError before any job is
// created.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variable names, matching the deployment surface.
const (
	EnvProject     = "GOOGLE_CLOUD_PROJECT"
	EnvProcessorID = "DOCUMENT_AI_PROCESSOR_ID"
	EnvLocation    = "DOCUMENT_AI_LOCATION"
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvOutputDir   = "DEFAULT_OUTPUT_DIR"
	EnvUploadDir   = "UPLOAD_DIR"
	EnvMaxUploadMB = "MAX_FILE_SIZE"
)

// Config holds everything needed to submit documents and write results.
type Config struct {
	ProjectID       string // Google Cloud project ID
	ProcessorID     string // Document AI processor ID
	Location        string // Processor location (us, eu, ...)
	CredentialsPath string // Service account JSON key file

	OutputDir      string  // Root directory for per-job output
	UploadDir      string  // Staging directory for uploaded files
	MaxUploadBytes int64   // Upload size limit for the HTTP API
	Threshold      float64 // Minimum entity confidence kept in typed output
	Workers        int     // Concurrent jobs in batch mode
}

// ConfigError reports a missing or unusable required setting.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing %s", e.Key)
}

type yamlConfig struct {
	ProjectID   string  `yaml:"project_id"`
	Location    string  `yaml:"location"`
	ProcessorID string  `yaml:"processor_id"`
	Credentials string  `yaml:"credentials"`
	OutputDir   string  `yaml:"output_dir"`
	UploadDir   string  `yaml:"upload_dir"`
	MaxUploadMB int64   `yaml:"max_upload_mb"`
	Threshold   float64 `yaml:"confidence_threshold"`
	Workers     int     `yaml:"workers"`
}

// Load reads the optional YAML file at path, applies environment overrides and
// defaults, and validates the result. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	var yc yamlConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &yc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := &Config{
		ProjectID:       firstOf(os.Getenv(EnvProject), yc.ProjectID),
		ProcessorID:     firstOf(os.Getenv(EnvProcessorID), yc.ProcessorID),
		Location:        firstOf(os.Getenv(EnvLocation), yc.Location, "us"),
		CredentialsPath: firstOf(os.Getenv(EnvCredentials), yc.Credentials),
		OutputDir:       firstOf(os.Getenv(EnvOutputDir), yc.OutputDir, "data/output"),
		UploadDir:       firstOf(os.Getenv(EnvUploadDir), yc.UploadDir, "data/uploads"),
		MaxUploadBytes:  envAsInt64(EnvMaxUploadMB, yc.MaxUploadMB, 50) << 20,
		Threshold:       yc.Threshold,
		Workers:         yc.Workers,
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required keys and that the credentials file exists.
func (c *Config) Validate() error {
	switch {
	case c.ProjectID == "":
		return &ConfigError{Key: "project_id"}
	case c.ProcessorID == "":
		return &ConfigError{Key: "processor_id"}
	case c.Location == "":
		return &ConfigError{Key: "location"}
	case c.CredentialsPath == "":
		return &ConfigError{Key: "credentials"}
	}
	if _, err := os.Stat(c.CredentialsPath); err != nil {
		return &ConfigError{Key: "credentials"}
	}
	return nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envAsInt64(key string, fileValue, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if fileValue > 0 {
		return fileValue
	}
	return def
}
