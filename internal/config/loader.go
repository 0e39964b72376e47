package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	// Model
	ModelPath      string `json:"model_path" yaml:"model_path" toml:"model_path"`
	LabelsPath     string `json:"labels_path" yaml:"labels_path" toml:"labels_path"`
	ModelID        string `json:"model_id" yaml:"model_id" toml:"model_id"`
	Preprocess     string `json:"preprocess" yaml:"preprocess" toml:"preprocess"`
	Layout         string `json:"layout" yaml:"layout" toml:"layout"`
	ImageSize      int    `json:"image_size" yaml:"image_size" toml:"image_size"`
	TopK           int    `json:"top_k" yaml:"top_k" toml:"top_k"`
	ApplySoftmax   bool   `json:"apply_softmax" yaml:"apply_softmax" toml:"apply_softmax"`
	InputName      string `json:"input_name" yaml:"input_name" toml:"input_name"`
	OutputName     string `json:"output_name" yaml:"output_name" toml:"output_name"`
	Device         string `json:"device" yaml:"device" toml:"device"`
	IntraOpThreads int    `json:"intra_op_threads" yaml:"intra_op_threads" toml:"intra_op_threads"`
	ORTLibraryPath string `json:"ort_library_path" yaml:"ort_library_path" toml:"ort_library_path"`

	// Reports
	ReportDir     string `json:"report_dir" yaml:"report_dir" toml:"report_dir"`
	ReportEnabled *bool  `json:"report_enabled" yaml:"report_enabled" toml:"report_enabled"`
	Attribution   string `json:"attribution" yaml:"attribution" toml:"attribution"`

	// HTTP
	MaxUploadBytes        int64    `json:"max_upload_bytes" yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	MaxPixels             int      `json:"max_pixels" yaml:"max_pixels" toml:"max_pixels"`
	MaxQueueDepth         int      `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitSeconds        int      `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	CORSEnabled           bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins           []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
	// RequestLog is the per-request log level (off|error|info|debug). Empty
	// keeps the IMGCLASSD_REQUEST_LOG environment default.
	RequestLog string `json:"request_log" yaml:"request_log" toml:"request_log"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
