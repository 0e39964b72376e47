package config

import (
	"fmt"
	"strings"
)

// Defaults applied when the corresponding Config fields are unset.
const (
	DefaultAddr           = ":8080"
	DefaultModelPath      = "models/mobilenet_v2.onnx"
	DefaultModelID        = "MobileNetV2"
	DefaultPreprocess     = "tf"
	DefaultLayout         = "NHWC"
	DefaultImageSize      = 224
	DefaultTopK           = 3
	DefaultInputName      = "input"
	DefaultOutputName     = "output"
	DefaultDevice         = "cpu"
	DefaultReportDir      = "."
	DefaultAttribution    = "Generated by imgclassd"
	DefaultMaxUploadBytes = 10 << 20
	DefaultMaxPixels      = 50_000_000
	DefaultMaxQueueDepth  = 8
	DefaultMaxWaitSeconds = 30
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

// ApplyDefaults fills every unspecified field.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	if c.ModelID == "" {
		c.ModelID = DefaultModelID
	}
	if c.Preprocess == "" {
		c.Preprocess = DefaultPreprocess
	}
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	if c.ImageSize == 0 {
		c.ImageSize = DefaultImageSize
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.InputName == "" {
		c.InputName = DefaultInputName
	}
	if c.OutputName == "" {
		c.OutputName = DefaultOutputName
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.ReportDir == "" {
		c.ReportDir = DefaultReportDir
	}
	if c.ReportEnabled == nil {
		on := true
		c.ReportEnabled = &on
	}
	if c.Attribution == "" {
		c.Attribution = DefaultAttribution
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = DefaultMaxPixels
	}
	if c.MaxQueueDepth == 0 {
		c.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if c.MaxWaitSeconds == 0 {
		c.MaxWaitSeconds = DefaultMaxWaitSeconds
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}

// Reports reports whether per-request PDF reports are enabled.
func (c Config) Reports() bool {
	return c.ReportEnabled == nil || *c.ReportEnabled
}

// Validate rejects values the service cannot run with. Call after ApplyDefaults.
func (c Config) Validate() error {
	switch c.Preprocess {
	case "unit", "tf", "torch":
	default:
		return fmt.Errorf("preprocess must be one of unit|tf|torch, got %q", c.Preprocess)
	}
	switch strings.ToUpper(c.Layout) {
	case "NHWC", "NCHW":
	default:
		return fmt.Errorf("layout must be NHWC or NCHW, got %q", c.Layout)
	}
	switch c.Device {
	case "cpu", "cuda":
	default:
		return fmt.Errorf("device must be cpu or cuda, got %q", c.Device)
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("image_size must be > 0 (got %d)", c.ImageSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be > 0 (got %d)", c.TopK)
	}
	if c.IntraOpThreads < 0 {
		return fmt.Errorf("intra_op_threads must be >= 0 (got %d)", c.IntraOpThreads)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must be > 0 (got %d)", c.MaxUploadBytes)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max_pixels must be > 0 (got %d)", c.MaxPixels)
	}
	if c.MaxQueueDepth < 0 || c.MaxWaitSeconds < 0 || c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("queue depth and timeouts must be >= 0")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	switch c.RequestLog {
	case "", "off", "error", "info", "debug":
	default:
		return fmt.Errorf("request_log must be one of off|error|info|debug, got %q", c.RequestLog)
	}
	return nil
}
