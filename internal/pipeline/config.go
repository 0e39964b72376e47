package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"imgclassd/internal/preprocess"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultTopK          = 3
	defaultMaxQueueDepth = 8
	defaultMaxWait       = 30 * time.Second
)

// Config encapsulates all tunables for Orchestrator construction.
type Config struct {
	ModelID    string
	TopK       int
	Preprocess preprocess.Options
	// Reports enables report rendering by default when a Renderer is set.
	Reports       bool
	MaxQueueDepth int
	MaxWait       time.Duration
	Publisher     EventPublisher
	Logger        *zerolog.Logger
}

func (c *Config) applyDefaults() {
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}
	if c.Preprocess.Width == 0 && c.Preprocess.Height == 0 && c.Preprocess.Mode == "" {
		c.Preprocess = preprocess.DefaultOptions()
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = defaultMaxQueueDepth
	}
	if c.MaxWait <= 0 {
		c.MaxWait = defaultMaxWait
	}
	if c.Publisher == nil {
		c.Publisher = noopPublisher{}
	}
}
