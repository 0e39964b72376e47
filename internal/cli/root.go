package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imgclassd/internal/common/fsutil"
	"imgclassd/internal/config"
)

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	modelPath  string
	labelsPath string
	logLevel   string
	logFormat  string
}

// Execute runs the command tree with args (without the program name).
func Execute(args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

// NewRootCmd constructs the imgclassd command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "imgclassd",
		Short:         "Image classification service with PDF reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", envStr("IMGCLASSD_CONFIG", ""), "Config file (.yaml, .json or .toml) (env IMGCLASSD_CONFIG)")
	pf.StringVar(&g.modelPath, "model", envStr("IMGCLASSD_MODEL", ""), "ONNX model path (env IMGCLASSD_MODEL)")
	pf.StringVar(&g.labelsPath, "labels", envStr("IMGCLASSD_LABELS", ""), "Label table: metadata .json or one label per line (env IMGCLASSD_LABELS)")
	pf.StringVar(&g.logLevel, "log-level", envStr("IMGCLASSD_LOG_LEVEL", ""), "Log level: debug|info|warn|error (env IMGCLASSD_LOG_LEVEL)")
	pf.StringVar(&g.logFormat, "log-format", envStr("IMGCLASSD_LOG_FORMAT", ""), "Log format: json|console (env IMGCLASSD_LOG_FORMAT)")

	root.AddCommand(newServeCmd(g), newClassifyCmd(g), newReportCmd(g))
	return root
}

// load resolves the effective configuration: file values, overridden by
// non-empty flags (whose defaults come from the environment), then defaults.
func (g *globals) load(overrides func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if g.configPath != "" {
		path, err := fsutil.ExpandHome(g.configPath)
		if err != nil {
			return cfg, err
		}
		if cfg, err = config.Load(path); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	setIf(&cfg.ModelPath, g.modelPath)
	setIf(&cfg.LabelsPath, g.labelsPath)
	setIf(&cfg.LogLevel, g.logLevel)
	setIf(&cfg.LogFormat, g.logFormat)
	if overrides != nil {
		overrides(&cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	for _, p := range []*string{&cfg.ModelPath, &cfg.LabelsPath, &cfg.ORTLibraryPath, &cfg.ReportDir} {
		v, err := fsutil.ExpandHome(*p)
		if err != nil {
			return cfg, err
		}
		*p = v
	}
	return cfg, nil
}

func (g *globals) logger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	return newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
