package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imgclassd/internal/classifier"
	"imgclassd/internal/config"
	"imgclassd/internal/pipeline"
	"imgclassd/internal/preprocess"
	"imgclassd/internal/registry"
	"imgclassd/internal/report"
)

// newLoader is the model loader used by the commands; tests swap it for a fake.
// model_path may name a file or a directory with one *.onnx model; a label
// table next to the model is used when labels_path is unset.
var newLoader = func(cfg config.Config, pre preprocess.Options) classifier.Loader {
	return func(ctx context.Context) (classifier.Model, error) {
		files, err := registry.Resolve(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		labels := cfg.LabelsPath
		if labels == "" {
			labels = files.LabelsPath
		}
		return classifier.ONNXLoader(classifier.ONNXOptions{
			ModelPath:      files.ModelPath,
			LabelsPath:     labels,
			InputName:      cfg.InputName,
			OutputName:     cfg.OutputName,
			Device:         cfg.Device,
			IntraOpThreads: cfg.IntraOpThreads,
			InputShape:     pre.Shape(),
			LibraryPath:    cfg.ORTLibraryPath,
		})(ctx)
	}
}

func preprocessOptions(cfg config.Config) (preprocess.Options, error) {
	layout, err := preprocess.ParseLayout(strings.ToUpper(cfg.Layout))
	if err != nil {
		return preprocess.Options{}, err
	}
	return preprocess.Options{
		Width:     cfg.ImageSize,
		Height:    cfg.ImageSize,
		Mode:      preprocess.Mode(cfg.Preprocess),
		Layout:    layout,
		MaxPixels: cfg.MaxPixels,
	}, nil
}

// buildOrchestrator wires classifier, renderer and orchestrator from cfg.
// The returned classifier must be closed by the caller.
func buildOrchestrator(cfg config.Config, log zerolog.Logger) (*pipeline.Orchestrator, *classifier.Classifier, error) {
	pre, err := preprocessOptions(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("preprocess options: %w", err)
	}
	clf := classifier.New(newLoader(cfg, pre), classifier.Options{ApplySoftmax: cfg.ApplySoftmax})
	renderer := report.New(report.Options{
		Dir:         cfg.ReportDir,
		ModelID:     cfg.ModelID,
		Attribution: cfg.Attribution,
	})
	orch := pipeline.New(clf, renderer, pipeline.Config{
		ModelID:       cfg.ModelID,
		TopK:          cfg.TopK,
		Preprocess:    pre,
		Reports:       cfg.Reports(),
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitSeconds) * time.Second,
		Publisher:     pipeline.NewLogPublisher(log),
		Logger:        &log,
	})
	return orch, clf, nil
}
