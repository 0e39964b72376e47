package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imgclassd/internal/config"
	"imgclassd/internal/format"
	"imgclassd/internal/pipeline"
	"imgclassd/pkg/types"
)

func newClassifyCmd(g *globals) *cobra.Command {
	var (
		topK   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "classify <image>",
		Short:   "Print the top-K predictions for an image",
		Example: "  imgclassd classify --top-k 5 dog.jpg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(func(c *config.Config) {
				if topK > 0 {
					c.TopK = topK
				}
			})
			if err != nil {
				return err
			}
			res, err := submitFile(cmd.Context(), cfg, g.logger(cmd, cfg), args[0], false)
			if err != nil {
				return err
			}
			if asJSON {
				return writeResultJSON(cmd.OutOrStdout(), res)
			}
			return writeResultTable(cmd.OutOrStdout(), res.Predictions)
		},
	}
	cmd.Flags().IntVar(&topK, "top-k", envInt("IMGCLASSD_TOP_K", 0), "Number of predictions (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newReportCmd(g *globals) *cobra.Command {
	var (
		topK   int
		outDir string
	)
	cmd := &cobra.Command{
		Use:     "report <image>",
		Short:   "Classify an image and write its PDF report",
		Example: "  imgclassd report --out-dir reports dog.jpg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(func(c *config.Config) {
				if topK > 0 {
					c.TopK = topK
				}
				setIf(&c.ReportDir, outDir)
			})
			if err != nil {
				return err
			}
			res, err := submitFile(cmd.Context(), cfg, g.logger(cmd, cfg), args[0], true)
			if err != nil {
				return err
			}
			if res.ReportErr != nil {
				return res.ReportErr
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.ReportPath)
			return err
		},
	}
	cmd.Flags().IntVar(&topK, "top-k", envInt("IMGCLASSD_TOP_K", 0), "Number of predictions (default from config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for the report (default report_dir)")
	return cmd
}

// submitFile runs one image file through a freshly built pipeline.
func submitFile(ctx context.Context, cfg config.Config, log zerolog.Logger, path string, withReport bool) (*pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	orch, clf, err := buildOrchestrator(cfg, log)
	if err != nil {
		return nil, err
	}
	defer clf.Close()
	res, err := orch.Submit(ctx, &pipeline.Upload{Name: filepath.Base(path), Data: data}, pipeline.SubmitOptions{Report: &withReport})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if res.Empty {
		return nil, fmt.Errorf("%s: %w", path, pipeline.ErrMissingInput)
	}
	return res, nil
}

func writeResultTable(w io.Writer, preds []types.Prediction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range preds {
		fmt.Fprintf(tw, "%d.\t%s\t%s%%\t\n", i+1, p.Label, format.FormatPercent(p.Confidence))
	}
	return tw.Flush()
}

type cliResult struct {
	ID          string             `json:"id"`
	Predictions []types.Prediction `json:"predictions"`
	Scores      map[string]float64 `json:"scores"`
}

func writeResultJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cliResult{ID: res.ID, Predictions: res.Predictions, Scores: res.Scores})
}
