package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"imgclassd/internal/classifier"
	"imgclassd/internal/config"
	"imgclassd/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var (
		addr        string
		requestLog  string
		corsEnabled bool
		corsOrigins []string
	)
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP service and browser UI",
		Example: "  imgclassd serve --addr :8080 --model models/mobilenet_v2.onnx --labels models/labels.txt",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(func(c *config.Config) {
				setIf(&c.Addr, addr)
				setIf(&c.RequestLog, requestLog)
				if cmd.Flags().Changed("cors-enabled") || envBool("IMGCLASSD_CORS_ENABLED", false) {
					c.CORSEnabled = corsEnabled
				}
				if len(corsOrigins) > 0 {
					c.CORSOrigins = corsOrigins
				}
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, g.logger(cmd, cfg))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envStr("IMGCLASSD_ADDR", ""), "HTTP listen address, e.g. :8080 (env IMGCLASSD_ADDR)")
	cmd.Flags().StringVar(&requestLog, "request-log", envStr("IMGCLASSD_REQUEST_LOG", ""), "Per-request log level: off|error|info|debug (env IMGCLASSD_REQUEST_LOG)")
	cmd.Flags().BoolVar(&corsEnabled, "cors-enabled", envBool("IMGCLASSD_CORS_ENABLED", false), "Enable CORS (env IMGCLASSD_CORS_ENABLED)")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origins", nil, "Allowed CORS origins")
	return cmd
}

// configureHTTP applies cfg to the httpapi package settings. The per-request
// log level is only replaced when request_log is set, so the
// IMGCLASSD_REQUEST_LOG default otherwise stays in effect.
func configureHTTP(ctx context.Context, cfg config.Config, log zerolog.Logger) {
	httpapi.SetLogger(log)
	if cfg.RequestLog != "" {
		httpapi.SetDefaultRequestLogLevel(cfg.RequestLog)
	}
	httpapi.SetMaxUploadBytes(cfg.MaxUploadBytes)
	httpapi.SetRequestTimeoutSeconds(int64(cfg.RequestTimeoutSeconds))
	httpapi.SetReportDir(cfg.ReportDir)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, nil, nil)
	httpapi.SetBaseContext(ctx)
}

// runServe serves until ctx is canceled, then shuts down gracefully. The model
// is warmed in the background; a failed warmup is retried on first use.
func runServe(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	orch, clf, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := clf.Close(); err != nil {
			log.Warn().Err(err).Msg("close model")
		}
		if err := classifier.ShutdownRuntime(); err != nil {
			log.Warn().Err(err).Msg("shutdown onnxruntime")
		}
	}()

	configureHTTP(ctx, cfg, log)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: httpapi.NewMux(orch), ReadHeaderTimeout: 10 * time.Second}

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Str("model", cfg.ModelPath).Str("report_dir", cfg.ReportDir).Msg("imgclassd listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		if err := orch.Warm(gctx); err != nil {
			log.Warn().Err(err).Msg("model warmup failed; retrying on first request")
			return nil
		}
		log.Info().Str("model_id", cfg.ModelID).Msg("model loaded")
		return nil
	})
	eg.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown")
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	})
	return eg.Wait()
}
