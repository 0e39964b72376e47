package httpapi

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"imgclassd/internal/pipeline"
	"imgclassd/pkg/types"
)

// NewMux builds the HTTP surface: the JSON service endpoints, the browser UI,
// report downloads and the operational endpoints.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5, "application/json", "text/html", "text/plain"))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}

	h := &handlers{svc: svc}
	r.Get("/", h.index)
	r.Post("/ui", h.uiSubmit)
	r.Post("/ui/clear", h.uiClear)

	r.Post("/predict", h.predict)
	r.Post("/classify", h.classify)
	r.Post("/clear", h.clear)
	r.Get("/status", h.status)

	r.Get("/reports/{name}", h.downloadReport)
	r.Delete("/reports/{name}", h.deleteReport)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)
	return r
}

func corsOptions() cors.Options {
	methods := corsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	}
	headers := corsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Log-Level", "X-Request-Id"}
	}
	return cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}
}

type handlers struct {
	svc Service
}

// predict godoc
// @Summary      Raw model output
// @Description  Classifies the uploaded image and returns the full score vector.
// @Tags         inference
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image file"
// @Success      200  {object}  types.RawOutputResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /predict [post]
func (h *handlers) predict(w http.ResponseWriter, r *http.Request) {
	rl := newReqLog(r, "predict")
	up, err := readUpload(w, r)
	if err != nil {
		h.fail(w, rl, err)
		return
	}
	rl.begin(func(ev *zerolog.Event) *zerolog.Event { return ev.Bool("has_file", up != nil) })
	ctx, cancel := workContext(r)
	defer cancel()
	scores, err := h.svc.Predict(ctx, up)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		h.fail(w, rl, err)
		return
	}
	writeJSON(w, types.RawOutputResponse{RawOutput: [][]float32{scores}})
	rl.end(http.StatusOK, nil)
}

// classify godoc
// @Summary      Top-K classification
// @Description  Classifies the uploaded image and returns ranked predictions, a score map and bar rows. Optionally writes a PDF report.
// @Tags         inference
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Image file"
// @Param        top_k   formData  int     false  "Number of predictions"
// @Param        report  formData  bool    false  "Write a PDF report"
// @Success      200  {object}  types.ClassifyResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /classify [post]
func (h *handlers) classify(w http.ResponseWriter, r *http.Request) {
	rl := newReqLog(r, "classify")
	up, err := readUpload(w, r)
	if err == nil && (up == nil || len(up.Data) == 0) {
		err = pipeline.ErrMissingInput
	}
	if err != nil {
		h.fail(w, rl, err)
		return
	}
	opts, err := submitOptions(r)
	if err != nil {
		h.fail(w, rl, err)
		return
	}
	rl.begin(func(ev *zerolog.Event) *zerolog.Event {
		return ev.Str("file", up.Name).Int("bytes", len(up.Data)).Int("top_k", opts.TopK)
	})
	ctx, cancel := workContext(r)
	defer cancel()
	res, err := h.svc.Submit(ctx, up, opts)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		h.fail(w, rl, err)
		return
	}
	writeJSON(w, classifyResponse(res))
	rl.debug(func(ev *zerolog.Event) *zerolog.Event {
		return ev.Str("submission_id", res.ID).Interface("scores", res.Scores)
	}, "classify result")
	rl.end(http.StatusOK, nil)
}

func classifyResponse(res *pipeline.Result) types.ClassifyResponse {
	out := types.ClassifyResponse{
		ID:          res.ID,
		Predictions: res.Predictions,
		Scores:      res.Scores,
		Bars:        res.Bars,
		ReportURL:   reportURL(res.ReportPath),
	}
	if res.ReportErr != nil {
		out.ReportError = res.ReportErr.Error()
	}
	return out
}

func reportURL(path string) string {
	if path == "" {
		return ""
	}
	return "/reports/" + filepath.Base(path)
}

// clear godoc
// @Summary      Reset the orchestrator
// @Description  Forgets the last result. The model stays loaded and report files are kept.
// @Tags         ops
// @Success      204
// @Router       /clear [post]
func (h *handlers) clear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// status godoc
// @Summary      Service status
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// fail maps err to a status, writes the JSON error and logs the outcome.
func (h *handlers) fail(w http.ResponseWriter, rl *reqLog, err error) {
	code := statusFor(err)
	if code == http.StatusTooManyRequests {
		backpressureTotal.WithLabelValues(rl.r.URL.Path).Inc()
	}
	writeJSONError(w, code, err.Error())
	rl.end(code, err)
}
