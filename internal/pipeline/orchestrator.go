package pipeline

import (
	"bytes"
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"imgclassd/internal/classifier"
	"imgclassd/internal/format"
	"imgclassd/internal/preprocess"
	"imgclassd/pkg/types"
)

// Renderer writes a report for one classified image and returns its path.
type Renderer interface {
	Render(img image.Image, source string, preds []types.Prediction) (string, error)
}

// Orchestrator runs submissions through the pipeline. At most one submission
// is processed at a time; others wait in a bounded queue.
type Orchestrator struct {
	cfg      Config
	clf      *classifier.Classifier
	renderer Renderer
	log      zerolog.Logger

	mu         sync.RWMutex
	state      State
	lastID     string
	lastReport string

	runCh   chan struct{}
	queueCh chan struct{}

	started         time.Time
	classifications atomic.Uint64
	reports         atomic.Uint64
}

// New constructs an Orchestrator. renderer may be nil, which disables reports.
func New(clf *classifier.Classifier, renderer Renderer, cfg Config) *Orchestrator {
	cfg.applyDefaults()
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Orchestrator{
		cfg:      cfg,
		clf:      clf,
		renderer: renderer,
		log:      log,
		state:    StateIdle,
		runCh:    make(chan struct{}, 1),
		queueCh:  make(chan struct{}, cfg.MaxQueueDepth),
		started:  time.Now(),
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Ready reports whether the model has been loaded.
func (o *Orchestrator) Ready() bool { return o.clf.Loaded() }

// Warm loads the model ahead of the first submission.
func (o *Orchestrator) Warm(ctx context.Context) error {
	_, err := o.clf.Model(ctx)
	return err
}

// Submit classifies one upload. A nil or empty upload yields an Empty result
// and no error. Decode and inference failures abort the submission; a report
// failure is recorded on the Result and the classification is still returned.
func (o *Orchestrator) Submit(ctx context.Context, up *Upload, opts SubmitOptions) (*Result, error) {
	if up == nil || len(up.Data) == 0 {
		o.mu.Lock()
		if o.state != StateProcessing {
			o.state = StateIdle
		}
		o.lastReport = ""
		o.mu.Unlock()
		return &Result{Empty: true}, nil
	}
	k := opts.TopK
	if k <= 0 {
		k = o.cfg.TopK
	}
	wantReport := o.cfg.Reports
	if opts.Report != nil {
		wantReport = *opts.Report
	}

	release, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	id := uuid.NewString()
	o.setState(StateProcessing)
	o.cfg.Publisher.Publish(Event{Name: EventSubmit, ID: id, Fields: map[string]any{"source": up.Name, "bytes": len(up.Data)}})

	res, img, err := o.classify(ctx, id, up, k)
	if err != nil {
		classificationsTotal.WithLabelValues("error").Inc()
		o.cfg.Publisher.Publish(Event{Name: EventFailed, ID: id, Fields: map[string]any{"error": err.Error()}})
		o.mu.Lock()
		o.state = StateIdle
		o.lastID = id
		o.lastReport = ""
		o.mu.Unlock()
		return nil, err
	}
	classificationsTotal.WithLabelValues("ok").Inc()
	o.classifications.Add(1)
	o.cfg.Publisher.Publish(Event{Name: EventClassified, ID: id, Fields: map[string]any{"top_label": res.Predictions[0].Label}})

	if wantReport && o.renderer != nil {
		o.writeReport(id, res, img, up.Name)
	}

	o.mu.Lock()
	o.state = StateReady
	o.lastID = id
	o.lastReport = res.ReportPath
	o.mu.Unlock()
	return res, nil
}

func (o *Orchestrator) classify(ctx context.Context, id string, up *Upload, k int) (*Result, image.Image, error) {
	t0 := time.Now()
	t, img, err := preprocess.Load(bytes.NewReader(up.Data), o.cfg.Preprocess)
	stageDuration.WithLabelValues("normalize").Observe(time.Since(t0).Seconds())
	if err != nil {
		return nil, nil, err
	}

	t1 := time.Now()
	preds, err := o.clf.Classify(ctx, t, k)
	stageDuration.WithLabelValues("classify").Observe(time.Since(t1).Seconds())
	if err != nil {
		return nil, nil, err
	}
	if len(preds) == 0 {
		return nil, nil, &classifier.InferenceError{Msg: "model returned no scores"}
	}

	bars := format.Bars(preds)
	o.log.Debug().Str("submission_id", id).Str("top_label", preds[0].Label).
		Float64("top_confidence", preds[0].Confidence).Msg("classified")
	return &Result{
		ID:          id,
		Predictions: preds,
		Scores:      format.Scores(preds),
		Bars:        bars,
		HTML:        format.HTML(bars),
	}, img, nil
}

func (o *Orchestrator) writeReport(id string, res *Result, img image.Image, source string) {
	t0 := time.Now()
	path, err := o.renderer.Render(img, source, res.Predictions)
	stageDuration.WithLabelValues("report").Observe(time.Since(t0).Seconds())
	if err != nil {
		reportsTotal.WithLabelValues("error").Inc()
		res.ReportErr = err
		o.log.Warn().Err(err).Str("submission_id", id).Msg("report render failed")
		o.cfg.Publisher.Publish(Event{Name: EventReportFailed, ID: id, Fields: map[string]any{"error": err.Error()}})
		return
	}
	reportsTotal.WithLabelValues("ok").Inc()
	o.reports.Add(1)
	res.ReportPath = path
	o.cfg.Publisher.Publish(Event{Name: EventReportWritten, ID: id, Fields: map[string]any{"path": path}})
}

// Predict returns the raw score vector for one upload. Unlike Submit, a
// missing upload is an error.
func (o *Orchestrator) Predict(ctx context.Context, up *Upload) ([]float32, error) {
	if up == nil || len(up.Data) == 0 {
		return nil, ErrMissingInput
	}
	release, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	t0 := time.Now()
	t, _, err := preprocess.Load(bytes.NewReader(up.Data), o.cfg.Preprocess)
	stageDuration.WithLabelValues("normalize").Observe(time.Since(t0).Seconds())
	if err != nil {
		return nil, err
	}
	t1 := time.Now()
	scores, err := o.clf.Predict(ctx, t)
	stageDuration.WithLabelValues("classify").Observe(time.Since(t1).Seconds())
	return scores, err
}

// Clear returns to Idle and forgets the last result. The model stays loaded
// and report files on disk are left alone.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	if o.state != StateProcessing {
		o.state = StateIdle
	}
	o.lastID = ""
	o.lastReport = ""
	o.mu.Unlock()
	o.cfg.Publisher.Publish(Event{Name: EventCleared})
}

// LastReport returns the most recent report path, empty if none or cleared.
func (o *Orchestrator) LastReport() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastReport
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}
