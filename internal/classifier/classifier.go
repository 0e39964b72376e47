package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"imgclassd/internal/preprocess"
	"imgclassd/pkg/types"
)

// Options configures a Classifier.
type Options struct {
	// ApplySoftmax converts model logits to probabilities before ranking.
	ApplySoftmax bool
}

// Classifier holds the single lazily-loaded Model.
type Classifier struct {
	load Loader
	opts Options

	mu    sync.Mutex // serializes loading
	model atomic.Pointer[modelHolder]
	loads atomic.Uint64
}

type modelHolder struct{ m Model }

// New returns a Classifier that loads its model through load on first use.
func New(load Loader, opts Options) *Classifier {
	return &Classifier{load: load, opts: opts}
}

// Model returns the loaded model, loading it if needed. Concurrent first
// callers block until one load attempt finishes; a successful load happens
// at most once. A failed load is reported and retried on the next call.
func (c *Classifier) Model(ctx context.Context) (Model, error) {
	if h := c.model.Load(); h != nil {
		return h.m, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if h := c.model.Load(); h != nil {
		return h.m, nil
	}
	if c.load == nil {
		return nil, modelUnavailableError{err: errors.New("no model loader configured")}
	}
	m, err := c.load(ctx)
	if err != nil {
		return nil, modelUnavailableError{err: err}
	}
	if m == nil {
		return nil, modelUnavailableError{err: errors.New("loader returned nil model")}
	}
	c.loads.Add(1)
	c.model.Store(&modelHolder{m: m})
	return m, nil
}

// Loaded reports whether the model has been loaded.
func (c *Classifier) Loaded() bool { return c.model.Load() != nil }

// Loads returns how many times the loader succeeded (0 or 1).
func (c *Classifier) Loads() uint64 { return c.loads.Load() }

// NumClasses returns the size of the loaded model's label table, 0 when not loaded.
func (c *Classifier) NumClasses() int {
	if h := c.model.Load(); h != nil {
		return len(h.m.Labels())
	}
	return 0
}

// InputShape returns the loaded model's input shape, nil when not loaded.
func (c *Classifier) InputShape() []int64 {
	if h := c.model.Load(); h != nil {
		return h.m.InputShape()
	}
	return nil
}

// Predict runs inference on t and returns one score per class.
func (c *Classifier) Predict(ctx context.Context, t *preprocess.Tensor) ([]float32, error) {
	m, err := c.Model(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &InferenceError{Msg: "nil tensor"}
	}
	if want := m.InputShape(); !t.SameShape(want) {
		return nil, shapeMismatch(t.Shape, want)
	}
	if int64(len(t.Data)) != t.NumElements() {
		return nil, &InferenceError{Msg: fmt.Sprintf("tensor has %d values, shape %v needs %d", len(t.Data), t.Shape, t.NumElements())}
	}
	scores, err := m.Predict(ctx, t)
	if err != nil {
		if IsInferenceError(err) {
			return nil, err
		}
		return nil, &InferenceError{Msg: "predict", Err: err}
	}
	out := make([]float32, len(scores))
	copy(out, scores)
	if c.opts.ApplySoftmax {
		Softmax(out)
	}
	return out, nil
}

// Classify runs inference and returns the top k labelled predictions.
func (c *Classifier) Classify(ctx context.Context, t *preprocess.Tensor, k int) ([]types.Prediction, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top k must be > 0 (got %d)", k)
	}
	scores, err := c.Predict(ctx, t)
	if err != nil {
		return nil, err
	}
	m, _ := c.Model(ctx)
	return TopK(scores, m.Labels(), k), nil
}

// Close releases the model if it was loaded.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.model.Swap(nil)
	if h == nil {
		return nil
	}
	return h.m.Close()
}
