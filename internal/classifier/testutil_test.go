package classifier

import (
	"context"
	"sync/atomic"

	"imgclassd/internal/preprocess"
)

// fakeModel is a lightweight in-memory model used for tests.
type fakeModel struct {
	shape   []int64
	labels  []string
	scores  []float32
	predErr error
	calls   atomic.Int64
	closed  atomic.Bool
}

func newFakeModel(scores ...float32) *fakeModel {
	labels := make([]string, len(scores))
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	return &fakeModel{shape: []int64{1, 2, 2, 3}, labels: labels, scores: scores}
}

func (f *fakeModel) InputShape() []int64 { return f.shape }
func (f *fakeModel) Labels() []string    { return f.labels }
func (f *fakeModel) Close() error        { f.closed.Store(true); return nil }
func (f *fakeModel) Predict(ctx context.Context, t *preprocess.Tensor) ([]float32, error) {
	f.calls.Add(1)
	if f.predErr != nil {
		return nil, f.predErr
	}
	return append([]float32(nil), f.scores...), nil
}

func tensorOf(shape ...int64) *preprocess.Tensor {
	t := &preprocess.Tensor{Shape: shape}
	t.Data = make([]float32, t.NumElements())
	return t
}
