package classifier

import (
	"context"

	"imgclassd/internal/preprocess"
)

// Model is a loaded classifier runtime. Predict must be safe for concurrent use.
type Model interface {
	// InputShape is the exact tensor shape Predict accepts.
	InputShape() []int64
	// Labels maps class index to a human-readable name.
	Labels() []string
	// Predict runs one forward pass and returns one score per class.
	Predict(ctx context.Context, t *preprocess.Tensor) ([]float32, error)
	// Close releases runtime resources.
	Close() error
}

// Loader constructs the Model. It is called until it first succeeds.
type Loader func(ctx context.Context) (Model, error)

// Static returns a Loader that always yields m.
func Static(m Model) Loader {
	return func(context.Context) (Model, error) { return m, nil }
}
