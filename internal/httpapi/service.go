package httpapi

import (
	"context"

	"imgclassd/internal/pipeline"
	"imgclassd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Submit(ctx context.Context, up *pipeline.Upload, opts pipeline.SubmitOptions) (*pipeline.Result, error)
	Predict(ctx context.Context, up *pipeline.Upload) ([]float32, error)
	Clear()
	Status() types.StatusResponse
	Ready() bool
}
