package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"imgclassd/internal/classifier"
	"imgclassd/internal/preprocess"
	"imgclassd/pkg/types"
)

var testPre = preprocess.Options{Width: 4, Height: 4, Mode: preprocess.ModeUnit, Layout: preprocess.LayoutNHWC}

type fakeModel struct {
	labels []string
	scores []float32
	block  chan struct{}
	calls  atomic.Int64
}

func (f *fakeModel) InputShape() []int64 { return testPre.Shape() }
func (f *fakeModel) Labels() []string    { return f.labels }
func (f *fakeModel) Close() error        { return nil }
func (f *fakeModel) Predict(ctx context.Context, t *preprocess.Tensor) ([]float32, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return append([]float32(nil), f.scores...), nil
}

type fakeRenderer struct {
	err    error
	calls  atomic.Int64
	source string
}

func (r *fakeRenderer) Render(img image.Image, source string, preds []types.Prediction) (string, error) {
	r.calls.Add(1)
	r.source = source
	if r.err != nil {
		return "", r.err
	}
	return "/tmp/reports/Image_Classification_" + source + ".pdf", nil
}

func newTestOrchestrator(t *testing.T, m *fakeModel, r Renderer, mutate func(*Config)) (*Orchestrator, *MemoryPublisher) {
	t.Helper()
	pub := NewMemoryPublisher()
	cfg := Config{
		ModelID:    "fake",
		TopK:       3,
		Preprocess: testPre,
		Reports:    true,
		MaxWait:    50 * time.Millisecond,
		Publisher:  pub,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	clf := classifier.New(classifier.Static(m), classifier.Options{})
	return New(clf, r, cfg), pub
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

var errRender = errors.New("disk full")
