package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imgclassd/internal/classifier"
	"imgclassd/internal/config"
	"imgclassd/internal/preprocess"
)

type fakeModel struct {
	shape  []int64
	labels []string
	scores []float32
}

func (f *fakeModel) InputShape() []int64 { return f.shape }
func (f *fakeModel) Labels() []string    { return f.labels }
func (f *fakeModel) Close() error        { return nil }
func (f *fakeModel) Predict(ctx context.Context, t *preprocess.Tensor) ([]float32, error) {
	return append([]float32(nil), f.scores...), nil
}

// withFakeLoader replaces the ONNX loader with an in-memory model.
func withFakeLoader(t *testing.T) {
	t.Helper()
	old := newLoader
	newLoader = func(cfg config.Config, pre preprocess.Options) classifier.Loader {
		return classifier.Static(&fakeModel{
			shape:  pre.Shape(),
			labels: []string{"tabby_cat", "golden_retriever", "goldfish", "zebra"},
			scores: []float32{0.05, 0.7, 0.2, 0.05},
		})
	}
	t.Cleanup(func() { newLoader = old })
}

// fixture writes a small PNG and a YAML config into a temp dir.
func fixture(t *testing.T) (dir, cfgPath, imgPath string) {
	t.Helper()
	dir = t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 15), G: 120, B: uint8(y * 20), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	imgPath = filepath.Join(dir, "my dog.png")
	if err := os.WriteFile(imgPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath = filepath.Join(dir, "imgclassd.yaml")
	yml := "image_size: 8\npreprocess: unit\ntop_k: 3\nreport_dir: " + filepath.Join(dir, "reports") + "\nmodel_id: FakeNet\nlog_level: error\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "reports"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath, imgPath
}
