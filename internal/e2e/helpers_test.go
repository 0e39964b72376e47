package e2e

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imgclassd/internal/classifier"
	"imgclassd/internal/httpapi"
	"imgclassd/internal/pipeline"
	"imgclassd/internal/preprocess"
	"imgclassd/internal/report"
)

var testPre = preprocess.Options{Width: 8, Height: 8, Mode: preprocess.ModeTF, Layout: preprocess.LayoutNCHW}

// softmaxModel emits fixed logits; the classifier applies softmax.
type softmaxModel struct {
	block chan struct{}
}

func (m *softmaxModel) InputShape() []int64 { return testPre.Shape() }
func (m *softmaxModel) Labels() []string {
	return []string{"tench", "goldfish", "great_white_shark", "tiger_shark", "hammerhead"}
}
func (m *softmaxModel) Close() error { return nil }
func (m *softmaxModel) Predict(ctx context.Context, _ *preprocess.Tensor) ([]float32, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []float32{0.5, 3.0, 1.0, -1.0, 0.0}, nil
}

type stack struct {
	srv       *httptest.Server
	orch      *pipeline.Orchestrator
	reportDir string
	events    *pipeline.MemoryPublisher
}

// newStack wires the real orchestrator, renderer and mux around m.
func newStack(t *testing.T, m classifier.Model, cfg pipeline.Config) *stack {
	t.Helper()
	dir := t.TempDir()
	clf := classifier.New(classifier.Static(m), classifier.Options{ApplySoftmax: true})
	renderer := report.New(report.Options{Dir: dir, StagingDir: t.TempDir(), ModelID: "TestNet", Attribution: "imgclassd e2e"})
	pub := pipeline.NewMemoryPublisher()
	cfg.Preprocess = testPre
	cfg.ModelID = "TestNet"
	cfg.Publisher = pub
	if cfg.TopK == 0 {
		cfg.TopK = 3
	}
	orch := pipeline.New(clf, renderer, cfg)
	httpapi.SetReportDir(dir)
	srv := httptest.NewServer(httpapi.NewMux(orch))
	t.Cleanup(func() {
		srv.Close()
		httpapi.SetReportDir("")
		_ = clf.Close()
	})
	return &stack{srv: srv, orch: orch, reportDir: dir, events: pub}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	return buf.Bytes()
}

// upload posts a multipart form; filename "" omits the file part.
func upload(t *testing.T, url, filename string, data []byte, fields map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

// uploadNoFatal is upload for use off the test goroutine; it returns the
// status code or 0 on transport failure.
func uploadNoFatal(url string, data []byte) (int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "a.jpg")
	if err != nil {
		return 0, err
	}
	fw.Write(data)
	mw.Close()
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
