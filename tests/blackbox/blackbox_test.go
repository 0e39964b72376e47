package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("blackbox tests build the binary; skipped in -short mode")
	}
	root := projectRootFromThisFile(t)
	binPath := filepath.Join(t.TempDir(), "imgclassd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/imgclassd")
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

type serverProc struct {
	cmd  *exec.Cmd
	base string
}

// startServer runs `imgclassd serve` and waits for /healthz.
func startServer(t *testing.T, bin string, args ...string) *serverProc {
	t.Helper()
	port := findFreePort(t)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	full := append([]string{"serve", "--addr", fmt.Sprintf("127.0.0.1:%d", port), "--log-level", "error"}, args...)
	cmd := exec.Command(bin, full...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill(); _ = cmd.Wait() })
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return &serverProc{cmd: cmd, base: base}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postFile(t *testing.T, url, filename string, data []byte) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, _ := mw.CreateFormFile("file", filename)
		fw.Write(data)
	}
	mw.Close()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

// TestBlackbox_NoModel runs the binary without a usable model: the service
// stays up, reports not ready and answers inference with 503.
func TestBlackbox_NoModel(t *testing.T) {
	bin := buildBinary(t)
	sp := startServer(t, bin, "--model", filepath.Join(t.TempDir(), "missing.onnx"))

	resp, body := get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, sp.base+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "AI Object Classifier") {
		t.Fatalf("/ %d", resp.StatusCode)
	}

	resp, body = postFile(t, sp.base+"/predict", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("/predict without file %d %s", resp.StatusCode, body)
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error != "no file provided" {
		t.Fatalf("/predict error body %s", body)
	}

	var img bytes.Buffer
	_ = png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	resp, body = postFile(t, sp.base+"/predict", "a.png", img.Bytes())
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/predict without model %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d", resp.StatusCode)
	}
	var st struct {
		State       string `json:"state"`
		ModelLoaded bool   `json:"model_loaded"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v", err)
	}
	if st.State != "idle" || st.ModelLoaded {
		t.Fatalf("unexpected status %s", body)
	}

	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK || !bytes.Contains(body, []byte("imgclassd_http_requests_total")) {
		t.Fatalf("/metrics %d", resp.StatusCode)
	}
}

func TestBlackbox_ClassifyCLI_MissingFile(t *testing.T) {
	bin := buildBinary(t)
	cmd := exec.Command(bin, "classify", filepath.Join(t.TempDir(), "nope.jpg"))
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected non-zero exit, output=%s", out)
	}
	if !strings.Contains(string(out), "imgclassd:") {
		t.Fatalf("unexpected output %s", out)
	}
}
