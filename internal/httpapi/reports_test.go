package httpapi

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func withReportDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetReportDir(dir)
	t.Cleanup(func() { SetReportDir("") })
	return dir
}

func TestDownloadReport(t *testing.T) {
	dir := withReportDir(t)
	name := "Image_Classification_dog.pdf"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.3 test"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/"+name, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type=%q", ct)
	}
	if w.Body.String() != "%PDF-1.3 test" {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestDownloadReport_RejectsOtherNames(t *testing.T) {
	dir := withReportDir(t)
	_ = os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o644)
	r := NewMux(&mockService{})
	for _, name := range []string{"secret.txt", "Image_Classification_missing.pdf", "Image_Classification_..pdf"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/"+name, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status=%d", name, w.Code)
		}
	}
}

func TestDeleteReport(t *testing.T) {
	dir := withReportDir(t)
	name := "Image_Classification_cat.pdf"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/reports/"+name, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("report still present: %v", err)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/reports/"+name, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", w.Code)
	}
}
