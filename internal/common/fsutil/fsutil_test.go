package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	origHome, hadHome := os.LookupEnv("HOME")
	origUserProfile, hadUserProfile := os.LookupEnv("USERPROFILE")
	t.Cleanup(func() {
		if hadHome {
			_ = os.Setenv("HOME", origHome)
		} else {
			_ = os.Unsetenv("HOME")
		}
		if hadUserProfile {
			_ = os.Setenv("USERPROFILE", origUserProfile)
		} else {
			_ = os.Unsetenv("USERPROFILE")
		}
	})

	home := t.TempDir()
	_ = os.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		_ = os.Setenv("USERPROFILE", home)
	}
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	p, err := ExpandHome("~")
	if err != nil || p != home {
		t.Fatalf("expected %q, got %q err=%v", home, p, err)
	}
	exp, err := ExpandHome("~/models")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if filepath.Base(exp) != "models" {
		t.Fatalf("unexpected expanded path: %q", exp)
	}
}

func TestWithTempFile_RemovedOnSuccess(t *testing.T) {
	dir := t.TempDir()
	var staged string
	err := WithTempFile(dir, "stage-*.png", func(f *os.File) error {
		staged = f.Name()
		_, err := f.WriteString("x")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if PathExists(staged) {
		t.Fatalf("temp file %s still exists", staged)
	}
}

func TestWithTempFile_RemovedOnFailure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	var staged string
	err := WithTempFile(dir, "stage-*", func(f *os.File) error {
		staged = f.Name()
		_ = f.Close()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if PathExists(staged) {
		t.Fatalf("temp file %s still exists", staged)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("dir not empty: %d entries", len(entries))
	}
}

func TestReportName(t *testing.T) {
	cases := map[string]string{
		"dog.jpg":              "Image_Classification_dog.pdf",
		"/tmp/up/cat.photo.png": "Image_Classification_cat.photo.pdf",
		`C:\pics\bird.jpeg`:    "Image_Classification_bird.pdf",
		"my pet (1).webp":      "Image_Classification_my_pet_1.pdf",
		"":                     "Image_Classification_upload.pdf",
		"../..":                "Image_Classification_upload.pdf",
	}
	for in, want := range cases {
		if got := ReportName(in, "pdf"); got != want {
			t.Fatalf("ReportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsReportName(t *testing.T) {
	if !IsReportName("Image_Classification_dog.pdf", "pdf") {
		t.Fatalf("expected valid name")
	}
	for _, bad := range []string{"../Image_Classification_dog.pdf", "Image_Classification_dog.png", "other.pdf", "Image_Classification_a b.pdf"} {
		if IsReportName(bad, ".pdf") {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
