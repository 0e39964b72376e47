package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// WithTempFile creates a temporary file in dir, hands it to fn and removes it
// before returning, whether fn succeeds or not. The file is closed before
// removal; fn may close it earlier.
func WithTempFile(dir, pattern string, fn func(f *os.File) error) (err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		_ = f.Close()
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("remove temp: %w", rmErr)
		}
	}()
	return fn(f)
}

const reportPrefix = "Image_Classification_"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReportName derives the artifact file name from an uploaded image name:
// Image_Classification_<basename>.<ext>. Directory components and the image
// extension are dropped; characters outside [A-Za-z0-9._-] become '_'.
func ReportName(source, ext string) string {
	base := filepath.Base(strings.ReplaceAll(source, "\\", "/"))
	base = sanitizeBase(strings.TrimSuffix(base, filepath.Ext(base)))
	if base == "" {
		base = "upload"
	}
	return reportPrefix + base + "." + strings.TrimPrefix(ext, ".")
}

// IsReportName reports whether name is a bare artifact file name of the form
// produced by ReportName with the given extension.
func IsReportName(name, ext string) bool {
	suffix := "." + strings.TrimPrefix(ext, ".")
	if !strings.HasPrefix(name, reportPrefix) || !strings.HasSuffix(name, suffix) {
		return false
	}
	mid := name[len(reportPrefix) : len(name)-len(suffix)]
	return mid != "" && mid == sanitizeBase(mid)
}

func sanitizeBase(s string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(s, "_"), "._")
}
