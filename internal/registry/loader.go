package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imgclassd/internal/common/fsutil"
)

// ModelFiles locates one ONNX model and its label table on disk.
type ModelFiles struct {
	// ID is the model file name without extension.
	ID         string
	ModelPath  string
	LabelsPath string
}

// labelCandidates are tried in order next to the model; {stem} is the model
// file name without extension.
var labelCandidates = []string{
	"{stem}.labels.txt",
	"{stem}.labels.json",
	"{stem}.json",
	"labels.txt",
	"labels.json",
	"metadata.json",
}

// LoadDir scans a directory for *.onnx files, sorted by name.
// LabelsPath is filled in when a sidecar label table exists.
func LoadDir(dir string) ([]ModelFiles, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []ModelFiles
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".onnx") {
			continue
		}
		models = append(models, describe(filepath.Join(abs, e.Name())))
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ModelPath < models[j].ModelPath })
	return models, nil
}

// Resolve accepts either a model file or a directory holding exactly one
// *.onnx file and returns its files.
func Resolve(path string) (ModelFiles, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return ModelFiles{}, err
	}
	st, err := os.Stat(p)
	if err != nil {
		return ModelFiles{}, fmt.Errorf("model path: %w", err)
	}
	if !st.IsDir() {
		abs, err := filepath.Abs(p)
		if err != nil {
			return ModelFiles{}, fmt.Errorf("abs path: %w", err)
		}
		return describe(abs), nil
	}
	models, err := LoadDir(p)
	if err != nil {
		return ModelFiles{}, err
	}
	switch len(models) {
	case 0:
		return ModelFiles{}, fmt.Errorf("no *.onnx model in %s", p)
	case 1:
		return models[0], nil
	default:
		return ModelFiles{}, fmt.Errorf("%d *.onnx models in %s; point model_path at one file", len(models), p)
	}
}

func describe(modelPath string) ModelFiles {
	dir := filepath.Dir(modelPath)
	stem := strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	mf := ModelFiles{ID: stem, ModelPath: modelPath}
	for _, c := range labelCandidates {
		p := filepath.Join(dir, strings.ReplaceAll(c, "{stem}", stem))
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			mf.LabelsPath = p
			break
		}
	}
	return mf
}
