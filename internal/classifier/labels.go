package classifier

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Metadata describes a model's tensors and label table. It is read from a
// JSON file next to the model.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

const maxClassIndex = 1 << 20

// CheckInput compares the tensor shape the preprocessor produces with the
// metadata's input_shape and image_size, and the output_shape class count
// with the label table. Dynamic (<= 0) metadata dims match any size.
func (md Metadata) CheckInput(shape []int64) error {
	if len(md.InputShape) > 0 && !shapeCompatible(md.InputShape, shape) {
		return &InferenceError{Msg: fmt.Sprintf("preprocess shape %v does not match metadata input_shape %v", shape, md.InputShape)}
	}
	if md.ImageSize > 0 {
		h, w, ok := spatialDims(shape)
		if !ok || h != int64(md.ImageSize) || w != int64(md.ImageSize) {
			return &InferenceError{Msg: fmt.Sprintf("preprocess shape %v does not match metadata image_size %d", shape, md.ImageSize)}
		}
	}
	if n := len(md.OutputShape); n > 0 && len(md.Classes) > 0 {
		if last := md.OutputShape[n-1]; last > 0 && last != int64(len(md.Classes)) {
			return &InferenceError{Msg: fmt.Sprintf("metadata output_shape %v does not match %d labels", md.OutputShape, len(md.Classes))}
		}
	}
	return nil
}

func shapeCompatible(want, got []int64) bool {
	if len(want) != len(got) {
		return false
	}
	for i, d := range want {
		if d > 0 && d != got[i] {
			return false
		}
	}
	return true
}

// spatialDims returns height and width of a 4-d image tensor in either
// NHWC or NCHW layout, recognised by where the 3 channels sit.
func spatialDims(shape []int64) (h, w int64, ok bool) {
	if len(shape) != 4 {
		return 0, 0, false
	}
	switch {
	case shape[3] == 3:
		return shape[1], shape[2], true
	case shape[1] == 3:
		return shape[2], shape[3], true
	}
	return 0, 0, false
}

// LoadLabels reads a label table. Supported formats:
//
//   - .json with a "classes" array (plus optional shapes): model metadata
//   - .json object {"0": ["n01440764", "tench"], ...}: Keras class index
//   - anything else: plain text, one label per line
func LoadLabels(path string) (Metadata, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read labels: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSONLabels(b)
	}
	return Metadata{Classes: parseTextLabels(b)}, nil
}

func parseTextLabels(b []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		out = append(out, strings.TrimSpace(sc.Text()))
	}
	// trailing blank lines are not classes
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func parseJSONLabels(b []byte) (Metadata, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return Metadata{}, fmt.Errorf("parse labels: %w", err)
	}
	if _, ok := probe["classes"]; ok {
		var md Metadata
		if err := json.Unmarshal(b, &md); err != nil {
			return Metadata{}, fmt.Errorf("parse metadata: %w", err)
		}
		return md, nil
	}
	// Keras imagenet_class_index.json
	var index map[string][]string
	if err := json.Unmarshal(b, &index); err != nil {
		return Metadata{}, fmt.Errorf("parse class index: %w", err)
	}
	maxIdx := -1
	parsed := make(map[int]string, len(index))
	for k, entry := range index {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return Metadata{}, fmt.Errorf("class index key %q is not a non-negative integer", k)
		}
		if n > maxClassIndex {
			return Metadata{}, fmt.Errorf("class index %d exceeds limit %d", n, maxClassIndex)
		}
		if len(entry) > 0 {
			parsed[n] = entry[len(entry)-1]
		}
		maxIdx = max(maxIdx, n)
	}
	classes := make([]string, maxIdx+1)
	for n, name := range parsed {
		classes[n] = name
	}
	return Metadata{Classes: classes}, nil
}
