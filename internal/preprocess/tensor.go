package preprocess

import "fmt"

// Layout is the axis order of an image tensor.
type Layout string

const (
	LayoutNHWC Layout = "NHWC"
	LayoutNCHW Layout = "NCHW"
)

// ParseLayout maps a config string to a Layout. Empty means NHWC.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "NHWC", "nhwc":
		return LayoutNHWC, nil
	case "NCHW", "nchw":
		return LayoutNCHW, nil
	default:
		return "", fmt.Errorf("unknown layout %q", s)
	}
}

// Tensor is a dense float32 array with an explicit shape.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NumElements returns the product of the shape dimensions.
func (t *Tensor) NumElements() int64 {
	n := int64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// SameShape reports whether t has exactly the given shape.
func (t *Tensor) SameShape(shape []int64) bool {
	if len(t.Shape) != len(shape) {
		return false
	}
	for i := range shape {
		if t.Shape[i] != shape[i] {
			return false
		}
	}
	return true
}
