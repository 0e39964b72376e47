package preprocess

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Mode selects how 8-bit channel values are mapped to floats.
type Mode string

const (
	// ModeUnit maps [0,255] to [0,1].
	ModeUnit Mode = "unit"
	// ModeTF maps [0,255] to [-1,1] (MobileNet/Inception family).
	ModeTF Mode = "tf"
	// ModeTorch maps to [0,1] then subtracts the ImageNet mean and divides
	// by its standard deviation per channel.
	ModeTorch Mode = "torch"
)

var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// DefaultMaxPixels caps the decoded size of an upload (50 MP).
const DefaultMaxPixels = 50_000_000

// Options configures Normalize.
type Options struct {
	Width  int
	Height int
	Mode   Mode
	Layout Layout
	// MaxPixels rejects images whose width*height exceeds it before the
	// pixel data is decoded. Zero disables the check.
	MaxPixels int
}

// DefaultOptions returns 224x224, tf scaling, NHWC, capped at DefaultMaxPixels.
func DefaultOptions() Options {
	return Options{Width: 224, Height: 224, Mode: ModeTF, Layout: LayoutNHWC, MaxPixels: DefaultMaxPixels}
}

// Shape returns the tensor shape Normalize produces for these options.
func (o Options) Shape() []int64 {
	if o.Layout == LayoutNCHW {
		return []int64{1, 3, int64(o.Height), int64(o.Width)}
	}
	return []int64{1, int64(o.Height), int64(o.Width), 3}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid target size %dx%d", o.Width, o.Height)
	}
	switch o.Mode {
	case ModeUnit, ModeTF, ModeTorch:
	default:
		return fmt.Errorf("unknown mode %q", o.Mode)
	}
	switch o.Layout {
	case LayoutNHWC, LayoutNCHW:
	default:
		return fmt.Errorf("unknown layout %q", o.Layout)
	}
	if o.MaxPixels < 0 {
		return fmt.Errorf("invalid max pixels %d", o.MaxPixels)
	}
	return nil
}

// Decode reads an image from r. Any failure is returned as *DecodeError.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	return img, format, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(b []byte) (image.Image, string, error) {
	if len(b) == 0 {
		return nil, "", &DecodeError{Err: fmt.Errorf("empty input")}
	}
	return Decode(bytes.NewReader(b))
}

// Normalize converts img into a tensor of shape opts.Shape().
func Normalize(img image.Image, opts Options) (*Tensor, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, &DecodeError{Err: fmt.Errorf("empty image")}
	}
	resized := imaging.Resize(toRGB(img), opts.Width, opts.Height, imaging.CatmullRom)

	w, h := opts.Width, opts.Height
	plane := w * h
	data := make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+3]
			for c := 0; c < 3; c++ {
				v := scale(px[c], c, opts.Mode)
				if opts.Layout == LayoutNCHW {
					data[c*plane+y*w+x] = v
				} else {
					data[(y*w+x)*3+c] = v
				}
			}
		}
	}
	return &Tensor{Shape: opts.Shape(), Data: data}, nil
}

// DecodeLimited decodes b after checking its header dimensions against
// maxPixels (zero means unlimited).
func DecodeLimited(b []byte, maxPixels int) (image.Image, string, error) {
	if len(b) == 0 {
		return nil, "", &DecodeError{Err: fmt.Errorf("empty input")}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", &DecodeError{Err: fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", &DecodeError{Err: fmt.Errorf("image %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxPixels)}
	}
	return Decode(bytes.NewReader(b))
}

// Load decodes r and normalizes the result. The input is buffered so the
// dimensions can be checked against opts.MaxPixels first.
func Load(r io.Reader, opts Options) (*Tensor, image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, &DecodeError{Err: err}
	}
	img, _, err := DecodeLimited(b, opts.MaxPixels)
	if err != nil {
		return nil, nil, err
	}
	t, err := Normalize(img, opts)
	if err != nil {
		return nil, nil, err
	}
	return t, img, nil
}

// toRGB copies img into an opaque NRGBA buffer. Color channels are kept as
// stored; alpha is forced to 255 so resampling does not weight by it.
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

func scale(v uint8, channel int, mode Mode) float32 {
	switch mode {
	case ModeTF:
		return float32(v)/127.5 - 1
	case ModeTorch:
		return (float32(v)/255 - imagenetMean[channel]) / imagenetStd[channel]
	default:
		return float32(v) / 255
	}
}
