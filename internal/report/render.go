package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"imgclassd/internal/common/fsutil"
	"imgclassd/pkg/types"
)

// maxEmbedPx bounds the longest image edge embedded in the PDF.
const maxEmbedPx = 1200

// Options configures a Renderer.
type Options struct {
	// Dir receives finished reports. Empty means the working directory.
	Dir string
	// StagingDir holds the temporary image file while drawing. Empty means
	// os.TempDir().
	StagingDir  string
	ModelID     string
	Attribution string
	// Now supplies the footer timestamp; defaults to time.Now.
	Now func() time.Time
}

// Renderer writes report PDFs.
type Renderer struct {
	opts Options
}

// New returns a Renderer with defaults applied.
func New(opts Options) *Renderer {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Renderer{opts: opts}
}

// Dir returns the directory reports are written to.
func (r *Renderer) Dir() string { return r.opts.Dir }

// Render draws the report for img and preds and writes it to
// Dir/Image_Classification_<basename>.pdf, returning that path. source is
// the uploaded file name the artifact name is derived from.
func (r *Renderer) Render(img image.Image, source string, preds []types.Prediction) (string, error) {
	path := filepath.Join(r.opts.Dir, fsutil.ReportName(source, "pdf"))
	err := fsutil.WithTempFile(r.opts.StagingDir, "imgclassd-stage-*.png", func(f *os.File) error {
		doc, err := r.draw(img, f, source, preds)
		if err != nil {
			return err
		}
		if err := writeFile(path, doc); err != nil {
			return &RenderError{Op: "write", Err: err}
		}
		return nil
	})
	if err != nil {
		if !IsRenderError(err) {
			err = &RenderError{Op: "stage", Err: err}
		}
		return "", err
	}
	return path, nil
}

// Bytes draws the report and returns the PDF without writing an artifact.
func (r *Renderer) Bytes(img image.Image, source string, preds []types.Prediction) ([]byte, error) {
	var doc []byte
	err := fsutil.WithTempFile(r.opts.StagingDir, "imgclassd-stage-*.png", func(f *os.File) error {
		var err error
		doc, err = r.draw(img, f, source, preds)
		return err
	})
	if err != nil {
		if !IsRenderError(err) {
			err = &RenderError{Op: "stage", Err: err}
		}
		return nil, err
	}
	return doc, nil
}

// draw stages img as PNG in f, lays out the page and returns the PDF bytes.
func (r *Renderer) draw(img image.Image, f *os.File, source string, preds []types.Prediction) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &RenderError{Op: "image", Err: errors.New("no image")}
	}
	b := img.Bounds()
	embed := img
	if b.Dx() > maxEmbedPx || b.Dy() > maxEmbedPx {
		embed = imaging.Fit(img, maxEmbedPx, maxEmbedPx, imaging.Lanczos)
	}
	if err := png.Encode(f, embed); err != nil {
		return nil, &RenderError{Op: "stage image", Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &RenderError{Op: "stage image", Err: err}
	}

	pdf, tr := newDocument()
	l, err := computeLayout(pdf, tr, b.Dx(), b.Dy(), source, preds)
	if err != nil {
		return nil, &RenderError{Op: "layout", Err: err}
	}
	now := r.opts.Now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(l.Title, true)
	pdf.SetCreator("imgclassd", true)
	pdf.AddPage()

	// title
	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.SetXY(marginX, l.TitleY)
	pdf.CellFormat(pageW-2*marginX, titleH, tr(l.Title), "", 1, "C", false, 0, "")
	if l.Subtitle != "" {
		pdf.SetFont(fontFamily, "", subtitleSize)
		pdf.SetX(marginX)
		pdf.CellFormat(pageW-2*marginX, subtitleH, tr(l.Subtitle), "", 1, "C", false, 0, "")
	}

	// image
	pdf.SetLineWidth(0.4)
	pdf.SetDrawColor(60, 60, 60)
	pdf.ImageOptions(f.Name(), l.Image.X, l.Image.Y, l.Image.W, l.Image.H, false,
		fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}, 0, "")
	pdf.Rect(l.Frame.X, l.Frame.Y, l.Frame.W, l.Frame.H, "D")

	// table
	pdf.SetFont(fontFamily, "B", headingSize)
	pdf.SetXY(marginX, l.HeadingY)
	pdf.CellFormat(tableW, headingH, tr(l.Heading), "", 0, "L", false, 0, "")
	pdf.Rect(l.Table.X, l.Table.Y, l.Table.W, l.Table.H, "D")
	pdf.SetFont(fontFamily, "", tableFontSize)
	for _, row := range l.Rows {
		pdf.Text(row.LabelX, row.Baseline, tr(row.Label))
		if row.Count > 0 {
			pdf.Text(row.LeaderX, row.Baseline, row.Leader)
		}
		pdf.Text(row.ValueX, row.Baseline, row.Value)
	}

	// footer
	pdf.SetFont(fontFamily, "", footerSize)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(marginX, l.FooterY)
	pdf.CellFormat(tableW/2, 5, "Generated: "+now.Format("2006-01-02 15:04:05"), "", 0, "L", false, 0, "")
	pdf.CellFormat(tableW/2, 5, tr("Model: "+r.opts.ModelID), "", 0, "R", false, 0, "")
	if r.opts.Attribution != "" {
		pdf.SetXY(marginX, l.AttributionY)
		pdf.CellFormat(tableW, 5, tr(r.opts.Attribution), "", 0, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Op: "draw", Err: err}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

// writeFile writes doc to path, removing any partial file on failure.
func writeFile(path string, doc []byte) error {
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
