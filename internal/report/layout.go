package report

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"imgclassd/internal/format"
	"imgclassd/pkg/types"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageW        = 210.0
	pageH        = 297.0
	marginX      = 20.0
	titleY       = 18.0
	titleH       = 12.0
	subtitleH    = 7.0
	imageBoxW    = 120.0
	imageBoxH    = 90.0
	imageBoxGap  = 8.0
	framePad     = 2.0
	headingH     = 8.0
	tableW       = pageW - 2*marginX
	tablePadX    = 4.0
	tablePadY    = 3.0
	rowPitch     = 8.0
	leaderMargin = 4.0
	footerY      = pageH - 18.0
	attributionY = pageH - 11.0

	fontFamily    = "Helvetica"
	titleSize     = 20.0
	subtitleSize  = 10.0
	headingSize   = 13.0
	tableFontSize = 11.0
	footerSize    = 8.0

	filler = "."
)

// Box is an axis-aligned rectangle.
type Box struct{ X, Y, W, H float64 }

// Row is one laid-out prediction line. Y is the top of the row cell.
type Row struct {
	Label    string
	Leader   string
	Value    string
	Y        float64
	Baseline float64
	LabelX   float64
	LabelW   float64
	LeaderX  float64
	LeaderW  float64
	ValueX   float64
	ValueW   float64
	Filler   float64
	Count    int
}

// Layout is the full page geometry for one report.
type Layout struct {
	PageW, PageH float64
	Title        string
	Subtitle     string
	TitleY       float64
	ImageBox     Box // fixed bounding box
	Image        Box // fitted, centered image
	Frame        Box // border drawn around Image
	Heading      string
	HeadingY     float64
	Table        Box // border rectangle enclosing all rows
	TextLeft     float64
	TextRight    float64
	Rows         []Row
	FooterY      float64
	AttributionY float64
}

// LeaderCount returns how many filler characters fit between a label and a
// value inside width, keeping margin free. It is never negative.
func LeaderCount(labelW, valueW, fillerW, width, margin float64) int {
	if fillerW <= 0 {
		return 0
	}
	remaining := width - labelW - valueW - margin
	if remaining <= 0 {
		return 0
	}
	return int(math.Floor(remaining / fillerW))
}

// Capitalize turns a raw class label into display text: underscores become
// spaces and the first letter is upper-cased.
func Capitalize(label string) string {
	s := strings.TrimSpace(strings.ReplaceAll(label, "_", " "))
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// maxRows is how many rows fit between the table top and the footer.
func maxRows(tableY float64) int {
	return int(math.Floor((footerY - 4 - tableY - 2*tablePadY) / rowPitch))
}

// computeLayout measures text on pdf, which must use the same translator
// the drawing code uses. imgW and imgH are the source pixel dimensions.
func computeLayout(pdf *fpdf.Fpdf, tr func(string) string, imgW, imgH int, source string, preds []types.Prediction) (Layout, error) {
	if imgW <= 0 || imgH <= 0 {
		return Layout{}, fmt.Errorf("empty image")
	}
	l := Layout{
		PageW:        pageW,
		PageH:        pageH,
		Title:        "Image Classification Report",
		TitleY:       titleY,
		Heading:      fmt.Sprintf("Top %d Predictions", len(preds)),
		FooterY:      footerY,
		AttributionY: attributionY,
	}
	if source != "" {
		l.Subtitle = "Source: " + source
	}

	boxY := titleY + titleH + subtitleH + 4
	l.ImageBox = Box{X: (pageW - imageBoxW) / 2, Y: boxY, W: imageBoxW, H: imageBoxH}
	scale := math.Min(imageBoxW/float64(imgW), imageBoxH/float64(imgH))
	w, h := float64(imgW)*scale, float64(imgH)*scale
	l.Image = Box{X: (pageW - w) / 2, Y: boxY + (imageBoxH-h)/2, W: w, H: h}
	l.Frame = Box{X: l.Image.X - framePad, Y: l.Image.Y - framePad, W: w + 2*framePad, H: h + 2*framePad}

	l.HeadingY = boxY + imageBoxH + framePad + imageBoxGap
	tableY := l.HeadingY + headingH
	if len(preds) > maxRows(tableY) {
		return Layout{}, fmt.Errorf("%d predictions do not fit on one page (max %d)", len(preds), maxRows(tableY))
	}
	l.Table = Box{X: marginX, Y: tableY, W: tableW, H: float64(len(preds))*rowPitch + 2*tablePadY}
	l.TextLeft = marginX + tablePadX
	l.TextRight = marginX + tableW - tablePadX
	inner := l.TextRight - l.TextLeft

	pdf.SetFont(fontFamily, "", tableFontSize)
	fillerW := pdf.GetStringWidth(filler)
	// centre the cap height of the table font in the row
	baselineOffset := (rowPitch + 0.7*pdf.PointConvert(tableFontSize)) / 2
	l.Rows = make([]Row, len(preds))
	for i, p := range preds {
		label := Capitalize(p.Label)
		value := format.FormatPercent(p.Confidence) + "%"
		labelW := pdf.GetStringWidth(tr(label))
		valueW := pdf.GetStringWidth(value)
		n := LeaderCount(labelW, valueW, fillerW, inner, leaderMargin)
		leader := strings.Repeat(filler, n)
		leaderW := pdf.GetStringWidth(leader)
		y := tableY + tablePadY + float64(i)*rowPitch
		l.Rows[i] = Row{
			Label:    label,
			Leader:   leader,
			Value:    value,
			Y:        y,
			Baseline: y + baselineOffset,
			LabelX:   l.TextLeft,
			LabelW:   labelW,
			LeaderX:  l.TextLeft + labelW + leaderMargin/2,
			LeaderW:  leaderW,
			ValueX:   l.TextRight - valueW,
			ValueW:   valueW,
			Filler:   fillerW,
			Count:    n,
		}
	}
	return l, nil
}

// newDocument returns an A4 document and the cp1252 translator used for
// core-font text.
func newDocument() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, titleY, marginX)
	pdf.SetAutoPageBreak(false, 0)
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

// ComputeLayout returns the page geometry for an image of imgW x imgH pixels.
func ComputeLayout(imgW, imgH int, source string, preds []types.Prediction) (Layout, error) {
	pdf, tr := newDocument()
	return computeLayout(pdf, tr, imgW, imgH, source, preds)
}
