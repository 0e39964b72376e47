// Package format turns ranked predictions into presentation forms: a
// label-to-confidence map, bar rows, and an HTML bar fragment.
package format

import (
	"bytes"
	"html/template"
	"math"
	"strconv"

	"imgclassd/pkg/types"
)

// Scores maps each label to its confidence. When a label occurs more than
// once the first (highest ranked) entry wins.
func Scores(preds []types.Prediction) map[string]float64 {
	out := make(map[string]float64, len(preds))
	for _, p := range preds {
		if _, dup := out[p.Label]; dup {
			continue
		}
		out[p.Label] = p.Confidence
	}
	return out
}

// Percent returns confidence*100 clamped to [0,100]. NaN maps to 0.
func Percent(confidence float64) float64 {
	v := confidence * 100
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// FormatPercent renders Percent(confidence) with exactly two decimals.
func FormatPercent(confidence float64) string {
	return strconv.FormatFloat(Percent(confidence), 'f', 2, 64)
}

// Bars builds one row per prediction in ranking order.
func Bars(preds []types.Prediction) []types.BarRow {
	rows := make([]types.BarRow, len(preds))
	for i, p := range preds {
		pct := FormatPercent(p.Confidence)
		w, _ := strconv.ParseFloat(pct, 64)
		rows[i] = types.BarRow{Label: p.Label, Percent: pct, Width: w}
	}
	return rows
}

var barsTmpl = template.Must(template.New("bars").Parse(
	`<div class="predictions">{{range .}}
  <div class="prediction-row">
    <span class="label">{{.Label}}</span>
    <div class="bar"><div class="fill" style="width: {{printf "%.2f" .Width}}%"></div></div>
    <span class="value">{{.Percent}}%</span>
  </div>{{end}}
</div>`))

// HTML renders rows as an HTML fragment. Labels are escaped.
func HTML(rows []types.BarRow) template.HTML {
	var buf bytes.Buffer
	if err := barsTmpl.Execute(&buf, rows); err != nil {
		// rows are plain data; execution cannot fail short of a template bug
		panic(err)
	}
	return template.HTML(buf.String())
}
