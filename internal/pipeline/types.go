package pipeline

import (
	"html/template"

	"imgclassd/pkg/types"
)

// State is the orchestrator's lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateReady      State = "ready"
)

// Upload is one submitted image. A nil *Upload means nothing was submitted.
type Upload struct {
	// Name is the client-side file name; it determines the report name.
	Name string
	Data []byte
}

// SubmitOptions overrides per-request behavior. Zero values use the
// orchestrator defaults.
type SubmitOptions struct {
	TopK int
	// Report overrides whether a report is rendered; nil uses the default.
	Report *bool
}

// Result is the outcome of one submission.
type Result struct {
	ID string
	// Empty is set when nothing was submitted; all other fields are zero.
	Empty       bool
	Predictions []types.Prediction
	Scores      map[string]float64
	Bars        []types.BarRow
	HTML        template.HTML
	// ReportPath is set when a report was written.
	ReportPath string
	// ReportErr is set when rendering failed; the classification stands.
	ReportErr error
}
