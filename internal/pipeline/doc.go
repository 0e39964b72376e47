// Package pipeline sequences one classification request end to end:
// decode and normalize the upload, classify it, format the ranked result and
// optionally render a PDF report. It is structured into small files by concern:
//
//   - orchestrator.go: Orchestrator type, Submit, Predict, Clear.
//   - config.go: Config and package defaults; New applies defaults.
//   - types.go: State, Upload, Result, SubmitOptions.
//   - errors.go: error values and helpers (ErrMissingInput, IsTooBusy).
//   - admission.go: single in-flight slot with a bounded wait queue.
//   - events.go, eventpub_*.go: lifecycle events and publishers.
//   - status_report.go: Status for /status.
//   - metrics.go: prometheus collectors.
//
// State machine: Idle -> Processing -> Ready on submit, any -> Idle on Clear.
// The classifier's model is never touched by Clear.
package pipeline
