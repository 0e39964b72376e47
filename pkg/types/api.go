package types

// RawOutputResponse is returned by POST /predict. RawOutput has a leading
// batch dimension of size one.
type RawOutputResponse struct {
	RawOutput [][]float32 `json:"raw_output"`
}

// ClassifyResponse is returned by POST /classify.
type ClassifyResponse struct {
	// Submission id.
	// example: 5f0c7b2e-8f5a-4c1e-9b7e-0d6d2b1a9c11
	ID string `json:"id" example:"5f0c7b2e-8f5a-4c1e-9b7e-0d6d2b1a9c11"`
	// Ranked predictions, highest confidence first.
	Predictions []Prediction `json:"predictions"`
	// Label to confidence mapping.
	Scores map[string]float64 `json:"scores"`
	// Visual bar rows in ranking order.
	Bars []BarRow `json:"bars"`
	// Download URL of the generated report, when one was produced.
	// example: /reports/Image_Classification_dog.pdf
	ReportURL string `json:"report_url,omitempty" example:"/reports/Image_Classification_dog.pdf"`
	// Report failure message. Classification results are still valid.
	ReportError string `json:"report_error,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: no file provided
	Error string `json:"error" example:"no file provided"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Orchestrator state: idle, processing or ready.
	// example: ready
	State string `json:"state" example:"ready"`
	// Identifier of the configured model.
	// example: MobileNetV2
	ModelID string `json:"model_id" example:"MobileNetV2"`
	// Whether the model has been loaded.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Number of classes in the loaded model's label table (0 until loaded).
	// example: 1000
	Classes int `json:"classes" example:"1000"`
	// Default number of predictions per request.
	// example: 3
	TopK int `json:"top_k" example:"3"`
	// Id of the most recent completed submission.
	LastSubmission string `json:"last_submission,omitempty"`
	// Most recent artifact path, empty when cleared.
	LastReport string `json:"last_report,omitempty"`
	// Current admission queue length.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Maximum queued requests before backpressure.
	// example: 8
	MaxQueueDepth int `json:"max_queue_depth" example:"8"`
	// Total successful classifications.
	// example: 12
	ClassificationsTotal uint64 `json:"classifications_total" example:"12"`
	// Total reports written.
	// example: 4
	ReportsTotal uint64 `json:"reports_total" example:"4"`
	// Uptime in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
