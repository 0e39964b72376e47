package types

// Prediction is one ranked (label, confidence) pair.
type Prediction struct {
	// Human-readable class label.
	// example: golden_retriever
	Label string `json:"label" example:"golden_retriever"`
	// Model confidence in [0,1].
	// example: 0.8731
	Confidence float64 `json:"confidence" example:"0.8731"`
	// Index of the class in the model's label table.
	// example: 207
	ClassIndex int `json:"class_index" example:"207"`
}

// BarRow describes one row of the visual bar representation.
type BarRow struct {
	// Label text as displayed.
	// example: golden_retriever
	Label string `json:"label" example:"golden_retriever"`
	// Confidence as a percentage with exactly two decimals.
	// example: 87.31
	Percent string `json:"percent" example:"87.31"`
	// Bar fill width in percent of the full bar, clamped to [0,100].
	// example: 87.31
	Width float64 `json:"width" example:"87.31"`
}
