// Package classifier wraps a loaded image-classification model.
//
// A Classifier owns exactly one Model, loaded on first use through a Loader
// and kept for the lifetime of the Classifier. Predict returns the full score
// vector; Classify reduces it to the top K labelled predictions ordered by
// descending confidence, ties broken by ascending class index.
//
// ONNXModel is the production Model backed by onnxruntime. Tests use small
// in-memory models.
package classifier
