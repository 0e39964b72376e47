// Package preprocess turns uploaded images into fixed-shape float32 tensors
// for an image classifier.
//
// Decode accepts png, jpeg, gif, webp, bmp and tiff. Normalize forces the
// image to 3-channel RGB (alpha is discarded, not composited), resizes it to
// Options.Width x Options.Height with a Catmull-Rom filter, scales pixel values
// according to Options.Mode and lays them out with a leading batch dimension
// of one, in NHWC or NCHW order.
package preprocess
