// Package report renders a single-page PDF summarising one classification:
// a centered title, the source image fitted into a fixed box with a border,
// a bordered dotted-leader table of predictions and a footer carrying the
// generation time, the model identifier and an attribution line.
//
// Layout is computed separately from drawing so that identical inputs always
// produce identical geometry. Text is measured with the same fonts used to
// draw it.
package report
