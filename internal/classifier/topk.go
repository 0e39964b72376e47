package classifier

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"imgclassd/pkg/types"
)

// TopK returns the k highest scores as labelled predictions ordered by
// descending confidence, ties broken by ascending class index. It returns
// fewer than k only when there are fewer than k scores. NaN scores rank last.
func TopK(scores []float32, labels []string, k int) []types.Prediction {
	if k <= 0 || len(scores) == 0 {
		return []types.Prediction{}
	}
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		sa, sb := rankValue(scores[a]), rankValue(scores[b])
		if sa != sb {
			return cmp.Compare(sb, sa)
		}
		return cmp.Compare(a, b)
	})
	if k > len(idx) {
		k = len(idx)
	}
	out := make([]types.Prediction, k)
	for i, ci := range idx[:k] {
		out[i] = types.Prediction{
			Label:      labelFor(labels, ci),
			Confidence: float64(scores[ci]),
			ClassIndex: ci,
		}
	}
	return out
}

func rankValue(v float32) float64 {
	if math.IsNaN(float64(v)) {
		return math.Inf(-1)
	}
	return float64(v)
}

func labelFor(labels []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return "class_" + strconv.Itoa(i)
}

// Softmax converts logits into probabilities in place and returns them.
func Softmax(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}
	maxV := v[0]
	for _, x := range v[1:] {
		if x > maxV {
			maxV = x
		}
	}
	var sum float64
	for i, x := range v {
		e := math.Exp(float64(x - maxV))
		v[i] = float32(e)
		sum += e
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / sum)
	}
	return v
}
