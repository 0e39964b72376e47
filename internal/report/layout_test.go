package report

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"imgclassd/pkg/types"
)

func samplePreds() []types.Prediction {
	return []types.Prediction{
		{Label: "golden_retriever", Confidence: 0.8731, ClassIndex: 207},
		{Label: "Labrador_retriever", Confidence: 0.0912, ClassIndex: 208},
		{Label: "tennis_ball", Confidence: 0.0113, ClassIndex: 852},
	}
}

func TestLeaderCount(t *testing.T) {
	if n := LeaderCount(10, 10, 1, 100, 4); n != 76 {
		t.Fatalf("n=%d", n)
	}
	if n := LeaderCount(60, 50, 1, 100, 4); n != 0 {
		t.Fatalf("overflow should clamp to 0, got %d", n)
	}
	if n := LeaderCount(10, 10, 0, 100, 4); n != 0 {
		t.Fatalf("zero filler width should give 0, got %d", n)
	}
	if n := LeaderCount(10, 10, 3, 100, 4); n != 25 {
		t.Fatalf("floor expected 25, got %d", n)
	}
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"golden_retriever": "Golden retriever",
		"Labrador":         "Labrador",
		"":                 "",
		"éclair":           "Éclair",
		"_x_":              "X",
	}
	for in, want := range cases {
		if got := Capitalize(in); got != want {
			t.Fatalf("Capitalize(%q)=%q want %q", in, got, want)
		}
	}
}

func TestComputeLayout_LeaderFillsRow(t *testing.T) {
	preds := append(samplePreds(), types.Prediction{Label: strings.Repeat("very_long_label_", 12), Confidence: 0.001})
	l, err := ComputeLayout(640, 480, "dog.jpg", preds)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	inner := l.TextRight - l.TextLeft
	for i, r := range l.Rows {
		if r.Count < 0 {
			t.Fatalf("row %d negative count", i)
		}
		if math.Abs(r.ValueX+r.ValueW-l.TextRight) > 1e-9 {
			t.Fatalf("row %d value right edge %v != %v", i, r.ValueX+r.ValueW, l.TextRight)
		}
		if r.LabelX != l.TextLeft {
			t.Fatalf("row %d label not at left edge", i)
		}
		if r.Count == 0 {
			continue
		}
		total := r.LabelW + r.LeaderW + r.ValueW
		target := inner - leaderMargin
		if total > target+1e-6 || target-total >= r.Filler+1e-6 {
			t.Fatalf("row %d: label+leader+value=%v, target=%v, filler=%v", i, total, target, r.Filler)
		}
		if r.Leader != strings.Repeat(".", r.Count) {
			t.Fatalf("row %d leader mismatch", i)
		}
	}
	if last := l.Rows[len(l.Rows)-1]; last.Count != 0 {
		t.Fatalf("overlong label should clamp to 0 filler, got %d", last.Count)
	}
}

func TestComputeLayout_TableEnclosesRows(t *testing.T) {
	l, err := ComputeLayout(100, 100, "", samplePreds())
	if err != nil {
		t.Fatal(err)
	}
	wantH := float64(len(l.Rows))*rowPitch + 2*tablePadY
	if l.Table.H != wantH {
		t.Fatalf("table height %v want %v", l.Table.H, wantH)
	}
	first, last := l.Rows[0], l.Rows[len(l.Rows)-1]
	if first.Y != l.Table.Y+tablePadY || last.Y+rowPitch != l.Table.Y+l.Table.H-tablePadY {
		t.Fatalf("rows not enclosed: first=%v last=%v table=%+v", first.Y, last.Y, l.Table)
	}
	if l.Subtitle != "" {
		t.Fatalf("no subtitle expected without source")
	}
}

func TestComputeLayout_ImageFittedAndCentered(t *testing.T) {
	for _, dim := range [][2]int{{4000, 1000}, {300, 3000}, {120, 90}, {1, 1}} {
		l, err := ComputeLayout(dim[0], dim[1], "x.png", samplePreds())
		if err != nil {
			t.Fatal(err)
		}
		im := l.Image
		if im.W > imageBoxW+1e-9 || im.H > imageBoxH+1e-9 {
			t.Fatalf("%v: image %+v exceeds box", dim, im)
		}
		if math.Abs(im.X+im.W/2-pageW/2) > 1e-9 {
			t.Fatalf("%v: image not centered: %+v", dim, im)
		}
		if math.Abs(im.W/im.H-float64(dim[0])/float64(dim[1])) > 1e-6 {
			t.Fatalf("%v: aspect ratio changed", dim)
		}
		if l.Frame.X >= im.X || l.Frame.X+l.Frame.W <= im.X+im.W {
			t.Fatalf("%v: frame does not surround image", dim)
		}
	}
}

func TestComputeLayout_Idempotent(t *testing.T) {
	a, err := ComputeLayout(800, 600, "cat.png", samplePreds())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := ComputeLayout(800, 600, "cat.png", samplePreds())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("layouts differ:\n%+v\n%+v", a, b)
	}
}

func TestComputeLayout_Errors(t *testing.T) {
	if _, err := ComputeLayout(0, 10, "", samplePreds()); err == nil {
		t.Fatalf("expected empty image error")
	}
	many := make([]types.Prediction, 40)
	if _, err := ComputeLayout(10, 10, "", many); err == nil {
		t.Fatalf("expected overflow error")
	}
}
