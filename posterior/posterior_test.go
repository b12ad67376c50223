package posterior

import (
	"math"
	"testing"

	"bitbucket.org/rmaillard/gofit/trace"
)

const tiny = 1e-12

func TestWindowValidation(tst *testing.T) {
	tr := trace.New([]float64{1, 2})
	if _, err := Summarize(tr, 0); err == nil {
		tst.Error("Expected an error for window 0")
	}
	if _, err := Summarize(tr, -5); err == nil {
		tst.Error("Expected an error for a negative window")
	}
}

func TestWindowClamp(tst *testing.T) {
	tr := trace.New([]float64{1, 2})
	tr.Append([]float64{1, 2}, []float64{0.5, 0.5}, 0, 0, 0, 1)
	tr.Append([]float64{1, 2}, []float64{0.5, 0.5}, 0, 0, 0, 1)

	s, err := Summarize(tr, 1000)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if s.Window != 3 {
		tst.Error("Expected window 3, got", s.Window)
	}

	s, err = Summarize(tr, 2)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if s.Window != 2 {
		tst.Error("Expected window 2, got", s.Window)
	}
}

// A zero-iteration run summarizes from the single prior draw: the
// spread statistics degenerate to a point.
func TestSingleDraw(tst *testing.T) {
	tr := trace.New([]float64{1, 100})
	s, err := Summarize(tr, 1000)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if s.Window != 1 {
		tst.Error("Expected window 1, got", s.Window)
	}

	// geometric mean 10, so centered log10 values are -1 and 1
	for j, ref := range []float64{-1, 1} {
		it := s.Items[j]
		if it.SD != 0 {
			tst.Error("Expected SD 0, got", it.SD)
		}
		if math.Abs(it.P5-ref) > tiny || math.Abs(it.P95-ref) > tiny {
			tst.Error("Expected degenerate interval at ", ref, ", got", it.P5, it.P95)
		}
	}
	if s.Items[0].Median != 1 || s.Items[1].Median != 100 {
		tst.Error("Expected raw medians 1 and 100, got",
			s.Items[0].Median, s.Items[1].Median)
	}
}

func TestConstantDraws(tst *testing.T) {
	tr := trace.New([]float64{2, 50})
	for i := 0; i < 5; i++ {
		tr.Append([]float64{2, 50}, []float64{0.5, 0.5}, 0, 0, 0, 1)
	}
	s, err := Summarize(tr, 1000)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for j, it := range s.Items {
		if it.SD != 0 {
			tst.Error("Expected SD 0 for constant draws, got", it.SD)
		}
		if math.Abs(it.P95-it.P5) > tiny {
			tst.Error("Expected a degenerate interval, got", it.P5, it.P95)
		}
		ref := []float64{2, 50}[j]
		if it.Median != ref || it.Mean != ref {
			tst.Error("Expected ", ref, ", got", it.Median, "and", it.Mean)
		}
	}
}

func TestIntervalOrder(tst *testing.T) {
	tr := trace.New([]float64{1, 1, 1})
	ws := [][]float64{
		{0.5, 1.1, 3.0},
		{0.7, 0.9, 2.5},
		{0.4, 1.3, 3.3},
		{0.6, 1.0, 2.8},
	}
	for _, w := range ws {
		tr.Append(w, []float64{0.3, 0.3, 0.4}, 0, 0, 0, 1)
	}
	s, err := Summarize(tr, 4)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for j, it := range s.Items {
		if it.P5 > it.P95 {
			tst.Error("Item ", j, ": interval out of order:", it.P5, it.P95)
		}
		if it.SD < 0 {
			tst.Error("Item ", j, ": negative SD:", it.SD)
		}
	}
}

// The centered statistics must not depend on a per-draw global scale;
// only the raw median and mean do.
func TestScaleInvariance(tst *testing.T) {
	base := [][]float64{
		{0.5, 1.1, 3.0},
		{0.7, 0.9, 2.5},
		{0.4, 1.3, 3.3},
	}

	tr1 := trace.New(base[0])
	tr2 := trace.New(scale(base[0], 7))
	for _, w := range base[1:] {
		tr1.Append(w, []float64{0.3, 0.3, 0.4}, 0, 0, 0, 1)
		tr2.Append(scale(w, 7), []float64{0.3, 0.3, 0.4}, 0, 0, 0, 1)
	}

	s1, err := Summarize(tr1, 3)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	s2, err := Summarize(tr2, 3)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	for j := range s1.Items {
		a, b := s1.Items[j], s2.Items[j]
		if math.Abs(a.SD-b.SD) > tiny || math.Abs(a.P5-b.P5) > tiny || math.Abs(a.P95-b.P95) > tiny {
			tst.Error("Centered statistics changed under scaling at item ", j)
		}
		if math.Abs(b.Median-7*a.Median) > tiny {
			tst.Error("Expected median ", 7*a.Median, ", got", b.Median)
		}
	}
}

func scale(xs []float64, f float64) []float64 {
	r := make([]float64, len(xs))
	for i, x := range xs {
		r[i] = f * x
	}
	return r
}
