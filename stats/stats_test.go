package stats

import (
	"math"
	"testing"
)

// tiny is a threshold for exact arithmetic identities.
const tiny = 1e-12

func TestLogFactorial(tst *testing.T) {
	ref := 0.0
	for k := 0; k <= 20; k++ {
		got := LogFactorial(float64(k))
		tst.Log("k=", k, ", log k!=", got, ", ref=", ref)
		if math.Abs(got-ref) > 1e-9 {
			tst.Error("Expected ", ref, ", got", got)
		}
		ref += math.Log(float64(k + 1))
	}
}

func TestLogFactorialSum(tst *testing.T) {
	xs := []float64{0, 1, 2, 3, 10}
	ref := 0.0
	for _, x := range xs {
		ref += LogFactorial(x)
	}
	got := LogFactorialSum(xs)
	if math.Abs(got-ref) > tiny {
		tst.Error("Expected ", ref, ", got", got)
	}
}

func TestCentered(tst *testing.T) {
	xs := []float64{0.1, 2, 7, 0.5}
	c := Centered(nil, xs)
	if len(c) != len(xs) {
		tst.Error("Expected length ", len(xs), ", got", len(c))
	}
	slog := 0.0
	for _, v := range c {
		slog += math.Log(v)
	}
	if math.Abs(slog) > tiny {
		tst.Error("Expected zero log-sum after centering, got", slog)
	}

	// centering is invariant under a global scale factor
	scaled := make([]float64, len(xs))
	for i, x := range xs {
		scaled[i] = 13 * x
	}
	cs := Centered(nil, scaled)
	for i := range c {
		if math.Abs(c[i]-cs[i]) > tiny {
			tst.Error("Expected ", c[i], ", got", cs[i])
		}
	}
}

func TestCenteredLog10(tst *testing.T) {
	xs := []float64{1, 10, 100}
	l := CenteredLog10(nil, xs)
	s := 0.0
	for _, v := range l {
		s += v
	}
	if math.Abs(s) > tiny {
		tst.Error("Expected zero sum, got", s)
	}
	// geometric mean is 10, so the centered values are 0.1, 1, 10
	ref := []float64{-1, 0, 1}
	for i := range l {
		if math.Abs(l[i]-ref[i]) > tiny {
			tst.Error("Expected ", ref[i], ", got", l[i])
		}
	}
}

func TestMedian(tst *testing.T) {
	odd := []float64{5, 1, 3}
	if m := Median(odd); m != 3 {
		tst.Error("Expected 3, got", m)
	}
	even := []float64{4, 1, 3, 2}
	if m := Median(even); math.Abs(m-2.5) > tiny {
		tst.Error("Expected 2.5, got", m)
	}
	one := []float64{7}
	if m := Median(one); m != 7 {
		tst.Error("Expected 7, got", m)
	}
}

func TestPopStdDev(tst *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ref := math.Sqrt(5.0 / 4.0)
	got := PopStdDev(xs)
	if math.Abs(got-ref) > tiny {
		tst.Error("Expected ", ref, ", got", got)
	}
	if sd := PopStdDev([]float64{42}); sd != 0 {
		tst.Error("Expected 0 for a single sample, got", sd)
	}
}

func TestPercentileEdges(tst *testing.T) {
	xs := []float64{9, 2, 4, 7, 1}
	if p := Percentile(xs, 0); p != 1 {
		tst.Error("Expected 1, got", p)
	}
	if p := Percentile(xs, 100); p != 9 {
		tst.Error("Expected 9, got", p)
	}
	p5 := Percentile(xs, 5)
	p95 := Percentile(xs, 95)
	if p5 < 1 || p95 > 9 || p5 > p95 {
		tst.Error("Percentiles out of order: p5=", p5, ", p95=", p95)
	}
}

func TestRanksTies(tst *testing.T) {
	xs := []float64{10, 20, 20, 30}
	ref := []float64{1, 2.5, 2.5, 4}
	got := Ranks(xs)
	for i := range ref {
		if got[i] != ref[i] {
			tst.Error("Expected ", ref[i], ", got", got[i])
		}
	}
}

func TestSpearman(tst *testing.T) {
	a := []float64{0.1, 0.7, 1.3, 2.9, 5}
	b := make([]float64, len(a))
	for i, v := range a {
		// any monotone transform preserves ranks
		b[i] = math.Exp(v)
	}
	if rho := Spearman(a, b); math.Abs(rho-1) > tiny {
		tst.Error("Expected 1, got", rho)
	}
	for i, v := range a {
		b[len(a)-1-i] = v
	}
	if rho := Spearman(a, b); math.Abs(rho+1) > tiny {
		tst.Error("Expected -1, got", rho)
	}
}
