// Package stats provides numeric primitives shared by the sampler and
// the posterior summaries: log-factorials, geometric-mean centering and
// simple descriptive statistics.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LogFactorial returns log(x!) computed as lgamma(x+1). The argument
// does not have to be an integer. Panics on negative input.
func LogFactorial(x float64) float64 {
	if x < 0 {
		panic("stats: log-factorial of a negative value")
	}
	r, _ := math.Lgamma(x + 1)
	return r
}

// LogFactorialSum returns the sum of log(x!) over xs.
func LogFactorialSum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += LogFactorial(x)
	}
	return s
}

// Centered returns xs divided by its geometric mean, so that the result
// has geometric mean one. All values must be positive. If dst is nil a
// new slice is allocated, otherwise the result is stored in dst.
func Centered(dst, xs []float64) []float64 {
	if len(xs) == 0 {
		panic("stats: centering an empty vector")
	}
	if dst == nil {
		dst = make([]float64, len(xs))
	}
	m := 0.0
	for _, x := range xs {
		m += math.Log(x)
	}
	gm := math.Exp(m / float64(len(xs)))
	for i, x := range xs {
		dst[i] = x / gm
	}
	return dst
}

// CenteredLog10 returns log10 of the centered vector; the result sums
// to zero.
func CenteredLog10(dst, xs []float64) []float64 {
	dst = Centered(dst, xs)
	for i, v := range dst {
		dst[i] = math.Log10(v)
	}
	return dst
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// Median returns the median of xs; for an even number of samples the
// two central values are averaged.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		panic("stats: median of an empty vector")
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// PopStdDev returns the population standard deviation of xs (variance
// normalized by the sample count). A single sample has deviation zero.
func PopStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		panic("stats: standard deviation of an empty vector")
	}
	if len(xs) == 1 {
		return 0
	}
	return stat.PopStdDev(xs, nil)
}

// Percentile returns the p-th percentile of xs, 0 <= p <= 100, with
// linear interpolation between order statistics.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		panic("stats: percentile of an empty vector")
	}
	if p < 0 || p > 100 {
		panic("stats: percentile out of [0, 100]")
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return stat.Quantile(p/100, stat.LinInterp, s, nil)
}

// Ranks returns the 1-based ranks of xs; ties receive the average of
// the ranks they span.
func Ranks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	ranks := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && xs[idx[j]] == xs[idx[i]] {
			j++
		}
		r := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = r
		}
		i = j
	}
	return ranks
}

// Spearman returns the Spearman rank correlation coefficient between a
// and b. Panics if the lengths differ.
func Spearman(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("stats: vector length mismatch")
	}
	return stat.Correlation(Ranks(a), Ranks(b), nil)
}
