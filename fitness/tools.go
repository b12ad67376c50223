package fitness

import (
	"math"

	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var log = logging.MustGetLogger("fitness")

const (
	// proposalSD is the scale of the multiplicative random-walk
	// proposals, w' = w*exp(r) with r ~ Normal(0, proposalSD).
	proposalSD = 0.1
	// minDraw floors draws from continuous distributions; very
	// small concentrations can underflow to an exact zero, which
	// would put log(0) into the acceptance ratios.
	minDraw = 1e-300
)

func lgamma(x float64) float64 {
	r, _ := math.Lgamma(x)
	return r
}

func logFactorial(x float64) float64 {
	r, _ := math.Lgamma(x + 1)
	return r
}

// multinomial draws counts summing to n with cell probabilities p
// using sequential conditional binomial draws. Any probability mass
// lost to rounding ends up in the last cell.
func multinomial(rng *rand.Rand, n float64, p []float64) []float64 {
	x := make([]float64, len(p))
	remaining := n
	rest := 1.0
	for i := 0; i < len(p)-1 && remaining > 0; i++ {
		pi := p[i] / rest
		switch {
		case pi >= 1:
			x[i] = remaining
			remaining = 0
		case pi > 0:
			b := distuv.Binomial{N: remaining, P: pi, Src: rng}
			x[i] = b.Rand()
			remaining -= x[i]
		}
		rest -= p[i]
		if rest <= 0 {
			break
		}
	}
	x[len(p)-1] += remaining
	return x
}
