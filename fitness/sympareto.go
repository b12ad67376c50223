package fitness

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SymPareto is the symmetric Pareto fitness prior: a Pareto draw with
// scale one or its reciprocal with equal probability. The density is
// (t/2) w^-1 exp(-t |log w|) on (0, inf), symmetric around one on the
// log scale.
type SymPareto struct {
	*BaseModel
	t float64
}

// NewSymPareto creates a fitness model with a symmetric Pareto prior.
func NewSymPareto(z, x []float64, t, alpha float64) (*SymPareto, error) {
	if t <= 0 || math.IsNaN(t) {
		return nil, &ConfigError{Field: "t", Reason: "must be positive"}
	}
	m := &SymPareto{t: t}
	bm, err := newBaseModel(z, x, alpha, m)
	if err != nil {
		return nil, err
	}
	m.BaseModel = bm
	return m, nil
}

func (m *SymPareto) Name() string {
	return "sympareto"
}

func (m *SymPareto) samplePriorOne(rng *rand.Rand) float64 {
	v := distuv.Pareto{Xm: 1, Alpha: m.t, Src: rng}.Rand()
	flip := distuv.Bernoulli{P: 0.5, Src: rng}
	if flip.Rand() == 1 {
		return 1 / v
	}
	return v
}

func (m *SymPareto) logPriorDiff(wold, wnew float64) float64 {
	lo := math.Log(wold)
	ln := math.Log(wnew)
	return lo - ln - m.t*(math.Abs(ln)-math.Abs(lo))
}

func (m *SymPareto) LogLikelihoodW(w []float64) float64 {
	ll := float64(len(w)) * math.Log(m.t/2)
	for _, wi := range w {
		l := math.Log(wi)
		ll += -l - m.t*math.Abs(l)
	}
	return ll
}
