package fitness

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pareto is the Pareto fitness prior with scale one, so the support is
// [1, inf) and t is the tail index.
type Pareto struct {
	*BaseModel
	t float64
}

// NewPareto creates a fitness model with a Pareto prior.
func NewPareto(z, x []float64, t, alpha float64) (*Pareto, error) {
	if t <= 0 || math.IsNaN(t) {
		return nil, &ConfigError{Field: "t", Reason: "must be positive"}
	}
	m := &Pareto{t: t}
	bm, err := newBaseModel(z, x, alpha, m)
	if err != nil {
		return nil, err
	}
	m.BaseModel = bm
	return m, nil
}

func (m *Pareto) Name() string {
	return "pareto"
}

func (m *Pareto) samplePriorOne(rng *rand.Rand) float64 {
	return distuv.Pareto{Xm: 1, Alpha: m.t, Src: rng}.Rand()
}

// logPriorDiff rejects proposals below the support: the density is
// zero there, so the sweep never leaves [1, inf).
func (m *Pareto) logPriorDiff(wold, wnew float64) float64 {
	if wnew < 1 {
		return math.Inf(-1)
	}
	return (m.t + 1) * (math.Log(wold) - math.Log(wnew))
}

func (m *Pareto) LogLikelihoodW(w []float64) float64 {
	ll := float64(len(w)) * math.Log(m.t)
	for _, wi := range w {
		if wi < 1 {
			return math.Inf(-1)
		}
		ll -= (m.t + 1) * math.Log(wi)
	}
	return ll
}
