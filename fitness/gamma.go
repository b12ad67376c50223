package fitness

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gamma is the gamma fitness prior with the given shape and scale.
type Gamma struct {
	*BaseModel
	shape, scale float64
}

// NewGamma creates a fitness model with a gamma prior.
func NewGamma(z, x []float64, shape, scale, alpha float64) (*Gamma, error) {
	if shape <= 0 || math.IsNaN(shape) {
		return nil, &ConfigError{Field: "shape", Reason: "must be positive"}
	}
	if scale <= 0 || math.IsNaN(scale) {
		return nil, &ConfigError{Field: "scale", Reason: "must be positive"}
	}
	m := &Gamma{shape: shape, scale: scale}
	bm, err := newBaseModel(z, x, alpha, m)
	if err != nil {
		return nil, err
	}
	m.BaseModel = bm
	return m, nil
}

func (m *Gamma) Name() string {
	return "gamma"
}

func (m *Gamma) samplePriorOne(rng *rand.Rand) float64 {
	return distuv.Gamma{Alpha: m.shape, Beta: 1 / m.scale, Src: rng}.Rand()
}

func (m *Gamma) logPriorDiff(wold, wnew float64) float64 {
	return (m.shape-1)*(math.Log(wnew)-math.Log(wold)) - (wnew-wold)/m.scale
}

func (m *Gamma) LogLikelihoodW(w []float64) float64 {
	lg, _ := math.Lgamma(m.shape)
	ll := float64(len(w)) * (-m.shape*math.Log(m.scale) - lg)
	for _, wi := range w {
		ll += (m.shape-1)*math.Log(wi) - wi/m.scale
	}
	return ll
}
