package fitness

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogNormal is the log-normal fitness prior,
// log w ~ Normal(mu, sigma).
type LogNormal struct {
	*BaseModel
	mu, sigma float64
}

// NewLogNormal creates a fitness model with a log-normal prior.
func NewLogNormal(z, x []float64, mu, sigma, alpha float64) (*LogNormal, error) {
	if sigma <= 0 || math.IsNaN(sigma) {
		return nil, &ConfigError{Field: "sigma", Reason: "must be positive"}
	}
	m := &LogNormal{mu: mu, sigma: sigma}
	bm, err := newBaseModel(z, x, alpha, m)
	if err != nil {
		return nil, err
	}
	m.BaseModel = bm
	return m, nil
}

func (m *LogNormal) Name() string {
	return "lognormal"
}

func (m *LogNormal) samplePriorOne(rng *rand.Rand) float64 {
	return distuv.LogNormal{Mu: m.mu, Sigma: m.sigma, Src: rng}.Rand()
}

func (m *LogNormal) logPriorDiff(wold, wnew float64) float64 {
	lo := math.Log(wold)
	ln := math.Log(wnew)
	return lo - ln - ((ln-m.mu)*(ln-m.mu)-(lo-m.mu)*(lo-m.mu))/(2*m.sigma*m.sigma)
}

func (m *LogNormal) LogLikelihoodW(w []float64) float64 {
	ll := -float64(len(w)) * math.Log(m.sigma*math.Sqrt(2*math.Pi))
	for _, wi := range w {
		l := math.Log(wi)
		d := l - m.mu
		ll += -l - d*d/(2*m.sigma*m.sigma)
	}
	return ll
}
