// Package fitness provides the fitness models: a Dirichlet-multinomial
// likelihood for paired count data combined with one of several priors
// on the latent per-item fitness.
package fitness

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"
)

// Model is the full capability set of a fitness model. All priors
// implement it; the Gibbs driver needs only a subset.
type Model interface {
	// Name returns the prior family name.
	Name() string
	// NItems returns the number of items.
	NItems() int
	// SamplePrior draws a fitness vector from the prior.
	SamplePrior(rng *rand.Rand) []float64
	// SampleTheta draws the frequency vector from its conditional
	// given the fitness. The result is stored in theta, which is
	// allocated when nil.
	SampleTheta(rng *rand.Rand, w, theta []float64) []float64
	// SampleW performs one Metropolis sweep over the fitness
	// vector in place and returns the fraction of accepted
	// updates.
	SampleW(rng *rand.Rand, w, theta []float64) float64
	// LogLikelihoodW returns the log-density of the fitness vector
	// under the prior.
	LogLikelihoodW(w []float64) float64
	// LogLikelihoodTheta returns the log-density of theta given
	// the fitness.
	LogLikelihoodTheta(theta, w []float64) float64
	// LogLikelihoodX returns the log-likelihood of the observed
	// output counts given theta.
	LogLikelihoodX(theta []float64) float64
	// LogLikelihood returns the joint log-likelihood, the exact
	// sum of the three terms above.
	LogLikelihood(theta, w []float64) float64
	// GenerateTruth draws a synthetic state from the generative
	// model: fitness from the prior, theta given the fitness and
	// output counts given theta.
	GenerateTruth(rng *rand.Rand) (w, theta, x []float64)
}

// Prior is the family-specific part of a model. The methods are
// unexported so the set of families is closed within the package.
type Prior interface {
	// Name returns the prior family name.
	Name() string
	// LogLikelihoodW returns the log-density of the fitness vector
	// under the prior.
	LogLikelihoodW(w []float64) float64
	// samplePriorOne draws a single fitness value from the prior.
	samplePriorOne(rng *rand.Rand) float64
	// logPriorDiff returns log p(wnew) - log p(wold) for a single
	// item under the prior.
	logPriorDiff(wold, wnew float64) float64
}

// BaseModel implements everything shared between the prior families:
// data validation, the conjugate theta draw, the Metropolis sweep over
// the fitness vector and the likelihood terms.
type BaseModel struct {
	// Prior is the family implementation.
	Prior

	z, x  []float64
	alpha float64
	// az is alpha*z, precomputed once.
	az []float64
	// n is the total output count.
	n float64
	// logfact(n) and sum of logfact(x_i), the constant part of the
	// multinomial likelihood.
	lfn float64
	lfx float64
	// scratch for concentration vectors
	conc []float64
}

// newBaseModel validates the data and precomputes the shared
// constants. The count slices are copied.
func newBaseModel(z, x []float64, alpha float64, prior Prior) (*BaseModel, error) {
	if len(z) != len(x) {
		return nil, &ConfigError{Field: "counts", Reason: "input and output vectors differ in length"}
	}
	if len(z) == 0 {
		return nil, &ConfigError{Field: "counts", Reason: "no items"}
	}
	if alpha <= 0 || math.IsNaN(alpha) {
		return nil, &ConfigError{Field: "alpha", Reason: "must be positive"}
	}
	for _, v := range z {
		if v <= 0 || math.IsNaN(v) {
			return nil, &ConfigError{Field: "input counts", Reason: "must be positive"}
		}
	}
	for _, v := range x {
		if v < 0 || math.IsNaN(v) {
			return nil, &ConfigError{Field: "output counts", Reason: "must be non-negative"}
		}
	}

	m := &BaseModel{
		Prior: prior,
		z:     append([]float64(nil), z...),
		x:     append([]float64(nil), x...),
		alpha: alpha,
		az:    make([]float64, len(z)),
		conc:  make([]float64, len(z)),
	}
	for i, v := range m.z {
		m.az[i] = alpha * v
	}
	m.n = floats.Sum(m.x)
	m.lfn = logFactorial(m.n)
	for _, v := range m.x {
		m.lfx += logFactorial(v)
	}
	log.Debugf("%s model: %d items, total output count %g", prior.Name(), len(z), m.n)
	return m, nil
}

// NItems returns the number of items.
func (m *BaseModel) NItems() int {
	return len(m.z)
}

// Alpha returns the concentration multiplier.
func (m *BaseModel) Alpha() float64 {
	return m.alpha
}

// SamplePrior draws a fitness vector from the prior. Draws are floored
// at minDraw so the chain never starts at an exact zero.
func (m *BaseModel) SamplePrior(rng *rand.Rand) []float64 {
	w := make([]float64, len(m.z))
	for i := range w {
		w[i] = m.samplePriorOne(rng)
		if w[i] < minDraw {
			w[i] = minDraw
		}
	}
	return w
}

// SampleTheta draws theta from its conjugate conditional, a Dirichlet
// with concentration alpha*z*w + x. Components are floored at minDraw;
// the sum stays one within floating-point tolerance.
func (m *BaseModel) SampleTheta(rng *rand.Rand, w, theta []float64) []float64 {
	for i := range m.conc {
		m.conc[i] = m.az[i]*w[i] + m.x[i]
	}
	theta = distmv.NewDirichlet(m.conc, rng).Rand(theta)
	for i, t := range theta {
		if t < minDraw {
			theta[i] = minDraw
		}
	}
	return theta
}

// SampleW performs one single-site Metropolis sweep over the fitness
// vector in a freshly permuted order. Proposals are multiplicative,
// w' = w*exp(r) with r ~ Normal(0, proposalSD); the acceptance ratio
// combines the prior ratio of the family, the Dirichlet conditional
// ratio and the log-Jacobian r of the proposal. Updates are applied in
// place, so later components see earlier acceptances. The sum over the
// other items is maintained incrementally instead of being recomputed
// per component. Returns the fraction of accepted updates.
func (m *BaseModel) SampleW(rng *rand.Rand, w, theta []float64) float64 {
	sum := 0.0
	for i := range w {
		sum += m.az[i] * w[i]
	}
	accepted := 0
	for _, i := range rng.Perm(len(w)) {
		r := rng.NormFloat64() * proposalSD
		wold := w[i]
		wnew := wold * math.Exp(r)
		azi := m.az[i]
		sumNot := sum - azi*wold

		logRatio := m.logPriorDiff(wold, wnew) +
			(wnew-wold)*azi*math.Log(theta[i]) +
			lgamma(sumNot+azi*wnew) - lgamma(azi*wnew) -
			lgamma(sumNot+azi*wold) + lgamma(azi*wold)

		if math.Log(rng.Float64()) < logRatio+r {
			w[i] = wnew
			sum = sumNot + azi*wnew
			accepted++
		}
	}
	return float64(accepted) / float64(len(w))
}

// LogLikelihoodTheta returns the log-density of theta under
// Dirichlet(alpha*z*w).
func (m *BaseModel) LogLikelihoodTheta(theta, w []float64) float64 {
	sum := 0.0
	ll := 0.0
	for i := range theta {
		c := m.az[i] * w[i]
		sum += c
		ll += (c-1)*math.Log(theta[i]) - lgamma(c)
	}
	return ll + lgamma(sum)
}

// LogLikelihoodX returns the multinomial log-likelihood of the
// observed output counts under theta. Zero counts contribute nothing
// regardless of theta.
func (m *BaseModel) LogLikelihoodX(theta []float64) float64 {
	ll := m.lfn - m.lfx
	for i, x := range m.x {
		if x > 0 {
			ll += x * math.Log(theta[i])
		}
	}
	return ll
}

// LogLikelihood returns the joint log-likelihood, the exact sum of the
// prior, theta and count terms.
func (m *BaseModel) LogLikelihood(theta, w []float64) float64 {
	return m.LogLikelihoodW(w) + m.LogLikelihoodTheta(theta, w) + m.LogLikelihoodX(theta)
}

// GenerateTruth draws a synthetic state from the generative model. The
// total output count of the synthetic data equals the observed total,
// so a model rebuilt on the generated counts is directly comparable.
func (m *BaseModel) GenerateTruth(rng *rand.Rand) (w, theta, x []float64) {
	w = m.SamplePrior(rng)
	conc := make([]float64, len(w))
	for i := range conc {
		conc[i] = m.az[i] * w[i]
	}
	theta = distmv.NewDirichlet(conc, rng).Rand(nil)
	x = multinomial(rng, m.n, theta)
	log.Debugf("generated truth: %d items, total count %g", len(x), floats.Sum(x))
	return
}
