// Package gibbs implements the Metropolis-within-Gibbs driver: it
// alternates a conjugate draw of the frequency vector with one
// Metropolis sweep over the fitness vector and records every iteration
// in a trace.
package gibbs

import (
	"fmt"
	"math"

	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
)

var log = logging.MustGetLogger("gibbs")

// Model is what the sampler needs from a fitness model.
type Model interface {
	// Name returns the prior family name.
	Name() string
	// NItems returns the number of items.
	NItems() int
	// SamplePrior draws a fitness vector from the prior.
	SamplePrior(rng *rand.Rand) []float64
	// SampleTheta draws the frequency vector given the fitness.
	SampleTheta(rng *rand.Rand, w, theta []float64) []float64
	// SampleW sweeps the fitness vector in place and returns the
	// fraction of accepted updates.
	SampleW(rng *rand.Rand, w, theta []float64) float64
	// The three log-likelihood terms of the current state.
	LogLikelihoodW(w []float64) float64
	LogLikelihoodTheta(theta, w []float64) float64
	LogLikelihoodX(theta []float64) float64
}

// NumericError reports a numerical failure during sampling. The chain
// cannot continue past a non-finite likelihood, so the run is aborted.
type NumericError struct {
	// Iter is the iteration at which the failure was detected.
	Iter int
	// The three log-likelihood terms at the point of failure.
	LogLikW     float64
	LogLikTheta float64
	LogLikX     float64
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("non-finite log-likelihood at iteration %d (w=%g, theta=%g, x=%g)",
		e.Iter, e.LogLikW, e.LogLikTheta, e.LogLikX)
}

// Summary reports run statistics for the machine-readable summary.
type Summary struct {
	// Iterations actually finished (smaller than requested if the
	// run was interrupted).
	Iterations int `json:"iterations"`
	// MeanAcceptance is the mean sweep acceptance fraction.
	MeanAcceptance float64 `json:"meanAcceptance"`
	// Final log-likelihood and its terms.
	FinalLogLik      float64 `json:"finalLogLik"`
	FinalLogLikW     float64 `json:"finalLogLikW"`
	FinalLogLikTheta float64 `json:"finalLogLikTheta"`
	FinalLogLikX     float64 `json:"finalLogLikX"`
	// Best total log-likelihood seen and the iteration it occurred.
	MaxLogLik     float64 `json:"maxLogLik"`
	MaxLogLikIter int     `json:"maxLogLikIter"`
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
