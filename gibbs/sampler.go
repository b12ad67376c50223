package gibbs

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/exp/rand"

	"bitbucket.org/rmaillard/gofit/checkpoint"
	"bitbucket.org/rmaillard/gofit/fitness"
	"bitbucket.org/rmaillard/gofit/trace"
)

// Sampler runs a single Metropolis-within-Gibbs chain. It owns the
// random generator, so two samplers created with the same seed on the
// same data produce identical chains.
type Sampler struct {
	m   Model
	rng *rand.Rand

	// AccPeriod is the number of iterations between acceptance-rate
	// log lines.
	AccPeriod int
	// RepPeriod is the number of iterations between trajectory lines.
	RepPeriod int
	// Quiet suppresses trajectory output.
	Quiet bool
	// Progress draws a progress bar during sampling.
	Progress bool

	trajF io.Writer
	sig   chan os.Signal
	cio   *checkpoint.CheckpointIO

	// i is the global iteration counter, ran the number of
	// iterations finished by this run (they differ after a resume).
	i      int
	ran    int
	accSum float64
	last   trace.Snapshot
	maxL   float64
	maxLI  int
}

// New creates a sampler for the model with an explicit seed.
func New(m Model, seed int64) *Sampler {
	return &Sampler{
		m:         m,
		rng:       rand.New(rand.NewSource(uint64(seed))),
		AccPeriod: 200,
		RepPeriod: 10,
		maxL:      math.Inf(-1),
	}
}

// SetTrajectoryOutput makes the sampler write per-iteration trajectory
// lines to w.
func (s *Sampler) SetTrajectoryOutput(w io.Writer) {
	s.trajF = w
}

// WatchSignals makes the sampler stop cleanly between iterations when
// one of the given signals arrives. The partial trace is still usable
// for diagnostics.
func (s *Sampler) WatchSignals(sigs ...os.Signal) {
	s.sig = make(chan os.Signal, 1)
	signal.Notify(s.sig, sigs...)
}

// SetCheckpoint enables periodic chain-state saves and resuming from a
// previously stored state.
func (s *Sampler) SetCheckpoint(cio *checkpoint.CheckpointIO) {
	s.cio = cio
}

// Run samples up to the requested total number of iterations and
// returns the trace: the initial fitness draw plus one snapshot per
// finished iteration. A run of zero iterations is legal and yields a
// trace holding the initial draw only. A non-finite likelihood aborts
// the run with a NumericError.
func (s *Sampler) Run(iterations int) (*trace.Trace, error) {
	if iterations < 0 {
		return nil, &fitness.ConfigError{Field: "iterations", Reason: "must be non-negative"}
	}

	// resume from a checkpoint when present, otherwise start from a
	// prior draw
	var w []float64
	start := 0
	if s.cio != nil {
		state, err := s.cio.Load()
		if err != nil {
			return nil, err
		}
		if state != nil && !state.Final {
			if len(state.W) != s.m.NItems() {
				return nil, &fitness.ConfigError{Field: "checkpoint", Reason: "stored chain does not match the data"}
			}
			w = state.W
			start = state.Iter
			log.Noticef("Resuming sampling from iteration %d", start)
		}
	}
	if w == nil {
		w = s.m.SamplePrior(s.rng)
	}

	log.Infof("Sampling %d items with the %s prior", s.m.NItems(), s.m.Name())
	tr := trace.New(w)
	s.printHeader()

	var bar *pb.ProgressBar
	if s.Progress && iterations > start {
		bar = pb.StartNew(iterations - start)
	}

	var theta []float64
	accWindow := 0.0
	lastReported := -1
Iter:
	for s.i = start; s.i < iterations; s.i++ {
		if s.ran > 0 && s.ran%s.AccPeriod == 0 {
			log.Infof("Acceptance rate %.2f%%", 100*accWindow/float64(s.AccPeriod))
			accWindow = 0
		}

		theta = s.m.SampleTheta(s.rng, w, theta)
		acc := s.m.SampleW(s.rng, w, theta)

		llw := s.m.LogLikelihoodW(w)
		llth := s.m.LogLikelihoodTheta(theta, w)
		llx := s.m.LogLikelihoodX(theta)
		if !finite(llw) || !finite(llth) || !finite(llx) {
			if bar != nil {
				bar.Finish()
			}
			return nil, &NumericError{Iter: s.i, LogLikW: llw, LogLikTheta: llth, LogLikX: llx}
		}

		tr.Append(w, theta, llw, llth, llx, acc)
		s.last = *tr.Snapshot(tr.Len() - 1)
		s.ran++
		s.accSum += acc
		accWindow += acc
		if l := s.last.LogLik(); l > s.maxL {
			s.maxL = l
			s.maxLI = s.i
		}

		if s.i%s.RepPeriod == 0 {
			s.printLine(s.i, &s.last)
			lastReported = s.i
		}

		if bar != nil {
			bar.Add(1)
		}

		if s.cio != nil && s.cio.Old() {
			s.cio.Save(&checkpoint.State{W: w, Iter: s.i + 1, Accepted: acc})
		}

		select {
		case sg := <-s.sig:
			log.Warningf("Received signal %v, exiting.", sg)
			s.i++
			break Iter
		default:
		}
	}

	if bar != nil {
		bar.Finish()
	}
	if s.ran > 0 && s.i-1 != lastReported {
		s.printLine(s.i-1, &s.last)
	}
	if s.cio != nil {
		s.cio.Save(&checkpoint.State{W: w, Iter: s.i, Final: s.i >= iterations})
	}
	return tr, nil
}

// Summary returns statistics of the finished run.
func (s *Sampler) Summary() *Summary {
	sm := &Summary{
		Iterations: s.i,
		MaxLogLik:  s.maxL,
	}
	if s.ran > 0 {
		sm.MeanAcceptance = s.accSum / float64(s.ran)
		sm.FinalLogLik = s.last.LogLik()
		sm.FinalLogLikW = s.last.LogLikW
		sm.FinalLogLikTheta = s.last.LogLikTheta
		sm.FinalLogLikX = s.last.LogLikX
		sm.MaxLogLikIter = s.maxLI
	}
	return sm
}

func (s *Sampler) printHeader() {
	if s.trajF != nil && !s.Quiet {
		fmt.Fprintf(s.trajF, "iteration\tloglik\tloglikW\tloglikTheta\tloglikX\taccepted\n")
	}
}

func (s *Sampler) printLine(iter int, snap *trace.Snapshot) {
	if s.trajF != nil && !s.Quiet {
		fmt.Fprintf(s.trajF, "%d\t%f\t%f\t%f\t%f\t%f\n",
			iter, snap.LogLik(), snap.LogLikW, snap.LogLikTheta, snap.LogLikX, snap.Accepted)
	}
}
