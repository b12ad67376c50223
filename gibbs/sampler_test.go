package gibbs

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"
	bolt "go.etcd.io/bbolt"

	"bitbucket.org/rmaillard/gofit/checkpoint"
	"bitbucket.org/rmaillard/gofit/fitness"
)

func init() {
	logging.SetLevel(logging.WARNING, "gibbs")
	logging.SetLevel(logging.WARNING, "fitness")
	logging.SetLevel(logging.WARNING, "checkpoint")
}

func testModel(tst *testing.T) *fitness.LogNormal {
	m, err := fitness.NewLogNormal([]float64{6, 21, 51}, []float64{3, 40, 12}, 0, 1, 1)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	return m
}

// A single item is the smallest legal dataset; every family must run
// through the full driver on it.
func TestSingleItem(tst *testing.T) {
	z := []float64{5}
	x := []float64{3}

	models := make([]Model, 0, 4)
	if m, err := fitness.NewLogNormal(z, x, 0, 1, 1); err == nil {
		models = append(models, m)
	} else {
		tst.Fatal("Error: ", err)
	}
	if m, err := fitness.NewPareto(z, x, 1.5, 1); err == nil {
		models = append(models, m)
	} else {
		tst.Fatal("Error: ", err)
	}
	if m, err := fitness.NewSymPareto(z, x, 1.5, 1); err == nil {
		models = append(models, m)
	} else {
		tst.Fatal("Error: ", err)
	}
	if m, err := fitness.NewGamma(z, x, 1, 1, 1); err == nil {
		models = append(models, m)
	} else {
		tst.Fatal("Error: ", err)
	}

	for _, m := range models {
		s := New(m, 1)
		s.Quiet = true
		tr, err := s.Run(100)
		if err != nil {
			tst.Error(m.Name(), ": unexpected error:", err)
			continue
		}
		if tr.Len() != 100 {
			tst.Error(m.Name(), ": expected 100 iterations, got", tr.Len())
		}
		for i := 0; i < tr.Len(); i++ {
			snap := tr.Snapshot(i)
			if snap.W[0] <= 0 || math.IsNaN(snap.W[0]) {
				tst.Error(m.Name(), ": fitness left the support:", snap.W[0])
			}
			if !finite(snap.LogLik()) {
				tst.Error(m.Name(), ": non-finite log-likelihood at", i)
			}
			if snap.Accepted < 0 || snap.Accepted > 1 {
				tst.Error(m.Name(), ": acceptance out of [0,1]:", snap.Accepted)
			}
		}
	}
}

// Zero iterations is a legal boundary: the trace holds the prior draw
// only and the summary window stays well defined.
func TestZeroIterations(tst *testing.T) {
	s := New(testModel(tst), 1)
	s.Quiet = true
	tr, err := s.Run(0)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if tr.Len() != 0 {
		tst.Error("Expected 0 iterations, got", tr.Len())
	}
	if h := tr.WHistory(); len(h) != 1 {
		tst.Error("Expected only the initial draw, got", len(h))
	}
	if w := tr.Window(1000); len(w) != 1 {
		tst.Error("Expected window of 1 draw, got", len(w))
	}
}

func TestNegativeIterations(tst *testing.T) {
	s := New(testModel(tst), 1)
	var cerr *fitness.ConfigError
	_, err := s.Run(-1)
	if !errors.As(err, &cerr) {
		tst.Error("Expected ConfigError, got", err)
	}
}

func TestReproducibleRuns(tst *testing.T) {
	s1 := New(testModel(tst), 42)
	s2 := New(testModel(tst), 42)
	s1.Quiet = true
	s2.Quiet = true

	tr1, err := s1.Run(50)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	tr2, err := s2.Run(50)
	if err != nil {
		tst.Fatal("Error: ", err)
	}

	for i := 0; i < tr1.Len(); i++ {
		a, b := tr1.Snapshot(i), tr2.Snapshot(i)
		if a.LogLik() != b.LogLik() || a.Accepted != b.Accepted {
			tst.Error("Chains diverged at iteration ", i)
			break
		}
		for j := range a.W {
			if a.W[j] != b.W[j] {
				tst.Error("Fitness diverged at iteration ", i)
				break
			}
		}
	}
}

func TestTrajectoryOutput(tst *testing.T) {
	s := New(testModel(tst), 3)
	var buf bytes.Buffer
	s.SetTrajectoryOutput(&buf)
	s.RepPeriod = 10
	if _, err := s.Run(25); err != nil {
		tst.Fatal("Error: ", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header, iterations 0, 10, 20 and the final line
	if len(lines) != 5 {
		tst.Error("Expected 5 trajectory lines, got", len(lines))
	}
	if !strings.HasPrefix(lines[0], "iteration\t") {
		tst.Error("Unexpected header:", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "24\t") {
		tst.Error("Expected final line for iteration 24, got", lines[len(lines)-1])
	}
}

type nanModel struct {
	Model
}

func (m nanModel) LogLikelihoodX(theta []float64) float64 {
	return math.NaN()
}

func TestNumericError(tst *testing.T) {
	s := New(nanModel{testModel(tst)}, 1)
	s.Quiet = true
	_, err := s.Run(10)
	var nerr *NumericError
	if !errors.As(err, &nerr) {
		tst.Fatal("Expected NumericError, got", err)
	}
	if nerr.Iter != 0 {
		tst.Error("Expected failure at iteration 0, got", nerr.Iter)
	}
	if !math.IsNaN(nerr.LogLikX) {
		tst.Error("Expected NaN count term, got", nerr.LogLikX)
	}
}

func TestCheckpointResume(tst *testing.T) {
	path := filepath.Join(tst.TempDir(), "chain.db")
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()
	cio := checkpoint.NewCheckpointIO(db, []byte("chain"), 1e6)

	// an interrupted chain: five iterations already done
	err = cio.Save(&checkpoint.State{W: []float64{1.1, 0.9, 1.3}, Iter: 5})
	if err != nil {
		tst.Fatal("Error: ", err)
	}

	s := New(testModel(tst), 1)
	s.Quiet = true
	s.SetCheckpoint(cio)
	tr, err := s.Run(10)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if tr.Len() != 5 {
		tst.Error("Expected 5 remaining iterations, got", tr.Len())
	}
	if got := s.Summary().Iterations; got != 10 {
		tst.Error("Expected 10 total iterations, got", got)
	}
	if w := tr.Initial(); w[0] != 1.1 || w[2] != 1.3 {
		tst.Error("Expected to resume from the stored fitness, got", w)
	}

	// the finished run must have left a final state behind
	st, err := cio.Load()
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if st == nil || !st.Final || st.Iter != 10 {
		tst.Error("Expected a final state at iteration 10, got", st)
	}
}

func TestCheckpointMismatch(tst *testing.T) {
	path := filepath.Join(tst.TempDir(), "chain.db")
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()
	cio := checkpoint.NewCheckpointIO(db, []byte("chain"), 1e6)

	err = cio.Save(&checkpoint.State{W: []float64{1, 1}, Iter: 2})
	if err != nil {
		tst.Fatal("Error: ", err)
	}

	s := New(testModel(tst), 1)
	s.Quiet = true
	s.SetCheckpoint(cio)
	var cerr *fitness.ConfigError
	if _, err = s.Run(10); !errors.As(err, &cerr) {
		tst.Error("Expected ConfigError for mismatched state, got", err)
	}
}

func TestSummary(tst *testing.T) {
	s := New(testModel(tst), 9)
	s.Quiet = true
	tr, err := s.Run(30)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	sm := s.Summary()
	if sm.Iterations != 30 {
		tst.Error("Expected 30 iterations, got", sm.Iterations)
	}
	if sm.MeanAcceptance < 0 || sm.MeanAcceptance > 1 {
		tst.Error("Mean acceptance out of [0,1]:", sm.MeanAcceptance)
	}
	last := tr.Snapshot(tr.Len() - 1)
	if sm.FinalLogLik != last.LogLik() {
		tst.Error("Expected ", last.LogLik(), ", got", sm.FinalLogLik)
	}
	if sm.MaxLogLik < sm.FinalLogLik {
		tst.Error("Max log-likelihood ", sm.MaxLogLik, " below final ", sm.FinalLogLik)
	}
}
