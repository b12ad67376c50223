// Package trace records the state of a Gibbs sampling run: the initial
// fitness draw plus one snapshot per iteration.
package trace

// Snapshot holds everything recorded after a single iteration.
type Snapshot struct {
	// W is the fitness vector after the Metropolis sweep.
	W []float64
	// Theta is the frequency vector drawn this iteration.
	Theta []float64
	// Log-likelihood terms of the current state.
	LogLikW     float64
	LogLikTheta float64
	LogLikX     float64
	// Accepted is the fraction of accepted fitness updates in the sweep.
	Accepted float64
}

// LogLik returns the total log-likelihood, the exact sum of the three
// recorded terms.
func (s *Snapshot) LogLik() float64 {
	return s.LogLikW + s.LogLikTheta + s.LogLikX
}

// Trace is append-only during a run and read-only afterwards.
type Trace struct {
	initial   []float64
	snapshots []Snapshot
}

// New starts a trace from the initial fitness vector. The vector is
// copied.
func New(w []float64) *Trace {
	return &Trace{initial: append([]float64(nil), w...)}
}

// Append records one iteration. Both vectors are copied, so the caller
// may keep mutating its buffers.
func (t *Trace) Append(w, theta []float64, llw, lltheta, llx, accepted float64) {
	t.snapshots = append(t.snapshots, Snapshot{
		W:           append([]float64(nil), w...),
		Theta:       append([]float64(nil), theta...),
		LogLikW:     llw,
		LogLikTheta: lltheta,
		LogLikX:     llx,
		Accepted:    accepted,
	})
}

// Len returns the number of recorded iterations (the initial draw is
// not counted).
func (t *Trace) Len() int {
	return len(t.snapshots)
}

// NItems returns the number of items per fitness vector.
func (t *Trace) NItems() int {
	return len(t.initial)
}

// Initial returns the fitness vector drawn before the first iteration.
func (t *Trace) Initial() []float64 {
	return t.initial
}

// Snapshot returns the i-th recorded iteration.
func (t *Trace) Snapshot(i int) *Snapshot {
	return &t.snapshots[i]
}

// WHistory returns every fitness draw in order: the initial vector
// followed by one vector per iteration. The backing slices are shared
// with the trace, not copied.
func (t *Trace) WHistory() [][]float64 {
	h := make([][]float64, 0, len(t.snapshots)+1)
	h = append(h, t.initial)
	for i := range t.snapshots {
		h = append(h, t.snapshots[i].W)
	}
	return h
}

// Window returns the trailing k rows of the fitness history. k is
// clamped to the available draws, so the result is never empty: a run
// of zero iterations still yields the initial draw.
func (t *Trace) Window(k int) [][]float64 {
	h := t.WHistory()
	if k > len(h) {
		k = len(h)
	}
	if k < 1 {
		k = 1
	}
	return h[len(h)-k:]
}
