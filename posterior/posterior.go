// Package posterior reduces the trailing window of a sampling trace to
// per-item summaries of the fitness posterior.
package posterior

import (
	"fmt"

	"bitbucket.org/rmaillard/gofit/stats"
	"bitbucket.org/rmaillard/gofit/trace"
)

// ItemSummary holds the posterior summary of one item. Median and Mean
// are on the raw fitness scale. SD, P5 and P95 are computed on the
// centered log10 scale: every draw is first divided by its own
// geometric mean, which removes the overall scale the data cannot
// identify.
type ItemSummary struct {
	Median float64
	Mean   float64
	SD     float64
	P5     float64
	P95    float64
}

// Summary is the posterior summary over the trailing window of a run.
type Summary struct {
	// Window is the number of draws actually used. It may be
	// smaller than requested on short runs.
	Window int
	Items  []ItemSummary
}

// Summarize reduces the trailing window draws of the trace. The
// requested window is clamped to the available draws; the initial
// prior draw always exists, so even a zero-iteration run summarizes.
func Summarize(tr *trace.Trace, window int) (*Summary, error) {
	if window < 1 {
		return nil, fmt.Errorf("posterior: window must be positive, got %d", window)
	}
	rows := tr.Window(window)
	n := tr.NItems()

	// center each draw on the log10 scale
	crows := make([][]float64, len(rows))
	for i, row := range rows {
		crows[i] = stats.CenteredLog10(nil, row)
	}

	s := &Summary{Window: len(rows), Items: make([]ItemSummary, n)}
	raw := make([]float64, len(rows))
	cent := make([]float64, len(rows))
	for j := 0; j < n; j++ {
		for i := range rows {
			raw[i] = rows[i][j]
			cent[i] = crows[i][j]
		}
		s.Items[j] = ItemSummary{
			Median: stats.Median(raw),
			Mean:   stats.Mean(raw),
			SD:     stats.PopStdDev(cent),
			P5:     stats.Percentile(cent, 5),
			P95:    stats.Percentile(cent, 95),
		}
	}
	return s, nil
}
