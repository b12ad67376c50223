// Package report renders diagnostic plots from a finished sampling run:
// the log-likelihood terms, the acceptance fraction, the total log10
// fitness trajectory, the per-item posterior intervals and, on
// synthetic data, the estimates against the generating truth.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/op/go-logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/rmaillard/gofit/posterior"
	"bitbucket.org/rmaillard/gofit/stats"
	"bitbucket.org/rmaillard/gofit/trace"
)

var log = logging.MustGetLogger("report")

// Write renders all diagnostic plots into dir, creating it if needed.
// truth may be nil; the truth comparison is skipped then.
func Write(dir string, tr *trace.Trace, s *posterior.Summary, truth []float64) error {
	if tr.Len() == 0 {
		log.Warning("No iterations recorded, skipping plots")
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := logLikelihoods(dir, tr); err != nil {
		return err
	}
	if err := fracAccepted(dir, tr); err != nil {
		return err
	}
	if err := totalWWeight(dir, tr); err != nil {
		return err
	}
	if err := wDistributions(dir, tr, s); err != nil {
		return err
	}
	if truth != nil {
		if err := truthVsMedian(dir, s, truth); err != nil {
			return err
		}
	}
	log.Infof("Wrote diagnostic plots to %s", dir)
	return nil
}

func logLikelihoods(dir string, tr *trace.Trace) error {
	n := tr.Len()
	llw := make(plotter.XYs, n)
	llth := make(plotter.XYs, n)
	llx := make(plotter.XYs, n)
	lls := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		snap := tr.Snapshot(i)
		x := float64(i)
		llw[i] = plotter.XY{X: x, Y: snap.LogLikW}
		llth[i] = plotter.XY{X: x, Y: snap.LogLikTheta}
		llx[i] = plotter.XY{X: x, Y: snap.LogLikX}
		lls[i] = plotter.XY{X: x, Y: snap.LogLik()}
	}

	p := plot.New()
	p.Title.Text = "log likelihoods"
	p.X.Label.Text = "iteration"
	err := plotutil.AddLines(p,
		"w", llw,
		"theta", llth,
		"X", llx,
		"combined", lls)
	if err != nil {
		return err
	}
	return save(p, dir, "loglikelihoods.png")
}

func fracAccepted(dir string, tr *trace.Trace) error {
	pts := make(plotter.XYs, tr.Len())
	for i := range pts {
		pts[i] = plotter.XY{X: float64(i), Y: tr.Snapshot(i).Accepted}
	}

	p := plot.New()
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "frac moves accepted"
	if err := plotutil.AddLines(p, pts); err != nil {
		return err
	}
	return save(p, dir, "frac_accepted.png")
}

func totalWWeight(dir string, tr *trace.Trace) error {
	hist := tr.WHistory()
	pts := make(plotter.XYs, len(hist))
	for i, w := range hist {
		sum := 0.0
		for _, v := range w {
			sum += math.Log10(v)
		}
		pts[i] = plotter.XY{X: float64(i), Y: sum}
	}

	p := plot.New()
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "sum(log10(w))"
	if err := plotutil.AddLines(p, pts); err != nil {
		return err
	}
	return save(p, dir, "total_w_weight.png")
}

// wDistributions plots the 5th, 50th and 95th percentile of the
// centered log10 fitness of every item over the summary window, items
// ordered by decreasing posterior median.
func wDistributions(dir string, tr *trace.Trace, s *posterior.Summary) error {
	rows := tr.Window(s.Window)
	centered := make([][]float64, len(rows))
	for k, w := range rows {
		centered[k] = stats.CenteredLog10(nil, w)
	}

	nitems := tr.NItems()
	order := make([]int, nitems)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return s.Items[order[a]].Median > s.Items[order[b]].Median
	})

	p5 := make(plotter.XYs, nitems)
	p50 := make(plotter.XYs, nitems)
	p95 := make(plotter.XYs, nitems)
	col := make([]float64, len(centered))
	for rank, i := range order {
		for k := range centered {
			col[k] = centered[k][i]
		}
		x := float64(rank)
		p5[rank] = plotter.XY{X: x, Y: stats.Percentile(col, 5)}
		p50[rank] = plotter.XY{X: x, Y: stats.Percentile(col, 50)}
		p95[rank] = plotter.XY{X: x, Y: stats.Percentile(col, 95)}
	}

	p := plot.New()
	p.X.Label.Text = "rank (big to small)"
	p.Y.Label.Text = "centered log10(w)"
	err := plotutil.AddScatters(p,
		"p5", p5,
		"median", p50,
		"p95", p95)
	if err != nil {
		return err
	}
	return save(p, dir, "w_distributions.png")
}

func truthVsMedian(dir string, s *posterior.Summary, truth []float64) error {
	if len(truth) != len(s.Items) {
		return fmt.Errorf("truth of %d items does not match summary of %d", len(truth), len(s.Items))
	}
	medians := make([]float64, len(s.Items))
	for i, it := range s.Items {
		medians[i] = it.Median
	}
	est := stats.CenteredLog10(nil, medians)
	tru := stats.CenteredLog10(nil, truth)

	pts := make(plotter.XYs, len(est))
	for i := range pts {
		pts[i] = plotter.XY{X: est[i], Y: tru[i]}
	}

	p := plot.New()
	p.X.Label.Text = "estimated centered log10(w)"
	p.Y.Label.Text = "true centered log10(w)"
	if err := plotutil.AddScatters(p, pts); err != nil {
		return err
	}
	return p.Save(4*vg.Inch, 4*vg.Inch, filepath.Join(dir, "w_truth_vs_median_w.png"))
}

func save(p *plot.Plot, dir, name string) error {
	path := filepath.Join(dir, name)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return err
	}
	log.Debugf("Saved %s", path)
	return nil
}
