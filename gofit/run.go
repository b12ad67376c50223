package main

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/exp/rand"

	"bitbucket.org/rmaillard/gofit/counts"
	"bitbucket.org/rmaillard/gofit/posterior"
	"bitbucket.org/rmaillard/gofit/report"
	"bitbucket.org/rmaillard/gofit/stats"
)

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	tbl, err := counts.ReadFile(*countsFileName)
	if err != nil {
		log.Fatal(err)
	}

	// generator for data preparation; the sampler owns its own
	rng := rand.New(rand.NewSource(uint64(*seed)))

	if *subsample > 0 {
		tbl, err = tbl.Subsample(rng, *subsample)
		if err != nil {
			log.Fatal(err)
		}
	}

	ms := newModelSettings(tbl)
	m, err := ms.create()
	if err != nil {
		log.Fatal(err)
	}

	// synthetic mode: draw a truth from the prior, swap the output
	// counts for generated ones and refit
	var wTruth []float64
	if *truth {
		var xTruth []float64
		wTruth, _, xTruth = m.GenerateTruth(rng)
		log.Noticef("Generated synthetic output counts from the %s prior", m.Name())
		if err = tbl.SetOutput(xTruth); err != nil {
			log.Fatal(err)
		}
		m, err = ms.create()
		if err != nil {
			log.Fatal(err)
		}
	}

	summary.Prior = m.Name()
	summary.NItems = m.NItems()

	ss := newSamplerSettings(m)
	s, err := ss.create()
	if err != nil {
		log.Fatal(err)
	}
	defer ss.close()

	s.WatchSignals(os.Interrupt, syscall.SIGTERM, syscall.SIGUSR2)

	tr, err := s.Run(*iterations)
	if err != nil {
		log.Fatal(err)
	}
	summary.Sampler = s.Summary()

	post, err := posterior.Summarize(tr, *window)
	if err != nil {
		log.Fatal(err)
	}

	if err = tbl.WriteSummaryFile(*outF, post); err != nil {
		log.Fatal("Error writing posterior summary:", err)
	}
	log.Noticef("Wrote posterior summary to %s", *outF)

	if wTruth != nil {
		medians := make([]float64, len(post.Items))
		for i, it := range post.Items {
			medians[i] = it.Median
		}
		rho := stats.Spearman(medians, wTruth)
		log.Noticef("Spearman correlation with the truth: %g", rho)
		summary.Spearman = rho
	}

	if *plotsDir != "" {
		if err = report.Write(*plotsDir, tr, post, wTruth); err != nil {
			log.Error("Error writing diagnostic plots:", err)
		}
	}

	endTime := time.Now()

	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}
