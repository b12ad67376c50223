package main

import "bitbucket.org/rmaillard/gofit/gibbs"

// RunSummary is storing gofit run summary information.
type RunSummary struct {
	// Version stores gofit version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// Prior is the fitness prior family name.
	Prior string `json:"prior"`
	// NItems is the number of items fitted (after subsampling).
	NItems int `json:"nItems"`
	// Sampler is the sampler summary.
	Sampler *gibbs.Summary `json:"sampler,omitempty"`
	// Spearman is the rank correlation between the posterior medians
	// and the generating truth (synthetic runs only).
	Spearman float64 `json:"spearman,omitempty"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
}
