package main

import (
	"fmt"

	"bitbucket.org/rmaillard/gofit/counts"
	"bitbucket.org/rmaillard/gofit/fitness"
)

// modelSettings stores settings for creating a new model.
type modelSettings struct {
	name string
	data *counts.Table

	alpha float64
	mu    float64
	sigma float64
	t     float64
	shape float64
	scale float64
}

// newModelSettings initializes modelSettings from global
// variables (command-line arguments).
func newModelSettings(data *counts.Table) *modelSettings {
	return &modelSettings{
		name: *priorName,
		data: data,

		alpha: *alpha,
		mu:    *mu,
		sigma: *sigma,
		t:     *tailT,
		shape: *shape,
		scale: *scale,
	}
}

// create creates a new model from modelSettings. The count vectors are
// taken from the table at call time, so recreating after a change of
// the output column yields a model of the new counts.
func (ms *modelSettings) create() (fitness.Model, error) {
	z, x := ms.data.ZX()

	switch ms.name {
	case "lognormal":
		log.Info("Using log-normal prior")
		log.Infof("mu=%g, sigma=%g", ms.mu, ms.sigma)
		return fitness.NewLogNormal(z, x, ms.mu, ms.sigma, ms.alpha)
	case "pareto":
		log.Info("Using Pareto prior")
		log.Infof("t=%g", ms.t)
		return fitness.NewPareto(z, x, ms.t, ms.alpha)
	case "sympareto":
		log.Info("Using symmetric Pareto prior")
		log.Infof("t=%g", ms.t)
		return fitness.NewSymPareto(z, x, ms.t, ms.alpha)
	case "gamma":
		log.Info("Using gamma prior")
		log.Infof("shape=%g, scale=%g", ms.shape, ms.scale)
		return fitness.NewGamma(z, x, ms.shape, ms.scale, ms.alpha)
	}
	return nil, fmt.Errorf("Unknown prior specification: %s", ms.name)
}
