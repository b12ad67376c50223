/*

Gofit infers the relative fitness of a pool of items from paired count
data: how often each item was seen going into an experiment and how
often it was seen coming out. The counts are modeled with a
Dirichlet-multinomial likelihood and a latent per-item fitness vector,
sampled by Metropolis-within-Gibbs.

The basic usage of gofit looks like this:

	gofit counts.csv

, this will fit the log-normal prior with default settings and write
the posterior summary to output.csv.

You can change the prior and the chain length:

	gofit --prior pareto --iter 10000 counts.csv

To see all the options run:

	gofit -h

*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("gofit")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("gofit", "fitness inference from paired count data").Version(version)

	// input counts
	countsFileName = app.Arg("counts", "CSV table with one row per item: identifier, input count, output count").Required().ExistingFile()

	// model parameters
	priorName = app.Flag("prior", "fitness prior family "+
		"(lognormal: log-normal, "+
		"pareto: Pareto with support above one, "+
		"sympareto: symmetric Pareto on the log scale, "+
		"gamma: gamma"+
		")").Default("lognormal").Enum("lognormal", "pareto", "sympareto", "gamma")
	alpha = app.Flag("alpha", "concentration multiplier of the Dirichlet weights").Default("1").Float64()
	mu    = app.Flag("mu", "log-normal prior location").Default("0").Float64()
	sigma = app.Flag("sigma", "log-normal prior scale").Default("1").Float64()
	tailT = app.Flag("t", "Pareto and symmetric Pareto tail parameter").Default("1.5").Float64()
	shape = app.Flag("shape", "gamma prior shape").Default("1").Float64()
	scale = app.Flag("scale", "gamma prior scale").Default("1").Float64()

	// sampler parameters
	iterations = app.Flag("iter", "number of iterations").Default("3000").Int()
	window     = app.Flag("window", "number of trailing draws to summarize").Default("1000").Int()
	repPeriod  = app.Flag("report", "report every N iterations").Default("10").Int()
	accept     = app.Flag("accept", "report acceptance rate every N iterations").Default("200").Int()

	// data handling
	subsample = app.Flag("subsample", "fit a uniform random subset of N items").Default("0").Int()
	truth     = app.Flag("truth", "replace the output counts with synthetic data drawn from the prior and fit those").Bool()

	// checkpoints
	checkpointFileName = app.Flag("checkpoint", "checkpoint file").String()
	checkpointSeconds  = app.Flag("checkpoint-seconds", "how often checkpoint should be saved in seconds").Default("30").Float64()

	// technical
	seed       = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outF     = app.Flag("out", "write posterior summary to a file").Default("output.csv").String()
	trajF    = app.Flag("traj", "write sampling trajectory to a file (stdout by default)").String()
	plotsDir = app.Flag("plots", "write diagnostic plots to a directory").String()
	progress = app.Flag("progress", "show progress bar during sampling").Bool()
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, pkg := range []string{"gofit", "gibbs", "fitness", "counts", "checkpoint", "report"} {
		logging.SetLevel(level, pkg)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args
	summary.Seed = *seed

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
