package main

import (
	"fmt"
	"os"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/rmaillard/gofit/checkpoint"
	"bitbucket.org/rmaillard/gofit/gibbs"
)

// checkpointKey is the bucket key the chain state is stored under.
var checkpointKey = []byte("chain")

// samplerSettings stores settings for creation of a new sampler.
type samplerSettings struct {
	model gibbs.Model

	report int
	accept int

	progress bool

	trajFileName       string
	checkpointFileName string
	checkpointSeconds  float64

	seed int64

	trajF *os.File
	db    *bolt.DB
}

// newSamplerSettings creates a new samplerSettings from
// the command line parameters (global variables).
func newSamplerSettings(model gibbs.Model) *samplerSettings {
	return &samplerSettings{
		model: model,

		report: *repPeriod,
		accept: *accept,

		progress: *progress,

		trajFileName:       *trajF,
		checkpointFileName: *checkpointFileName,
		checkpointSeconds:  *checkpointSeconds,

		seed: *seed,
	}
}

// create creates and initializes a new sampler from samplerSettings.
func (ss *samplerSettings) create() (*gibbs.Sampler, error) {
	s := gibbs.New(ss.model, ss.seed)
	s.AccPeriod = ss.accept
	s.RepPeriod = ss.report
	s.Progress = ss.progress

	f := os.Stdout
	if ss.trajFileName != "" {
		var err error
		f, err = os.Create(ss.trajFileName)
		if err != nil {
			return nil, fmt.Errorf("Error creating trajectory file: %v", err)
		}
		ss.trajF = f
	}
	s.SetTrajectoryOutput(f)

	if ss.checkpointFileName != "" {
		db, err := bolt.Open(ss.checkpointFileName, 0666, nil)
		if err != nil {
			return nil, fmt.Errorf("Error opening checkpoint file: %v", err)
		}
		ss.db = db
		s.SetCheckpoint(checkpoint.NewCheckpointIO(db, checkpointKey, ss.checkpointSeconds))
		log.Infof("Checkpointing to %s every %g seconds", ss.checkpointFileName, ss.checkpointSeconds)
	}

	return s, nil
}

// close releases the files opened by create.
func (ss *samplerSettings) close() {
	if ss.trajF != nil {
		ss.trajF.Close()
	}
	if ss.db != nil {
		ss.db.Close()
	}
}
