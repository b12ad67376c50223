// Package checkpoint persists the state of a sampling chain in a bolt
// database so an interrupted run can be resumed.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// MAIN is the bucket name for all chain states.
var MAIN = []byte("main")

// State stores everything needed to resume a chain: the current
// fitness vector, the number of finished iterations and the last
// acceptance fraction. Final marks a completed run.
type State struct {
	W        []float64
	Iter     int
	Accepted float64
	Final    bool
}

// CheckpointIO saves and loads chain states under a fixed key.
type CheckpointIO struct {
	db      *bolt.DB
	key     []byte
	last    time.Time
	seconds float64
}

// NewCheckpointIO creates a new CheckpointIO; seconds is the minimum
// interval between saves as seen by Old.
func NewCheckpointIO(db *bolt.DB, key []byte, seconds float64) *CheckpointIO {
	return &CheckpointIO{
		db:      db,
		key:     key,
		seconds: seconds,
	}
}

// Save writes the chain state to the database.
func (s *CheckpointIO) Save(state *State) error {
	// Even if saving fails, we do not want to run this code too often.
	s.SetNow()
	b, err := json.Marshal(state)
	if err != nil {
		log.Error("Error serializing chain state", err)
		return err
	}
	err = SaveData(s.db, s.key, b)
	if err != nil {
		log.Error("Error saving chain state", err)
	}
	return err
}

// Load returns the stored chain state, or nil if there is none.
func (s *CheckpointIO) Load() (*State, error) {
	b, err := LoadData(s.db, s.key)
	if err != nil || b == nil {
		return nil, err
	}

	var state *State
	err = json.Unmarshal(b, &state)
	if err != nil {
		return nil, err
	}
	if state == nil || len(state.W) == 0 {
		return nil, nil
	}

	if state.Final {
		log.Noticef("Found finished sampling checkpoint (iter=%v)", state.Iter)
	} else {
		log.Noticef("Found unfinished sampling checkpoint (iter=%v)", state.Iter)
	}

	return state, nil
}

// Old returns true if the last save was long enough ago.
func (s *CheckpointIO) Old() bool {
	return time.Since(s.last).Seconds() > s.seconds
}

// SetNow sets the last save time to now.
func (s *CheckpointIO) SetNow() {
	s.last = time.Now()
}

// SaveData saves a value in the bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads a value from the bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
