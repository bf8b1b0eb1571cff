// Package storage persists governance sessions in LevelDB so a session can be driven across
// several CLI invocations.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/compound-finance/comet-governance/types"
)

// ErrNotFound is returned when a key has no record.
var ErrNotFound = errors.New("record does not exist")

// Keys of the session records.
const (
	KeyClock    = "session.clock"
	KeyTimelock = "session.timelock"
	KeyGovernor = "session.governor"
	KeyEvents   = "session.events"
)

// Item is a key and the value to store under it as JSON.
type Item struct {
	Key   string
	Value any
}

// LevelDB is a JSON record store on top of goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// Open opens, or creates, the database in the directory at path.
func Open(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, wrapCoreError(err)
	}

	return &LevelDB{db: db}, nil
}

// OpenMemory opens a database that lives in memory only.
func OpenMemory() (*LevelDB, error) {
	db, err := leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	if err != nil {
		return nil, wrapCoreError(err)
	}

	return &LevelDB{db: db}, nil
}

// Close releases the database.
func (s *LevelDB) Close() error {
	return s.db.Close()
}

// Has reports whether key has a record.
func (s *LevelDB) Has(key string) (bool, error) {
	ok, err := s.db.Has([]byte(key), nil)
	if err != nil {
		return false, wrapCoreError(err)
	}

	return ok, nil
}

// Get decodes the record under key into v.
func (s *LevelDB) Get(key string, v any) error {
	b, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return wrapCoreError(err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return nil
}

// Put stores v under key, replacing any previous record.
func (s *LevelDB) Put(key string, v any) error {
	return s.Write(Item{Key: key, Value: v})
}

// Write stores every item in a single batch: either all records are written or none.
func (s *LevelDB) Write(items ...Item) error {
	if len(items) == 0 {
		return errors.New("empty values")
	}

	batch := new(leveldb.Batch)
	for _, item := range items {
		encoded, err := json.Marshal(item.Value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", item.Key, err)
		}
		batch.Put([]byte(item.Key), encoded)
	}

	return wrapCoreError(s.db.Write(batch, nil))
}

// Delete removes the record under key. Deleting a missing key is not an error.
func (s *LevelDB) Delete(key string) error {
	return wrapCoreError(s.db.Delete([]byte(key), nil))
}

// Session is the persisted state of a governance session.
type Session struct {
	Clock    time.Time
	Timelock types.TimelockState
	Governor types.GovernorState
	Events   []types.Event
}

// SaveSession writes every part of sess in one batch.
func (s *LevelDB) SaveSession(sess Session) error {
	events := sess.Events
	if events == nil {
		events = []types.Event{}
	}

	return s.Write(
		Item{Key: KeyClock, Value: sess.Clock},
		Item{Key: KeyTimelock, Value: sess.Timelock},
		Item{Key: KeyGovernor, Value: sess.Governor},
		Item{Key: KeyEvents, Value: events},
	)
}

// LoadSession reads a session written by SaveSession. It returns ErrNotFound when no session
// was saved.
func (s *LevelDB) LoadSession() (Session, error) {
	var sess Session
	if err := s.Get(KeyClock, &sess.Clock); err != nil {
		return Session{}, err
	}
	if err := s.Get(KeyTimelock, &sess.Timelock); err != nil {
		return Session{}, err
	}
	if err := s.Get(KeyGovernor, &sess.Governor); err != nil {
		return Session{}, err
	}
	if err := s.Get(KeyEvents, &sess.Events); err != nil {
		return Session{}, err
	}

	return sess, nil
}

func wrapCoreError(err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("storage core error: %w", err)
}
