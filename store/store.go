// Package store persists move annotations in a BadgerDB archive.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("annotation not found")

const entryPrefix = "entry/"

// Entry is one annotated move.
type Entry struct {
	Event      string    `json:"event"`
	Ply        int       `json:"ply"`
	FEN        string    `json:"fen"`
	Move       string    `json:"move"`
	Commentary []string  `json:"commentary"`
	Threat     string    `json:"threat,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func entryKey(event string, ply int, move string) []byte {
	return []byte(fmt.Sprintf("%s%s/%04d/%s", entryPrefix, event, ply, move))
}

// Key returns the archive key of e. Keys of one event sort by ply.
func (e Entry) Key() []byte {
	return entryKey(e.Event, e.Ply, e.Move)
}

// Archive wraps BadgerDB for annotation storage.
type Archive struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens the archive in dir. An empty dir keeps everything in memory.
func Open(dir string, log zerolog.Logger) (*Archive, error) {
	log = log.With().Str("component", "store").Logger()

	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", dir, err)
	}
	log.Debug().Str("dir", dir).Bool("in_memory", dir == "").Msg("archive opened")
	return &Archive{db: db, log: log}, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Put stores e, replacing any entry with the same key. A zero CreatedAt is
// set to the current time.
func (a *Archive) Put(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(e.Key(), data)
	})
}

// Get loads the entry for move at ply of event.
func (a *Archive) Get(event string, ply int, move string) (Entry, error) {
	var e Entry
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(event, ply, move))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s ply %d %s", ErrNotFound, event, ply, move)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	return e, err
}

// List returns the entries of event ordered by ply. An empty event lists the
// whole archive.
func (a *Archive) List(event string) ([]Entry, error) {
	prefix := []byte(entryPrefix)
	if event != "" {
		prefix = []byte(entryPrefix + event + "/")
	}

	var entries []Entry
	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// badgerLogger routes badger's internal logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
