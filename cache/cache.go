/*
Package cache provides an advisory on-disk store for bootstrap ensembles and
other expensive draw based summaries.

Entries are keyed by (dataset identity, model specification, seed), so a
cached ensemble is reused only for the exact computation that produced it.
The cache is strictly advisory: every failure degrades to a miss, and
deleting the store only costs recomputation time, never changes results.
*/
package cache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// Config holds configuration for an ensemble cache.
type Config struct {

	// Path is the directory for the store.  Ignored when InMemory is true.
	Path string

	// InMemory keeps the store in memory, useful for testing.
	InMemory bool

	// Logger receives cache diagnostics.  Nil disables logging.
	Logger *slog.Logger
}

// Cache is a badger-backed ensemble cache.
type Cache struct {
	db  *badger.DB
	log *slog.Logger
}

// Open opens or creates the store.
func Open(cfg Config) (*Cache, error) {

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: opening store at %q: %w", cfg.Path, err)
	}

	return &Cache{db: db, log: cfg.Logger}, nil
}

// Close releases the store.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key identifies one cached computation.
type Key struct {

	// Dataset identifies the observations, e.g. a content hash or a
	// versioned file name.
	Dataset string

	// Spec identifies the model specification that produced the draws.
	Spec string

	// Seed is the base seed of the run.
	Seed uint64
}

// bytes serializes the key with length-prefixed fields, so field content can
// never shift across a field boundary.
func (k Key) bytes() []byte {

	ha := fnv.New64a()
	var b [8]byte

	binary.LittleEndian.PutUint64(b[:], uint64(len(k.Dataset)))
	ha.Write(b[:])
	ha.Write([]byte(k.Dataset))

	binary.LittleEndian.PutUint64(b[:], uint64(len(k.Spec)))
	ha.Write(b[:])
	ha.Write([]byte(k.Spec))

	binary.LittleEndian.PutUint64(b[:], k.Seed)
	ha.Write(b[:])

	return ha.Sum(nil)
}

// Put stores an ensemble of draws under the key.  Errors are reported but a
// failed Put leaves the caller no worse off than an empty cache.
func (c *Cache) Put(key Key, draws [][]float64) error {

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(draws); err != nil {
		return fmt.Errorf("cache: encoding ensemble: %w", err)
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key.bytes(), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("cache: storing ensemble: %w", err)
	}

	if c.log != nil {
		c.log.Debug("ensemble cached",
			slog.String("dataset", key.Dataset),
			slog.String("spec", key.Spec),
			slog.Uint64("seed", key.Seed),
			slog.Int("draws", len(draws)))
	}

	return nil
}

// Get retrieves a cached ensemble.  A missing key, a decode failure, or any
// store error all return ok=false; the caller recomputes.
func (c *Cache) Get(key Key) ([][]float64, bool) {

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.bytes())
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if c.log != nil && err != badger.ErrKeyNotFound {
			c.log.Warn("cache read failed", slog.Any("error", err))
		}
		return nil, false
	}

	var draws [][]float64
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&draws); err != nil {
		if c.log != nil {
			c.log.Warn("cache entry undecodable, ignoring", slog.Any("error", err))
		}
		return nil, false
	}

	return draws, true
}
