// Package runstore provides persistent storage for execution outcomes.
//
// Records are keyed by a BLAKE3 digest of code and input, so replaying
// the same program against the same data finds its previous outcome.
// Values are gob-encoded and zstd-compressed before hitting disk.
package runstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
	bolt "go.etcd.io/bbolt"

	"github.com/fortiblox/X1-EVM/internal/types"
	"github.com/fortiblox/X1-EVM/pkg/evm"
)

var (
	// ErrRunNotFound is returned when no record exists for a key.
	ErrRunNotFound = errors.New("run not found")

	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("runstore closed")
)

// Bucket names for BoltDB.
var (
	// bucketRuns stores compressed records keyed by content digest.
	bucketRuns = []byte("runs")

	// bucketMetadata stores store-wide counters.
	bucketMetadata = []byte("metadata")
)

var keyRunCount = []byte("run_count")

// Config holds runstore configuration options.
type Config struct {
	// Path is the file path for the database.
	Path string

	// NoSync disables fsync after each write (faster but less durable).
	NoSync bool

	// ReadOnly opens the database in read-only mode.
	ReadOnly bool
}

// DefaultConfig returns the default runstore configuration.
func DefaultConfig(path string) Config {
	return Config{Path: path}
}

// Record is one stored execution outcome.
type Record struct {
	// Output is the returned or reverted data.
	Output []byte

	// Err is the rendered error for reverted and fatal runs, empty on
	// a normal return.
	Err string

	// Reverted distinguishes an explicit REVERT from a fatal error.
	Reverted bool

	// Steps is the number of instructions executed.
	Steps uint64

	// When is the time the record was written.
	When time.Time
}

// Key derives the content digest for a code/input pair.
func Key(code, input []byte) types.Hash {
	h := blake3.New()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(code)))
	h.Write(n[:])
	h.Write(code)
	h.Write(input)
	var key types.Hash
	copy(key[:], h.Sum(nil))
	return key
}

// Store is a BoltDB-backed record store.
type Store struct {
	db      *bolt.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu       sync.RWMutex
	runCount uint64
	closed   bool
}

// Open creates or opens a runstore at config.Path.
func Open(config Config) (*Store, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:  5 * time.Second,
		NoSync:   config.NoSync,
		ReadOnly: config.ReadOnly,
	}
	db, err := bolt.Open(config.Path, 0600, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	store := &Store{db: db, encoder: encoder, decoder: decoder}

	if !config.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			for _, name := range [][]byte{bucketRuns, bucketMetadata} {
				if _, err := tx.CreateBucketIfNotExists(name); err != nil {
					return fmt.Errorf("create bucket %s: %w", name, err)
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMetadata)
		if meta == nil {
			return nil
		}
		if v := meta.Get(keyRunCount); len(v) == 8 {
			store.runCount = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the database. Further operations return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

// Put records the outcome of running code against input and returns the
// record's key. An existing record for the same pair is overwritten.
func (s *Store) Put(code, input []byte, result *evm.Result) (types.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.Hash{}, ErrClosed
	}

	rec := Record{
		Output:   result.Output,
		Reverted: result.Reverted(),
		Steps:    result.Steps,
		When:     time.Now().UTC(),
	}
	if result.Err != nil {
		rec.Err = result.Err.Error()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return types.Hash{}, fmt.Errorf("encode record: %w", err)
	}
	compressed := s.encoder.EncodeAll(buf.Bytes(), nil)

	key := Key(code, input)
	err := s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		isNew := runs.Get(key[:]) == nil
		if err := runs.Put(key[:], compressed); err != nil {
			return err
		}
		if isNew {
			s.runCount++
			var v [8]byte
			binary.BigEndian.PutUint64(v[:], s.runCount)
			return tx.Bucket(bucketMetadata).Put(keyRunCount, v[:])
		}
		return nil
	})
	if err != nil {
		return types.Hash{}, err
	}
	return key, nil
}

// Get retrieves the record stored under key.
func (s *Store) Get(key types.Hash) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var compressed []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		if runs == nil {
			return ErrRunNotFound
		}
		v := runs.Get(key[:])
		if v == nil {
			return ErrRunNotFound
		}
		compressed = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress record: %w", err)
	}
	var rec Record
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

// GetByContent retrieves the record for a code/input pair.
func (s *Store) GetByContent(code, input []byte) (*Record, error) {
	return s.Get(Key(code, input))
}

// Count returns the number of records stored.
func (s *Store) Count() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runCount
}
