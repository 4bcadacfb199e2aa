// Package state provides the BadgerDB-backed contract storage
// implementation behind the interpreter's storage hook.
package state

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/fortiblox/X1-EVM/internal/types"
)

// Key prefixes for BadgerDB storage.
// Using prefixes allows efficient iteration over specific data types.
var (
	// prefixSlot is the prefix for contract storage slots.
	// Key format: prefixSlot + contract address (20 bytes) + slot key (32 bytes)
	prefixSlot = []byte{0x01}
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("state store is closed")

// Config contains configuration for the store.
type Config struct {
	// Path is the directory path for the database.
	Path string

	// InMemory runs the database in memory (for testing).
	InMemory bool

	// SyncWrites ensures writes are synced to disk.
	// Setting to false improves performance but risks data loss on crash.
	SyncWrites bool

	// Logger is an optional logger. Set to nil to disable logging.
	Logger badger.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		InMemory:   false,
		SyncWrites: false, // Async for performance
		Logger:     nil,   // Disable logging by default
	}
}

// Store is a BadgerDB-backed persistent contract storage. Each contract
// address owns an independent 32-byte-key to 32-byte-value namespace;
// unset slots read as the zero hash and storing the zero hash deletes
// the slot, so a namespace holds only nonzero values.
type Store struct {
	db     *badger.DB
	closed atomic.Bool
}

// Open opens or creates the database at cfg.Path.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(cfg.Logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. Further operations return ErrClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// slotKey returns the BadgerDB key for one contract slot.
func slotKey(contract types.Address, key types.Hash) []byte {
	k := make([]byte, 1+types.AddressSize+types.HashSize)
	k[0] = prefixSlot[0]
	copy(k[1:], contract[:])
	copy(k[1+types.AddressSize:], key[:])
	return k
}

// Load returns the value at key in the contract's namespace, or the
// zero hash if the slot was never written.
func (s *Store) Load(contract types.Address, key types.Hash) (types.Hash, error) {
	var value types.Hash
	if s.closed.Load() {
		return value, ErrClosed
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey(contract, key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != types.HashSize {
				return fmt.Errorf("%w: slot value is %d bytes", types.ErrInvalidHash, len(val))
			}
			copy(value[:], val)
			return nil
		})
	})
	if err != nil {
		return types.Hash{}, err
	}
	return value, nil
}

// Store writes value at key in the contract's namespace. Writing the
// zero hash deletes the slot.
func (s *Store) Store(contract types.Address, key, value types.Hash) error {
	if s.closed.Load() {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		k := slotKey(contract, key)
		if value.IsZero() {
			return txn.Delete(k)
		}
		return txn.Set(k, value.Bytes())
	})
}

// SlotCount returns the number of nonzero slots held for the contract.
func (s *Store) SlotCount(contract types.Address) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	prefix := make([]byte, 1+types.AddressSize)
	prefix[0] = prefixSlot[0]
	copy(prefix[1:], contract[:])

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ContractStorage is one contract's view of the store. It implements
// the interpreter's storage hook.
type ContractStorage struct {
	store    *Store
	contract types.Address
}

// Storage returns the contract's storage view.
func (s *Store) Storage(contract types.Address) *ContractStorage {
	return &ContractStorage{store: s, contract: contract}
}

// Load implements the storage hook.
func (c *ContractStorage) Load(key types.Hash) (types.Hash, error) {
	return c.store.Load(c.contract, key)
}

// Store implements the storage hook.
func (c *ContractStorage) Store(key, value types.Hash) error {
	return c.store.Store(c.contract, key, value)
}
