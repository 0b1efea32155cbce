package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// KVIterator walks a key range in a KVStore, narrowest-interface style. It
// is what KVStore.Scan returns; the chain store itself reads by key only.
type KVIterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}

// KVStore is the persistent key/value collaborator consumed by the chain
// store (spec §6). Implementations must make Put idempotent.
type KVStore interface {
	Put(key, value []byte) error
	Get(key []byte) ([]byte, bool, error)
	Scan(prefix []byte) KVIterator
	Close() error
}

// LevelDB tuning named bit-exact in spec §6: 50MB write buffer, 10KB data
// block, 50MB block cache, no compression. Grounded on
// storage/database/leveldb_database.go's getLDBOptions in the klaytn pack.
var levelDBOptions = &opt.Options{
	WriteBuffer:        50 * opt.MiB,
	BlockSize:          10 * opt.KiB,
	BlockCacheCapacity: 50 * opt.MiB,
	Compression:        opt.NoCompression,
}

// LevelDBStore is the production KVStore, backed by goleveldb.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens (or creates) a goleveldb database at path with the
// tuning required by spec §6.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, levelDBOptions)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Put(key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return fmt.Errorf("leveldb put: %w", err)
	}
	return nil
}

func (s *LevelDBStore) Get(key []byte) ([]byte, bool, error) {
	v, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leveldb get: %w", err)
	}
	return v, true, nil
}

func (s *LevelDBStore) Scan(prefix []byte) KVIterator {
	it := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	return &levelDBIterator{it: it}
}

func (s *LevelDBStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("leveldb close: %w", err)
	}
	return nil
}

type levelDBIterator struct {
	it iterator.Iterator
}

func (i *levelDBIterator) Next() bool      { return i.it.Next() }
func (i *levelDBIterator) Key() []byte     { return i.it.Key() }
func (i *levelDBIterator) Value() []byte   { return i.it.Value() }
func (i *levelDBIterator) Release()        { i.it.Release() }

// MemKVStore is an in-memory KVStore used in tests and for short-lived
// nodes; Scan results are returned sorted by key for deterministic tests.
type MemKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemKVStore returns an empty in-memory KVStore.
func NewMemKVStore() *MemKVStore {
	return &MemKVStore{data: make(map[string][]byte)}
}

func (s *MemKVStore) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[string(key)] = cp
	return nil
}

func (s *MemKVStore) Get(key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (s *MemKVStore) Scan(prefix []byte) KVIterator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := string(prefix)
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{store: s, keys: keys, pos: -1}
}

func (s *MemKVStore) Close() error { return nil }

type memIterator struct {
	store *MemKVStore
	keys  []string
	pos   int
}

func (i *memIterator) Next() bool {
	i.pos++
	return i.pos < len(i.keys)
}

func (i *memIterator) Key() []byte {
	return []byte(i.keys[i.pos])
}

func (i *memIterator) Value() []byte {
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()
	return i.store.data[i.keys[i.pos]]
}

func (i *memIterator) Release() {}
