package core

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Key namespaces for the persisted layout named in spec §6, mirroring the
// teacher's ledger key-prefix convention (contract_management.go's
// ownerPrefix/pausedPrefix).
const (
	kvPrefixBlock  = "block/"
	kvPrefixDepth  = "by_depth/"
	kvPrefixTxHash = "by_tx/"
)

// ChainStore owns the linear, hash-linked block database and its secondary
// indexes (spec §4.3). Writes are single-threaded (the commit path only);
// reads are concurrent, guarded by an RWMutex over the in-memory indexes.
type ChainStore struct {
	kv     KVStore
	logger *log.Logger

	mu       sync.RWMutex
	byHash   map[Hash]*Block
	byDepth  map[uint64]Hash
	byTxHash map[Hash]Hash
	top      Hash
	topDepth uint64
	hasTop   bool
}

// NewChainStore wraps kv with the in-memory indexes. Call Load to rehydrate
// them from a previously populated store.
func NewChainStore(kv KVStore, logger *log.Logger) *ChainStore {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ChainStore{
		kv:       kv,
		logger:   logger,
		byHash:   make(map[Hash]*Block),
		byDepth:  make(map[uint64]Hash),
		byTxHash: make(map[Hash]Hash),
	}
}

func depthKey(d uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", kvPrefixDepth, d))
}

func blockKey(h Hash) []byte {
	return append([]byte(kvPrefixBlock), h[:]...)
}

func txKey(h Hash) []byte {
	return append([]byte(kvPrefixTxHash), h[:]...)
}

// Load rehydrates the in-memory indexes from the KV collaborator by
// replaying blocks depth-by-depth from zero until a gap is found.
func (c *ChainStore) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d := uint64(0); ; d++ {
		raw, ok, err := c.kv.Get(depthKey(d))
		if err != nil {
			return fmt.Errorf("chainstore load depth %d: %w", d, err)
		}
		if !ok {
			break
		}
		hash, err := hashFromRaw(raw)
		if err != nil {
			return fmt.Errorf("chainstore load depth %d: %w", d, err)
		}
		blockRaw, ok, err := c.kv.Get(blockKey(hash))
		if err != nil {
			return fmt.Errorf("chainstore load block %x: %w", hash, err)
		}
		if !ok {
			return fmt.Errorf("chainstore load: missing block for depth %d", d)
		}
		block, err := DecodeBlock(blockRaw)
		if err != nil {
			return fmt.Errorf("chainstore load: decode block at depth %d: %w", d, err)
		}
		c.indexLocked(block, hash)
	}
	c.logger.WithField("depth", c.topDepth).Info("chainstore: loaded from storage")
	return nil
}

func hashFromRaw(b []byte) (Hash, error) {
	var h Hash
	if len(b) != len(h) {
		return h, ErrCodec
	}
	copy(h[:], b)
	return h, nil
}

// indexLocked updates all in-memory indexes for a block already known to be
// valid; mu must be held for writing.
func (c *ChainStore) indexLocked(b *Block, hash Hash) {
	c.byHash[hash] = b
	c.byDepth[b.Depth] = hash
	for _, tx := range b.Txs.Slice() {
		c.byTxHash[tx.Hash()] = hash
	}
	c.top = hash
	c.topDepth = b.Depth
	c.hasTop = true
}

// TryAddBlock attempts to extend the chain with b. It succeeds iff b links
// to the current top (or the chain is empty and b is depth 0) and its hash
// is not already present by any index. On success, b is persisted and all
// indexes are updated atomically with respect to concurrent readers.
func (c *ChainStore) TryAddBlock(b *Block) bool {
	hash := b.Hash()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byHash[hash]; exists {
		c.logger.WithField("hash", fmt.Sprintf("%x", hash)).Warn("chainstore: duplicate block rejected")
		return false
	}
	if c.hasTop {
		if b.PrevBlockHash != c.top || b.Depth != c.topDepth+1 {
			c.logger.WithFields(log.Fields{"depth": b.Depth, "top_depth": c.topDepth}).Warn("chainstore: chain link mismatch")
			return false
		}
	} else if b.Depth != 0 {
		c.logger.Warn("chainstore: first block must be depth 0")
		return false
	}

	if err := c.persistLocked(b, hash); err != nil {
		c.logger.WithError(err).Error("chainstore: storage failure during commit")
		return false
	}
	c.indexLocked(b, hash)
	c.logger.WithFields(log.Fields{"depth": b.Depth, "hash": fmt.Sprintf("%x", hash)}).Info("chainstore: block added")
	return true
}

// persistLocked writes b and its index entries to the KV collaborator.
// Writes are idempotent: re-writing an already-stored block is harmless.
func (c *ChainStore) persistLocked(b *Block, hash Hash) error {
	if err := c.kv.Put(blockKey(hash), b.Encode()); err != nil {
		return fmt.Errorf("persist block: %w", err)
	}
	if err := c.kv.Put(depthKey(b.Depth), hash[:]); err != nil {
		return fmt.Errorf("persist depth index: %w", err)
	}
	for _, tx := range b.Txs.Slice() {
		if err := c.kv.Put(txKey(tx.Hash()), hash[:]); err != nil {
			return fmt.Errorf("persist tx index: %w", err)
		}
	}
	return nil
}

// FindBlock returns the block with the given hash, if any.
func (c *ChainStore) FindBlock(hash Hash) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.byHash[hash]
	return b, ok
}

// FindBlockHashByDepth returns the hash of the block at the given depth, if any.
func (c *ChainStore) FindBlockHashByDepth(depth uint64) (Hash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.byDepth[depth]
	return h, ok
}

// FindTransaction returns the hash of the block containing the given
// transaction hash, if any.
func (c *ChainStore) FindTransaction(txHash Hash) (Hash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.byTxHash[txHash]
	return h, ok
}

// TopBlock returns the current chain tip. It panics if the chain is empty,
// which should never happen once genesis has been committed during core
// initialization.
func (c *ChainStore) TopBlock() *Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasTop {
		panic("core: chainstore has no blocks")
	}
	return c.byHash[c.top]
}

// Len returns the number of blocks currently on the chain.
func (c *ChainStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byHash)
}
