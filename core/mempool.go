package core

import "sync"

// Mempool owns the pending-transaction set (spec §4.5). It does not order
// by fee, does not age out transactions, and has no capacity bound; any
// such policy is enforced by an external collaborator (miner or operator).
type Mempool struct {
	mu  sync.RWMutex
	set *TransactionsSet
}

// NewMempool returns an empty mempool.
func NewMempool() *Mempool {
	return &Mempool{set: NewTransactionsSet()}
}

// Add inserts tx with no duplicate detection beyond identity.
func (m *Mempool) Add(tx *Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Add(tx)
}

// Remove deletes tx; idempotent.
func (m *Mempool) Remove(tx *Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Remove(tx)
}

// RemoveBatch deletes every transaction in txs; idempotent.
func (m *Mempool) RemoveBatch(txs []*Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.RemoveBatch(txs)
}

// Find reports whether tx is pending.
func (m *Mempool) Find(tx *Transaction) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Find(tx)
}

// FindHash returns the pending transaction with the given hash, if any.
func (m *Mempool) FindHash(h Hash) (*Transaction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.FindHash(h)
}

// Len returns the number of pending transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Len()
}

// Snapshot returns the pending transactions in insertion order, bounded to
// at most limit entries (limit <= 0 means unbounded). Used by BlockTemplate.
func (m *Mempool) Snapshot(limit int) []*Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.set.Slice()
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// ProjectedBalances accumulates, for every pending transaction, -amount-fee
// at From and +amount at To, giving a signed delta per address that lets
// the admission predicate detect conflicting sends from the same sender
// (spec §4.5).
func (m *Mempool) ProjectedBalances() map[Address]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[Address]int64)
	for _, tx := range m.set.Slice() {
		out[tx.From] -= int64(tx.Amount) + int64(tx.Fee)
		out[tx.To] += int64(tx.Amount)
	}
	return out
}

// Admit runs the full admission protocol under a single critical section:
// reject if tx is already pending, otherwise compute the projected
// balances of the pending set and ask decide whether tx may be admitted
// given them. On acceptance tx is inserted before the lock is released, so
// two concurrent admissions can never both spend the same pending funds
// (spec §4.6, §5).
func (m *Mempool) Admit(tx *Transaction, decide func(projected map[Address]int64) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set.Find(tx) {
		return false
	}
	projected := make(map[Address]int64)
	for _, pending := range m.set.Slice() {
		projected[pending.From] -= int64(pending.Amount) + int64(pending.Fee)
		projected[pending.To] += int64(pending.Amount)
	}
	if !decide(projected) {
		return false
	}
	m.set.Add(tx)
	return true
}
