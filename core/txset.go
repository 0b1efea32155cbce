package core

// TransactionsSet is an ordered, duplicate-free collection of transactions
// that is also indexable by hash in O(1). It backs both block contents and
// the mempool (spec §3). Insertion preserves insertion order. The set
// defines no equality operation of its own.
type TransactionsSet struct {
	order []*Transaction
	index map[Hash]int
}

// NewTransactionsSet returns an empty set.
func NewTransactionsSet() *TransactionsSet {
	return &TransactionsSet{index: make(map[Hash]int)}
}

// Add appends tx to the set if its hash is not already present. It reports
// whether the transaction was newly inserted.
func (s *TransactionsSet) Add(tx *Transaction) bool {
	h := tx.Hash()
	if _, ok := s.index[h]; ok {
		return false
	}
	s.index[h] = len(s.order)
	s.order = append(s.order, tx)
	return true
}

// Remove deletes tx (matched by hash) from the set. Idempotent: removing an
// absent transaction is a no-op.
func (s *TransactionsSet) Remove(tx *Transaction) {
	s.RemoveHash(tx.Hash())
}

// RemoveHash deletes the transaction with the given hash, if present.
func (s *TransactionsSet) RemoveHash(h Hash) {
	idx, ok := s.index[h]
	if !ok {
		return
	}
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.index, h)
	for i := idx; i < len(s.order); i++ {
		s.index[s.order[i].Hash()] = i
	}
}

// RemoveBatch removes every transaction in txs. Idempotent.
func (s *TransactionsSet) RemoveBatch(txs []*Transaction) {
	for _, tx := range txs {
		s.Remove(tx)
	}
}

// Find reports whether tx (matched by hash) is present in the set.
func (s *TransactionsSet) Find(tx *Transaction) bool {
	_, ok := s.index[tx.Hash()]
	return ok
}

// FindHash returns the transaction with the given hash, if present.
func (s *TransactionsSet) FindHash(h Hash) (*Transaction, bool) {
	idx, ok := s.index[h]
	if !ok {
		return nil, false
	}
	return s.order[idx], true
}

// Len returns the number of transactions in the set.
func (s *TransactionsSet) Len() int { return len(s.order) }

// Slice returns the transactions in insertion order. The returned slice is
// a copy; mutating it does not affect the set.
func (s *TransactionsSet) Slice() []*Transaction {
	out := make([]*Transaction, len(s.order))
	copy(out, s.order)
	return out
}
