package core

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Core composes the chain store, mempool, account state engine, outcome
// cache and event bus behind the single API a node's RPC and P2P layers
// actually call (spec §5). It owns the commit mutex that gives
// BlockAdded subscribers a strictly depth-increasing view of the chain.
type Core struct {
	chain   *ChainStore
	mempool *Mempool
	state   *AccountStateEngine
	outcome *OutcomeCache
	vault   KeyVault
	vm      VM
	network NetworkPublisher
	logger  *log.Logger

	commitMu sync.Mutex

	blockAdded   *Topic[*Block]
	newPendingTx *Topic[*Transaction]
}

// NewCore wires a Core from its collaborators. kv must already be open.
// If kv holds no chain yet, genesis is committed as the first block.
func NewCore(kv KVStore, vault KeyVault, vm VM, network NetworkPublisher, logger *log.Logger) (*Core, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if vm == nil {
		vm = NewEchoVM()
	}
	if network == nil {
		network = NoopNetworkPublisher{}
	}

	chain := NewChainStore(kv, logger)
	if err := chain.Load(); err != nil {
		return nil, fmt.Errorf("core: load chain: %w", err)
	}

	outcome := NewOutcomeCache()
	state := NewAccountStateEngine(vm, outcome, logger)

	c := &Core{
		chain:        chain,
		mempool:      NewMempool(),
		state:        state,
		outcome:      outcome,
		vault:        vault,
		vm:           vm,
		network:      network,
		logger:       logger,
		blockAdded:   NewTopic[*Block](),
		newPendingTx: NewTopic[*Transaction](),
	}

	if chain.Len() == 0 {
		g := Genesis()
		if !chain.TryAddBlock(g) {
			return nil, fmt.Errorf("core: failed to commit genesis block")
		}
		state.UpdateFromGenesis(g)
		logger.Info("core: genesis committed")
	} else {
		if err := c.replayState(); err != nil {
			return nil, fmt.Errorf("core: replay state: %w", err)
		}
	}

	return c, nil
}

// replayState rebuilds account state by re-applying every persisted block
// in depth order, used when a Core is constructed over a non-empty store.
func (c *Core) replayState() error {
	g := Genesis()
	genesisHash, ok := c.chain.FindBlockHashByDepth(0)
	if !ok {
		return fmt.Errorf("missing genesis at depth 0")
	}
	stored, ok := c.chain.FindBlock(genesisHash)
	if !ok || stored.Hash() != g.Hash() {
		return fmt.Errorf("stored genesis does not match the process-wide genesis constant")
	}
	c.state.UpdateFromGenesis(stored)

	for d := uint64(1); ; d++ {
		hash, ok := c.chain.FindBlockHashByDepth(d)
		if !ok {
			break
		}
		b, ok := c.chain.FindBlock(hash)
		if !ok {
			return fmt.Errorf("chain store inconsistent at depth %d", d)
		}
		c.state.Update(b)
	}
	return nil
}

// ThisNodeAddress returns the address this node signs outbound transactions
// with, or the null address if it holds no key vault.
func (c *Core) ThisNodeAddress() Address {
	if c.vault == nil {
		return NullAddress
	}
	return c.vault.Address()
}

// Balance returns addr's current confirmed coin balance.
func (c *Core) Balance(addr Address) uint64 {
	return c.state.Balance(addr)
}

// TransactionOutcome returns the codec image of txHash's recorded execution
// outcome, or nil if txHash has not yet been committed in a block.
func (c *Core) TransactionOutcome(txHash Hash) []byte {
	return c.outcome.Get(txHash)
}

// TopBlock returns the current chain tip.
func (c *Core) TopBlock() *Block {
	return c.chain.TopBlock()
}

// FindTransaction reports the hash of the block containing txHash, if any.
func (c *Core) FindTransaction(txHash Hash) (Hash, bool) {
	return c.chain.FindTransaction(txHash)
}

// AddPendingTransaction validates tx's signature and funds against
// currently-pending transactions, and admits it into the mempool
// (spec §4.5, §4.6). It reports the admission outcome and never blocks
// waiting for a block.
func (c *Core) AddPendingTransaction(tx *Transaction) bool {
	if !tx.VerifySignature() {
		c.logger.WithField("tx", fmt.Sprintf("%x", tx.Hash())).Warn("core: rejected transaction with invalid signature")
		return false
	}

	accepted := c.mempool.Admit(tx, func(projected map[Address]int64) bool {
		confirmed := int64(c.state.Balance(tx.From))
		available := confirmed + projected[tx.From]
		return available >= int64(tx.Amount)+int64(tx.Fee)
	})
	if !accepted {
		c.logger.WithField("tx", fmt.Sprintf("%x", tx.Hash())).Debug("core: transaction not admitted")
		return false
	}

	c.newPendingTx.Notify(tx)
	c.network.PublishTransaction(tx)
	return true
}

// AddPendingAndWait admits tx and then blocks until either a block
// containing tx has been committed (returning its outcome) or cancel is
// closed/fires (returning ok=false). It is the synchronous counterpart to
// AddPendingTransaction for callers that want a definite result, e.g. an RPC
// handler answering a client request (spec §5, §9).
func (c *Core) AddPendingAndWait(tx *Transaction, cancel <-chan struct{}) (TxOutcome, bool) {
	if !c.AddPendingTransaction(tx) {
		return TxOutcome{}, false
	}

	txHash := tx.Hash()
	done := make(chan TxOutcome, 1)

	var id SubscriptionID
	id = c.blockAdded.Subscribe(func(b *Block) {
		if _, found := b.Txs.FindHash(txHash); !found {
			return
		}
		raw := c.outcome.Get(txHash)
		outcome, err := DecodeTxOutcome(raw)
		if err != nil {
			return
		}
		select {
		case done <- outcome:
		default:
		}
	})
	defer c.blockAdded.Unsubscribe(id)

	select {
	case outcome := <-done:
		return outcome, true
	case <-cancel:
		return TxOutcome{}, false
	}
}

// BlockTemplate builds a candidate next block from the current chain tip
// and the pending transactions in the mempool, coinbase credited to this
// node's address (spec §4.5 "miner" collaborator).
func (c *Core) BlockTemplate() *Block {
	top := c.chain.TopBlock()
	return &Block{
		Depth:         top.Depth + 1,
		Nonce:         0,
		PrevBlockHash: top.Hash(),
		Timestamp:     time.Now().Unix(),
		Coinbase:      c.ThisNodeAddress(),
		Txs:           newTransactionsSetFrom(c.mempool.Snapshot(BlockTxCap)),
	}
}

func newTransactionsSetFrom(txs []*Transaction) *TransactionsSet {
	set := NewTransactionsSet()
	for _, tx := range txs {
		set.Add(tx)
	}
	return set
}

// TryAddBlock attempts to extend the chain with b. It first validates every
// transaction in b against account state as committed before the block
// (each must be previously unseen and individually afford amount+fee); if
// any fails, the whole block is rejected before anything is persisted
// (spec §4.6 step 1). On success it applies b's transactions to account
// state, clears them from the mempool, records their outcomes and notifies
// BlockAdded subscribers — all under a single commit mutex, so subscribers
// always observe strictly increasing depths in commit order (spec §4.6,
// §5). It reports whether the block was accepted.
func (c *Core) TryAddBlock(b *Block) bool {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	if !c.checkBlock(b) {
		return false
	}

	if !c.chain.TryAddBlock(b) {
		return false
	}

	c.mempool.RemoveBatch(b.Txs.Slice())
	c.state.Update(b)
	c.blockAdded.Notify(b)
	c.network.PublishBlock(b)
	return true
}

// checkBlock validates b's transactions against state as of the current
// chain tip, rejecting the whole block if any transaction is already known
// to the chain or cannot afford its own amount+fee.
func (c *Core) checkBlock(b *Block) bool {
	for _, tx := range b.Txs.Slice() {
		if _, found := c.chain.FindTransaction(tx.Hash()); found {
			c.logger.WithField("tx", fmt.Sprintf("%x", tx.Hash())).Warn("core: block rejected, duplicate transaction")
			return false
		}
		if !c.state.CheckTransaction(tx) {
			c.logger.WithField("tx", fmt.Sprintf("%x", tx.Hash())).Warn("core: block rejected, transaction fails checkTransaction")
			return false
		}
	}
	return true
}

// SubscribeBlockAdded registers cb to run on every successfully committed
// block, in commit order. It returns an ID suitable for Unsubscribe.
func (c *Core) SubscribeBlockAdded(cb func(*Block)) SubscriptionID {
	return c.blockAdded.Subscribe(cb)
}

// UnsubscribeBlockAdded removes a BlockAdded subscriber.
func (c *Core) UnsubscribeBlockAdded(id SubscriptionID) {
	c.blockAdded.Unsubscribe(id)
}

// SubscribeNewPendingTx registers cb to run whenever a transaction is newly
// admitted into the mempool.
func (c *Core) SubscribeNewPendingTx(cb func(*Transaction)) SubscriptionID {
	return c.newPendingTx.Subscribe(cb)
}

// UnsubscribeNewPendingTx removes a NewPendingTx subscriber.
func (c *Core) UnsubscribeNewPendingTx(id SubscriptionID) {
	c.newPendingTx.Unsubscribe(id)
}
