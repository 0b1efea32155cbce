package core

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/heshu-by/likelib/crypto"
)

// AccountStateEngine owns every account's balance/nonce/code-hash record and
// the deployed-code store keyed by code hash (spec §4.4). State changes come
// from UpdateFromGenesis, from Update (one block at a time) and from
// TryTransfer; reads may happen concurrently from RPC threads, hence the
// RWMutex.
type AccountStateEngine struct {
	mu       sync.RWMutex
	accounts map[Address]Account
	code     map[Hash][]byte

	vm      VM
	outcome *OutcomeCache
	logger  *log.Logger
}

// NewAccountStateEngine returns an empty engine backed by vm for contract
// execution and recording per-transaction results into outcome.
func NewAccountStateEngine(vm VM, outcome *OutcomeCache, logger *log.Logger) *AccountStateEngine {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &AccountStateEngine{
		accounts: make(map[Address]Account),
		code:     make(map[Hash][]byte),
		vm:       vm,
		outcome:  outcome,
		logger:   logger,
	}
}

// Account returns a copy of addr's current record.
func (e *AccountStateEngine) Account(addr Address) Account {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accounts[addr]
}

// Balance returns addr's current coin balance.
func (e *AccountStateEngine) Balance(addr Address) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accounts[addr].Balance
}

// UpdateFromGenesis seeds the engine from the genesis block's single credit
// transaction. It must be called at most once, before any Update.
func (e *AccountStateEngine) UpdateFromGenesis(b *Block) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tx := range b.Txs.Slice() {
		acc := e.accounts[tx.To]
		acc.Balance += tx.Amount
		e.accounts[tx.To] = acc
	}
}

// CheckTransaction reports whether tx's sender can currently cover
// amount+fee, without mutating any state (spec §4.5 admission predicate
// collaborator).
func (e *AccountStateEngine) CheckTransaction(tx *Transaction) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	spend := tx.Amount + tx.Fee
	return e.accounts[tx.From].Balance >= spend
}

// TryTransfer moves amount from->to if from can cover it, returning whether
// the transfer happened. Used both for the top-level value move and for a
// contract's own internal bookkeeping should the VM request one.
func (e *AccountStateEngine) TryTransfer(from, to Address, amount uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tryTransferLocked(from, to, amount)
}

func (e *AccountStateEngine) tryTransferLocked(from, to Address, amount uint64) bool {
	fromAcc := e.accounts[from]
	if fromAcc.Balance < amount {
		return false
	}
	fromAcc.Balance -= amount
	e.accounts[from] = fromAcc
	toAcc := e.accounts[to]
	toAcc.Balance += amount
	e.accounts[to] = toAcc
	return true
}

// newContractLocked allocates a fresh contract address deterministically
// from creator's current nonce, bumping that nonce so a creator can never
// collide with its own previous deployment.
func (e *AccountStateEngine) newContractLocked(creator Address, codeHash Hash) Address {
	creatorAcc := e.accounts[creator]
	addr := crypto.DeriveContractAddress(creator, creatorAcc.Nonce)
	creatorAcc.Nonce++
	e.accounts[creator] = creatorAcc
	contractAcc := e.accounts[addr]
	contractAcc.CodeHash = codeHash
	e.accounts[addr] = contractAcc
	return addr
}

// Update applies every transaction in b in order and then credits b's
// coinbase with the fixed block emission (spec §4.4). A transaction whose
// own application fails (insufficient funds, VM failure) is recorded as a
// failed outcome and otherwise skipped; it never aborts the rest of the
// block. Update assumes b has already been accepted by the chain store.
// Block acceptance checks each transaction on its own against pre-block
// state, not jointly, so b may hold two transactions from one sender that
// each fit the sender's balance but together overdraw it; the later one
// then fails here and is recorded as a failed outcome.
func (e *AccountStateEngine) Update(b *Block) {
	for _, tx := range b.Txs.Slice() {
		outcome := e.applyTransaction(tx, b)
		if e.outcome != nil {
			e.outcome.Set(tx.Hash(), outcome.Encode())
		}
	}

	e.mu.Lock()
	acc := e.accounts[b.Coinbase]
	acc.Balance += Emission
	e.accounts[b.Coinbase] = acc
	e.mu.Unlock()
}

// applyTransaction runs the full per-transaction algorithm: debit the fee
// up front, dispatch on Kind, invoke the VM collaborator bounded by the fee
// itself, refund unspent gas to the sender, and credit the rest of the fee
// to the block's coinbase (spec §4.4 steps 1-6). A transaction that fails
// after its fee is debited consumes the fee in full (gas_left=0); it never
// aborts the rest of the block.
func (e *AccountStateEngine) applyTransaction(tx *Transaction, b *Block) TxOutcome {
	e.mu.Lock()
	fromAcc := e.accounts[tx.From]
	if fromAcc.Balance < tx.Fee {
		e.mu.Unlock()
		e.logger.WithFields(log.Fields{"tx": fmt.Sprintf("%x", tx.Hash()), "from": tx.From.String()}).
			Warn("state: transaction rejected, cannot cover fee")
		return TxOutcome{Success: false}
	}
	fromAcc.Balance -= tx.Fee
	e.accounts[tx.From] = fromAcc
	e.mu.Unlock()

	callCtx := VMCallContext{Tx: tx, Block: b, Caller: tx.From, Gas: tx.Fee}

	var outcome TxOutcome
	switch tx.Kind {
	case ContractCreation:
		outcome = e.applyContractCreation(tx, callCtx)
	case MessageCall:
		outcome = e.applyMessageCall(tx, callCtx)
	default:
		outcome = TxOutcome{Success: false}
	}

	e.settleFee(tx, b, outcome.GasLeft)
	return outcome
}

func (e *AccountStateEngine) applyContractCreation(tx *Transaction, ctx VMCallContext) TxOutcome {
	payload, err := DecodeContractCreationPayload(tx.Data)
	if err != nil {
		e.logger.WithError(err).Warn("state: malformed contract creation payload")
		return TxOutcome{Success: false}
	}
	codeHash := hashCode(payload.Code)

	e.mu.Lock()
	addr := e.newContractLocked(tx.From, codeHash)
	e.code[codeHash] = payload.Code
	e.mu.Unlock()

	output, gasLeft, err := e.vm.CreateContract(addr, ctx)
	if err != nil {
		e.logger.WithError(err).WithField("contract", addr.String()).Warn("state: contract creation failed")
		return TxOutcome{Success: false}
	}
	return TxOutcome{Success: true, HasContractAddr: true, ContractAddress: addr, Output: output, GasLeft: gasLeft}
}

func (e *AccountStateEngine) applyMessageCall(tx *Transaction, ctx VMCallContext) TxOutcome {
	if !e.TryTransfer(tx.From, tx.To, tx.Amount) {
		e.logger.WithField("tx", fmt.Sprintf("%x", tx.Hash())).Warn("state: message call transfer failed")
		return TxOutcome{Success: false}
	}

	acc := e.Account(tx.To)
	if !acc.IsContract() {
		// Plain value transfer: no VM ran, so there is no gas to save.
		return TxOutcome{Success: true}
	}

	result, err := e.vm.Call(ctx)
	if err != nil || !result.OK {
		e.logger.WithError(err).WithField("contract", tx.To.String()).Warn("state: contract call failed")
		return TxOutcome{Success: false}
	}
	return TxOutcome{Success: true, Output: result.Output, GasLeft: result.GasLeft}
}

// settleFee splits tx's already-debited fee between the sender's gas refund
// and the block's coinbase, crediting fee-gas_left to the coinbase (spec
// §4.4 step 4). gasLeft is clamped to the fee in case a VM adapter reports
// more than it was ever granted.
func (e *AccountStateEngine) settleFee(tx *Transaction, b *Block, gasLeft uint64) {
	if gasLeft > tx.Fee {
		gasLeft = tx.Fee
	}
	e.credit(tx.From, gasLeft)
	e.credit(b.Coinbase, tx.Fee-gasLeft)
}

func (e *AccountStateEngine) credit(to Address, amount uint64) {
	if amount == 0 {
		return
	}
	e.mu.Lock()
	acc := e.accounts[to]
	acc.Balance += amount
	e.accounts[to] = acc
	e.mu.Unlock()
}

func hashCode(code []byte) Hash {
	return crypto.Hash256(code)
}
