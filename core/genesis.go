package core

import (
	"sync"

	"github.com/heshu-by/likelib/crypto"
)

// Emission is the fixed reward minted to a block's coinbase on commit
// (spec §4.4, §6).
const Emission = 1000

// GenesisTimestamp and GenesisCredits are the bit-exact constants named in
// spec §6.
const (
	GenesisTimestamp = 1583789617
	GenesisCredits   = 0xFFFFFFFF
)

// GenesisRecipientText is the canonical base58 textual address credited by
// the genesis transaction.
const GenesisRecipientText = "28dpzpURpyqqLoWrEhnHrajndeCq"

var (
	genesisOnce  sync.Once
	genesisBlock *Block
)

// Genesis returns the process-wide genesis block constant, lazily built on
// first access behind a sync.Once (spec §9, "Global genesis constant").
func Genesis() *Block {
	genesisOnce.Do(func() {
		recipient, err := crypto.ParseAddress(GenesisRecipientText)
		if err != nil {
			panic("core: invalid genesis recipient constant: " + err.Error())
		}
		tx := &Transaction{
			From:      NullAddress,
			To:        recipient,
			Amount:    GenesisCredits,
			Fee:       0,
			Timestamp: GenesisTimestamp,
			Kind:      MessageCall,
		}
		txs := NewTransactionsSet()
		txs.Add(tx)
		genesisBlock = &Block{
			Depth:         0,
			Nonce:         0,
			PrevBlockHash: NullHash,
			Timestamp:     GenesisTimestamp,
			Coinbase:      NullAddress,
			Txs:           txs,
		}
	})
	return genesisBlock
}
