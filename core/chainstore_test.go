package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
)

func newChainStoreWithGenesis(t *testing.T) *core.ChainStore {
	t.Helper()
	kv := core.NewMemKVStore()
	cs := core.NewChainStore(kv, nil)
	require.True(t, cs.TryAddBlock(core.Genesis()))
	return cs
}

func childBlock(parent *core.Block, coinbase core.Address) *core.Block {
	return &core.Block{
		Depth:         parent.Depth + 1,
		Nonce:         0,
		PrevBlockHash: parent.Hash(),
		Timestamp:     parent.Timestamp + 1,
		Coinbase:      coinbase,
		Txs:           core.NewTransactionsSet(),
	}
}

func TestChainStoreAcceptsLinearExtension(t *testing.T) {
	cs := newChainStoreWithGenesis(t)
	b1 := childBlock(core.Genesis(), core.NullAddress)

	require.True(t, cs.TryAddBlock(b1))
	require.Equal(t, 2, cs.Len())
	require.Equal(t, b1.Hash(), cs.TopBlock().Hash())
}

func TestChainStoreRejectsDuplicateBlock(t *testing.T) {
	cs := newChainStoreWithGenesis(t)
	b1 := childBlock(core.Genesis(), core.NullAddress)
	require.True(t, cs.TryAddBlock(b1))

	require.False(t, cs.TryAddBlock(b1), "re-adding an already-known block must fail")
	require.Equal(t, 2, cs.Len())
}

func TestChainStoreRejectsWrongLinkage(t *testing.T) {
	cs := newChainStoreWithGenesis(t)
	b1 := childBlock(core.Genesis(), core.NullAddress)
	require.True(t, cs.TryAddBlock(b1))

	orphan := &core.Block{
		Depth:         2,
		PrevBlockHash: core.NullHash, // wrong: should be b1.Hash()
		Timestamp:     b1.Timestamp + 1,
		Coinbase:      core.NullAddress,
		Txs:           core.NewTransactionsSet(),
	}
	require.False(t, cs.TryAddBlock(orphan))
	require.Equal(t, 2, cs.Len())
}

func TestChainStoreRejectsWrongDepth(t *testing.T) {
	cs := newChainStoreWithGenesis(t)
	skip := &core.Block{
		Depth:         2, // should be 1
		PrevBlockHash: core.Genesis().Hash(),
		Timestamp:     core.Genesis().Timestamp + 1,
		Coinbase:      core.NullAddress,
		Txs:           core.NewTransactionsSet(),
	}
	require.False(t, cs.TryAddBlock(skip))
}

func TestChainStoreLoadRehydratesFromStorage(t *testing.T) {
	kv := core.NewMemKVStore()
	cs1 := core.NewChainStore(kv, nil)
	require.True(t, cs1.TryAddBlock(core.Genesis()))
	b1 := childBlock(core.Genesis(), core.NullAddress)
	require.True(t, cs1.TryAddBlock(b1))

	cs2 := core.NewChainStore(kv, nil)
	require.NoError(t, cs2.Load())
	require.Equal(t, 2, cs2.Len())
	require.Equal(t, b1.Hash(), cs2.TopBlock().Hash())

	hash, ok := cs2.FindBlockHashByDepth(1)
	require.True(t, ok)
	require.Equal(t, b1.Hash(), hash)
}

func TestChainStoreFindTransaction(t *testing.T) {
	cs := newChainStoreWithGenesis(t)
	tx := newTestTx(t, 5, 1)
	set := core.NewTransactionsSet()
	set.Add(tx)
	b1 := &core.Block{
		Depth: 1, PrevBlockHash: core.Genesis().Hash(),
		Timestamp: core.Genesis().Timestamp + 1, Coinbase: core.NullAddress, Txs: set,
	}
	require.True(t, cs.TryAddBlock(b1))

	hash, ok := cs.FindTransaction(tx.Hash())
	require.True(t, ok)
	require.Equal(t, b1.Hash(), hash)
}
