package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
)

func TestTransactionsSetAddIsIdempotent(t *testing.T) {
	set := core.NewTransactionsSet()
	tx := newTestTx(t, 1, 0)

	require.True(t, set.Add(tx))
	require.False(t, set.Add(tx), "re-adding the same transaction must report false")
	require.Equal(t, 1, set.Len())
}

func TestTransactionsSetRemoveReindexes(t *testing.T) {
	set := core.NewTransactionsSet()
	txs := []*core.Transaction{newTestTx(t, 1, 0), newTestTx(t, 2, 0), newTestTx(t, 3, 0)}
	for _, tx := range txs {
		set.Add(tx)
	}

	set.Remove(txs[0])
	require.Equal(t, 2, set.Len())
	require.False(t, set.Find(txs[0]))
	require.True(t, set.Find(txs[1]))
	require.True(t, set.Find(txs[2]))

	found, ok := set.FindHash(txs[2].Hash())
	require.True(t, ok)
	require.Equal(t, txs[2].Hash(), found.Hash())
}

func TestTransactionsSetRemoveBatch(t *testing.T) {
	set := core.NewTransactionsSet()
	txs := []*core.Transaction{newTestTx(t, 1, 0), newTestTx(t, 2, 0), newTestTx(t, 3, 0)}
	for _, tx := range txs {
		set.Add(tx)
	}

	set.RemoveBatch([]*core.Transaction{txs[1], txs[2]})
	require.Equal(t, 1, set.Len())
	require.True(t, set.Find(txs[0]))
}

func TestTransactionsSetSliceIsDefensiveCopy(t *testing.T) {
	set := core.NewTransactionsSet()
	set.Add(newTestTx(t, 1, 0))

	slice := set.Slice()
	slice[0] = nil

	require.NotNil(t, set.Slice()[0], "mutating the returned slice must not affect the set")
}
