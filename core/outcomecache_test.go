package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
)

func TestOutcomeCacheUnknownHashReturnsEmpty(t *testing.T) {
	cache := core.NewOutcomeCache()
	require.Empty(t, cache.Get(core.NullHash))
}

func TestOutcomeCacheSetThenGet(t *testing.T) {
	cache := core.NewOutcomeCache()
	outcome := core.TxOutcome{Success: true, GasLeft: 42}
	hash := core.Genesis().Txs.Slice()[0].Hash()

	cache.Set(hash, outcome.Encode())

	decoded, err := core.DecodeTxOutcome(cache.Get(hash))
	require.NoError(t, err)
	require.True(t, decoded.Success)
	require.Equal(t, uint64(42), decoded.GasLeft)
}
