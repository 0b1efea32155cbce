package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
)

type recordingPublisher struct {
	blocks []*core.Block
	txs    []*core.Transaction
}

func (p *recordingPublisher) PublishBlock(b *core.Block)            { p.blocks = append(p.blocks, b) }
func (p *recordingPublisher) PublishTransaction(tx *core.Transaction) { p.txs = append(p.txs, tx) }

func TestLoggingNetworkPublisherForwardsToNext(t *testing.T) {
	rec := &recordingPublisher{}
	wrapped := core.LoggingNetworkPublisher{Next: rec}

	tx := newTestTx(t, 1, 0)
	wrapped.PublishTransaction(tx)

	require.Len(t, rec.txs, 1)
	require.Equal(t, tx.Hash(), rec.txs[0].Hash())
}

func TestNoopNetworkPublisherDiscardsEverything(t *testing.T) {
	require.NotPanics(t, func() {
		var p core.NetworkPublisher = core.NoopNetworkPublisher{}
		p.PublishBlock(core.Genesis())
		p.PublishTransaction(newTestTx(t, 1, 0))
	})
}
