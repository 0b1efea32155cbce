package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
)

func TestMempoolAdmitRejectsDuplicate(t *testing.T) {
	m := core.NewMempool()
	tx := newTestTx(t, 1, 0)
	alwaysAccept := func(map[core.Address]int64) bool { return true }

	require.True(t, m.Admit(tx, alwaysAccept))
	require.False(t, m.Admit(tx, alwaysAccept))
	require.Equal(t, 1, m.Len())
}

func TestMempoolAdmitRejectsWhenDecideReturnsFalse(t *testing.T) {
	m := core.NewMempool()
	tx := newTestTx(t, 1, 0)

	var seenProjected map[core.Address]int64
	accepted := m.Admit(tx, func(projected map[core.Address]int64) bool {
		seenProjected = projected
		return false
	})

	require.False(t, accepted)
	require.Equal(t, 0, m.Len())
	require.NotNil(t, seenProjected)
}

func TestMempoolProjectedBalancesAccumulateAcrossPending(t *testing.T) {
	_, priv, from := newTestKeypair(t)
	m := core.NewMempool()
	alwaysAccept := func(map[core.Address]int64) bool { return true }

	tx1 := newTestTxFrom(t, priv, from, 100, 1)
	require.True(t, m.Admit(tx1, alwaysAccept))

	tx2 := newTestTxFrom(t, priv, from, 50, 1)
	var projectedAtSecondAdmission map[core.Address]int64
	m.Admit(tx2, func(projected map[core.Address]int64) bool {
		projectedAtSecondAdmission = projected
		return true
	})

	require.Equal(t, -int64(101), projectedAtSecondAdmission[from])
}

func TestMempoolDoubleSpendRejectedByDecide(t *testing.T) {
	// A double-spend attempt: the second transaction would overdraw the
	// sender once the first transaction's pending amount is accounted for,
	// so a balance-aware decide function must reject it (spec §4.6).
	_, priv, from := newTestKeypair(t)
	m := core.NewMempool()
	const confirmedBalance = int64(100)

	decideFor := func(tx *core.Transaction) func(map[core.Address]int64) bool {
		return func(projected map[core.Address]int64) bool {
			available := confirmedBalance + projected[from]
			return available >= int64(tx.Amount)+int64(tx.Fee)
		}
	}

	tx1 := newTestTxFrom(t, priv, from, 80, 0)
	require.True(t, m.Admit(tx1, decideFor(tx1)))

	tx2 := newTestTxFrom(t, priv, from, 80, 0)
	require.False(t, m.Admit(tx2, decideFor(tx2)), "second spend must be rejected given the first is still pending")
}

func TestMempoolSnapshotRespectsLimit(t *testing.T) {
	m := core.NewMempool()
	alwaysAccept := func(map[core.Address]int64) bool { return true }
	for i := 0; i < 5; i++ {
		m.Admit(newTestTx(t, uint64(i+1), 0), alwaysAccept)
	}

	require.Len(t, m.Snapshot(3), 3)
	require.Len(t, m.Snapshot(0), 5)
}

func TestMempoolRemoveBatch(t *testing.T) {
	m := core.NewMempool()
	alwaysAccept := func(map[core.Address]int64) bool { return true }
	tx1 := newTestTx(t, 1, 0)
	tx2 := newTestTx(t, 2, 0)
	m.Admit(tx1, alwaysAccept)
	m.Admit(tx2, alwaysAccept)

	m.RemoveBatch([]*core.Transaction{tx1})
	require.Equal(t, 1, m.Len())
	require.False(t, m.Find(tx1))
	require.True(t, m.Find(tx2))
}
