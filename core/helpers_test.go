package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heshu-by/likelib/core"
	"github.com/heshu-by/likelib/crypto"
)

// newTestKeypair returns a fresh ed25519 key pair and its derived address,
// failing the test immediately on generation error.
func newTestKeypair(t *testing.T) (crypto.PublicKey, crypto.PrivateKey, crypto.Address) {
	t.Helper()
	pub, priv, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	return pub, priv, crypto.AddressOf(pub)
}

// newTestTx returns a signed MESSAGE_CALL transaction from a fresh sender to
// a fresh recipient, with the given amount and fee.
func newTestTx(t *testing.T, amount, fee uint64) *core.Transaction {
	t.Helper()
	_, priv, from := newTestKeypair(t)
	_, _, to := newTestKeypair(t)
	tx := &core.Transaction{
		From:      from,
		To:        to,
		Amount:    amount,
		Fee:       fee,
		Timestamp: 1700000000,
		Kind:      core.MessageCall,
	}
	tx.Sign(priv)
	return tx
}

// newTestTxFrom returns a signed MESSAGE_CALL transaction from priv/from to
// a fresh recipient.
func newTestTxFrom(t *testing.T, priv crypto.PrivateKey, from crypto.Address, amount, fee uint64) *core.Transaction {
	t.Helper()
	_, _, to := newTestKeypair(t)
	tx := &core.Transaction{
		From:      from,
		To:        to,
		Amount:    amount,
		Fee:       fee,
		Timestamp: 1700000001,
		Kind:      core.MessageCall,
	}
	tx.Sign(priv)
	return tx
}
