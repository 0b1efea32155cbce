package core

import (
	"encoding/binary"

	"github.com/heshu-by/likelib/codec"
	"github.com/heshu-by/likelib/crypto"
)

// BlockTxCap is the maximum number of transactions a single block may carry.
const BlockTxCap = 100

// Block is the hash-linked record described in spec §3. Depth is 0 for
// genesis and exactly parent.Depth+1 otherwise. Its identity is the hash of
// its canonical byte image, which includes Nonce.
type Block struct {
	Depth         uint64
	Nonce         uint64
	PrevBlockHash Hash
	Timestamp     int64
	Coinbase      Address
	Txs           *TransactionsSet
}

// Encode returns the block's canonical byte image.
func (b *Block) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint64(b.Depth)
	w.WriteUint64(b.Nonce)
	w.WriteRaw(b.PrevBlockHash[:])
	w.WriteInt64(b.Timestamp)
	w.WriteRaw(b.Coinbase[:])

	txs := b.Txs.Slice()
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(txs)))
	w.WriteRaw(countBuf[:])
	for _, tx := range txs {
		w.WriteBytes(tx.Encode())
	}
	return w.Bytes()
}

// DecodeBlock parses the canonical byte image produced by Block.Encode.
func DecodeBlock(b []byte) (*Block, error) {
	r := codec.NewReader(b)
	depth, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	nonce, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	prevRaw, err := r.ReadRaw(crypto.HashLength)
	if err != nil {
		return nil, err
	}
	ts, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	coinbaseRaw, err := r.ReadRaw(crypto.AddressLength)
	if err != nil {
		return nil, err
	}
	countRaw, err := r.ReadRaw(4)
	if err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint32(countRaw)
	if count > BlockTxCap {
		return nil, codec.ErrOverflow
	}
	txs := NewTransactionsSet()
	for i := uint32(0); i < count; i++ {
		raw, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTransaction(raw)
		if err != nil {
			return nil, err
		}
		txs.Add(tx)
	}
	prev, err := crypto.HashFromBytes(prevRaw)
	if err != nil {
		return nil, err
	}
	coinbase, err := crypto.AddressFromBytes(coinbaseRaw)
	if err != nil {
		return nil, err
	}
	return &Block{
		Depth: depth, Nonce: nonce, PrevBlockHash: prev,
		Timestamp: ts, Coinbase: coinbase, Txs: txs,
	}, nil
}

// Hash returns the block's identity: the hash of its canonical byte image.
func (b *Block) Hash() Hash {
	return crypto.Hash256(b.Encode())
}
