// Package core implements the chain store, account state engine, mempool,
// event bus, outcome cache and the façade that coordinates them — the
// consensus-adjacent heart of a likelib node. The TCP session layer, RPC
// dispatch and CLI live outside this package. The VM, key vault, KV store
// and network publisher are consumed through narrow interfaces; the
// reference implementations of those interfaces (EchoVM, WasmVM,
// InMemoryKeyVault, LevelDBStore, MemKVStore, NoopNetworkPublisher) are
// defined in this package too.
package core

import (
	"fmt"

	"github.com/heshu-by/likelib/codec"
	"github.com/heshu-by/likelib/crypto"
)

// Address and Hash are the core's identifier types, re-exported from crypto
// so callers need only import core.
type (
	Address = crypto.Address
	Hash    = crypto.Hash
)

// NullAddress and NullHash are the distinguished zero values.
var (
	NullAddress = crypto.NullAddress
	NullHash    = crypto.NullHash
)

// TxKind distinguishes the two transaction shapes the core understands.
type TxKind uint8

const (
	// MessageCall transfers value and optionally invokes a contract at To.
	MessageCall TxKind = iota + 1
	// ContractCreation deploys new bytecode; To must be the null address.
	ContractCreation
)

func (k TxKind) String() string {
	switch k {
	case MessageCall:
		return "MESSAGE_CALL"
	case ContractCreation:
		return "CONTRACT_CREATION"
	default:
		return fmt.Sprintf("TxKind(%d)", uint8(k))
	}
}

// Transaction is the immutable tuple described in spec §3. PublicKey is
// carried alongside Signature so a verifier can check it without a
// signature-recovery scheme (ed25519 offers none); it is covered by the
// transaction's identity hash but excluded from the signed payload.
type Transaction struct {
	From      Address
	To        Address
	Amount    uint64
	Fee       uint64
	Timestamp int64
	Kind      TxKind
	Data      []byte
	PublicKey []byte
	Signature []byte
}

// ContractCreationPayload is the decoded shape of Data for a
// ContractCreation transaction.
type ContractCreationPayload struct {
	Code     []byte
	InitArgs []byte
}

// signingBytes returns the canonical byte image bound by the signature: the
// transaction's fields other than PublicKey and Signature.
func (tx *Transaction) signingBytes() []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(tx.Kind))
	w.WriteRaw(tx.From[:])
	w.WriteRaw(tx.To[:])
	w.WriteUint64(tx.Amount)
	w.WriteUint64(tx.Fee)
	w.WriteInt64(tx.Timestamp)
	w.WriteBytes(tx.Data)
	return w.Bytes()
}

// Sign computes the transaction's signature and public key fields from priv.
// From must already equal crypto.AddressOf(priv.Public()).
func (tx *Transaction) Sign(priv crypto.PrivateKey) {
	pub := priv.Public().(crypto.PublicKey)
	tx.PublicKey = append([]byte(nil), pub...)
	tx.Signature = crypto.Sign(priv, tx.signingBytes())
}

// VerifySignature reports whether the transaction's signature is valid over
// its signing bytes under its own PublicKey, and that PublicKey hashes to From.
func (tx *Transaction) VerifySignature() bool {
	if len(tx.PublicKey) == 0 {
		return false
	}
	if crypto.AddressOf(tx.PublicKey) != tx.From {
		return false
	}
	return crypto.Verify(tx.PublicKey, tx.signingBytes(), tx.Signature)
}

// Encode returns the transaction's canonical byte image, including the
// signature and public key. Its hash is the transaction's identity.
func (tx *Transaction) Encode() []byte {
	w := codec.NewWriter()
	w.WriteUint8(uint8(tx.Kind))
	w.WriteRaw(tx.From[:])
	w.WriteRaw(tx.To[:])
	w.WriteUint64(tx.Amount)
	w.WriteUint64(tx.Fee)
	w.WriteInt64(tx.Timestamp)
	w.WriteBytes(tx.Data)
	w.WriteBytes(tx.PublicKey)
	w.WriteBytes(tx.Signature)
	return w.Bytes()
}

// DecodeTransaction parses the canonical byte image produced by Encode.
func DecodeTransaction(b []byte) (*Transaction, error) {
	r := codec.NewReader(b)
	tag, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	kind := TxKind(tag)
	if kind != MessageCall && kind != ContractCreation {
		return nil, codec.ErrUnknownTag
	}
	fromRaw, err := r.ReadRaw(crypto.AddressLength)
	if err != nil {
		return nil, err
	}
	toRaw, err := r.ReadRaw(crypto.AddressLength)
	if err != nil {
		return nil, err
	}
	amount, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	fee, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	ts, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	data, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	pub, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	sig, err := r.ReadBytes()
	if err != nil {
		return nil, err
	}
	from, err := crypto.AddressFromBytes(fromRaw)
	if err != nil {
		return nil, err
	}
	to, err := crypto.AddressFromBytes(toRaw)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		From: from, To: to, Amount: amount, Fee: fee, Timestamp: ts,
		Kind: kind, Data: data, PublicKey: pub, Signature: sig,
	}, nil
}

// Hash returns the transaction's identity: the hash of its canonical byte image.
func (tx *Transaction) Hash() Hash {
	return crypto.Hash256(tx.Encode())
}

// EncodeContractCreationPayload encodes a ContractCreationPayload for use as
// a ContractCreation transaction's Data field.
func EncodeContractCreationPayload(p ContractCreationPayload) []byte {
	w := codec.NewWriter()
	w.WriteBytes(p.Code)
	w.WriteBytes(p.InitArgs)
	return w.Bytes()
}

// DecodeContractCreationPayload parses a ContractCreation transaction's Data field.
func DecodeContractCreationPayload(b []byte) (ContractCreationPayload, error) {
	r := codec.NewReader(b)
	code, err := r.ReadBytes()
	if err != nil {
		return ContractCreationPayload{}, err
	}
	args, err := r.ReadBytes()
	if err != nil {
		return ContractCreationPayload{}, err
	}
	return ContractCreationPayload{Code: code, InitArgs: args}, nil
}

// Account is the balance/nonce/contract-code-hash record for an address. A
// null CodeHash marks an externally-owned account.
type Account struct {
	Balance  uint64
	Nonce    uint64
	CodeHash Hash
}

// IsContract reports whether the account is backed by deployed code.
func (a Account) IsContract() bool { return !a.CodeHash.IsNull() }

// TxOutcome is the serialized execution result recorded in the outcome
// cache, keyed by transaction hash.
type TxOutcome struct {
	Success          bool
	ContractAddress  Address
	HasContractAddr  bool
	Output           []byte
	GasLeft          uint64
}

// Encode returns the outcome's codec image.
func (o TxOutcome) Encode() []byte {
	w := codec.NewWriter()
	if o.Success {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
	if o.HasContractAddr {
		w.WriteUint8(1)
		w.WriteRaw(o.ContractAddress[:])
	} else {
		w.WriteUint8(0)
	}
	w.WriteBytes(o.Output)
	w.WriteUint64(o.GasLeft)
	return w.Bytes()
}

// DecodeTxOutcome parses the codec image produced by TxOutcome.Encode.
func DecodeTxOutcome(b []byte) (TxOutcome, error) {
	r := codec.NewReader(b)
	var o TxOutcome
	succ, err := r.ReadUint8()
	if err != nil {
		return o, err
	}
	o.Success = succ != 0
	hasAddr, err := r.ReadUint8()
	if err != nil {
		return o, err
	}
	if hasAddr != 0 {
		raw, err := r.ReadRaw(crypto.AddressLength)
		if err != nil {
			return o, err
		}
		addr, err := crypto.AddressFromBytes(raw)
		if err != nil {
			return o, err
		}
		o.ContractAddress = addr
		o.HasContractAddr = true
	}
	out, err := r.ReadBytes()
	if err != nil {
		return o, err
	}
	o.Output = out
	gasLeft, err := r.ReadUint64()
	if err != nil {
		return o, err
	}
	o.GasLeft = gasLeft
	return o, nil
}
