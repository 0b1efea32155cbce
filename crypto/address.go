package crypto

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58"
)

// AddressLength is the size in bytes of an Address.
const AddressLength = 20

// Address is a 20-byte account identifier derived from a public key.
type Address [AddressLength]byte

// NullAddress is the distinguished zero address: coinbase on genesis and the
// destination of contract-creation transactions.
var NullAddress = Address{}

// IsNull reports whether a is the zero address. Constructing the zero value
// always yields an address for which IsNull is true, so "null address" is
// idempotent under construction.
func (a Address) IsNull() bool { return a == NullAddress }

// Bytes returns a copy of the address's raw bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// String returns the canonical base58 textual form of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// AddressOf derives the 20-byte address of an ed25519 public key: the
// public key is hashed (SHA-256 then RIPEMD-160) and the 160-bit digest is
// taken directly as the address, matching the wallet's derivation scheme.
func AddressOf(pub ed25519.PublicKey) Address {
	digest := Hash160Sum(pub)
	return Address(digest)
}

// ParseAddress decodes the canonical base58 textual form produced by
// Address.String back into an Address.
func ParseAddress(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, err
	}
	if len(raw) != AddressLength {
		return Address{}, ErrInvalidLength
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// DeriveContractAddress computes the address of a newly created contract
// from its creator and the creator's nonce at creation time, hashing the two
// together and truncating to AddressLength bytes.
func DeriveContractAddress(creator Address, nonce uint64) Address {
	buf := make([]byte, AddressLength+8)
	copy(buf, creator[:])
	binary.BigEndian.PutUint64(buf[AddressLength:], nonce)
	digest := Hash256(buf)
	var out Address
	copy(out[:], digest[:AddressLength])
	return out
}

// AddressFromBytes copies b (which must be exactly AddressLength bytes) into
// an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, ErrInvalidLength
	}
	copy(a[:], b)
	return a, nil
}
