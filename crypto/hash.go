// Package crypto provides the hashing, signature and address-derivation
// primitives used throughout likelib. All hashing is deterministic and
// platform independent: identical inputs always map to identical outputs.
package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// HashLength is the size in bytes of the primary content-identifying digest.
const HashLength = 32

// Hash is a 256-bit digest used as the content ID for transactions and blocks.
type Hash [HashLength]byte

// NullHash is the all-zero digest: genesis's predecessor and "no code".
var NullHash = Hash{}

// IsNull reports whether h is the all-zero digest.
func (h Hash) IsNull() bool { return h == NullHash }

// Bytes returns a copy of the digest's bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashLength)
	copy(out, h[:])
	return out
}

// HashFromBytes copies b (which must be exactly HashLength bytes) into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, ErrInvalidLength
	}
	copy(h[:], b)
	return h, nil
}

// Hash256 computes the primary 256-bit digest of data.
func Hash256(data []byte) Hash {
	return sha256.Sum256(data)
}

// Hash160Length is the size in bytes of the secondary digest used for
// VM-collaborator compatibility.
const Hash160Length = 20

// Hash160 is a 160-bit digest, provided for compatibility with the VM
// collaborator's expected address/identifier width.
type Hash160 [Hash160Length]byte

// Hash160Sum computes SHA-256 then RIPEMD-160 over data, the same scheme used
// to derive addresses from public keys (see address.go).
func Hash160Sum(data []byte) Hash160 {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	sum := r.Sum(nil)
	var out Hash160
	copy(out[:], sum)
	return out
}

// SpongeSum computes a variable-width digest using the SHAKE256 sponge
// construction, for VM collaborators that require digests of arbitrary
// output length.
func SpongeSum(data []byte, outLen int) []byte {
	out := make([]byte, outLen)
	sha3.ShakeSum256(out, data)
	return out
}
