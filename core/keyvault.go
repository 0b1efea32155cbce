package core

import (
	"fmt"

	"github.com/heshu-by/likelib/crypto"
)

// KeyVault is the narrow signing collaborator a node uses to act as a
// transaction's sender (spec §4.2, §9). Its concrete backing — an on-disk
// encrypted wallet file, an HSM, a remote signer — is never the core's
// concern; only this interface is.
type KeyVault interface {
	PublicKey() crypto.PublicKey
	Address() crypto.Address
	Sign(data []byte) ([]byte, error)
}

// InMemoryKeyVault is the reference KeyVault: an ed25519 keypair held in
// process memory. Suitable for tests and for a node willing to trust its
// own host's memory; a production deployment would substitute an encrypted
// or hardware-backed vault behind the same interface.
type InMemoryKeyVault struct {
	pub  crypto.PublicKey
	priv crypto.PrivateKey
}

// NewInMemoryKeyVault generates a fresh ed25519 keypair.
func NewInMemoryKeyVault() (*InMemoryKeyVault, error) {
	pub, priv, err := crypto.GenerateKeypair()
	if err != nil {
		return nil, fmt.Errorf("key vault: generate keypair: %w", err)
	}
	return &InMemoryKeyVault{pub: pub, priv: priv}, nil
}

// LoadInMemoryKeyVault wraps an already-generated keypair, e.g. one read
// from a config-supplied seed.
func LoadInMemoryKeyVault(pub crypto.PublicKey, priv crypto.PrivateKey) *InMemoryKeyVault {
	return &InMemoryKeyVault{pub: pub, priv: priv}
}

// PublicKey returns the vault's ed25519 public key.
func (v *InMemoryKeyVault) PublicKey() crypto.PublicKey { return v.pub }

// Address returns the address derived from the vault's public key.
func (v *InMemoryKeyVault) Address() crypto.Address { return crypto.AddressOf(v.pub) }

// Sign returns the ed25519 signature of data under the vault's private key.
func (v *InMemoryKeyVault) Sign(data []byte) ([]byte, error) {
	return crypto.Sign(v.priv, data), nil
}
