package crypto

import (
	"crypto/ed25519"
	crand "crypto/rand"
	"fmt"
)

// PublicKey and PrivateKey alias the stdlib ed25519 types: fast,
// deterministic key-pairs with no recovery scheme.
type PublicKey = ed25519.PublicKey
type PrivateKey = ed25519.PrivateKey

// GenerateKeypair returns a fresh random ed25519 key pair.
func GenerateKeypair() (PublicKey, PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(crand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate keypair: %w", err)
	}
	return pub, priv, nil
}

// Sign produces a signature over data using priv.
func Sign(priv PrivateKey, data []byte) []byte {
	return ed25519.Sign(priv, data)
}

// Verify reports whether sig is a valid signature over data by pub.
func Verify(pub PublicKey, data, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, data, sig)
}
