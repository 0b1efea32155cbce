package crypto

import "testing"

func TestHash256Stability(t *testing.T) {
	data := []byte("likelib")
	h1 := Hash256(data)
	h2 := Hash256(data)
	if h1 != h2 {
		t.Fatalf("hash not stable across calls")
	}
	if h1 == NullHash {
		t.Fatalf("non-empty input hashed to null")
	}
}

func TestNullHashIsAllZero(t *testing.T) {
	if !NullHash.IsNull() {
		t.Fatalf("NullHash.IsNull() = false")
	}
	var h Hash
	if !h.IsNull() {
		t.Fatalf("zero value Hash.IsNull() = false")
	}
}

func TestSignVerify(t *testing.T) {
	pub, priv, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	msg := []byte("transfer 100 to R")
	sig := Sign(priv, msg)
	if !Verify(pub, msg, sig) {
		t.Fatalf("valid signature rejected")
	}
	if Verify(pub, []byte("tampered"), sig) {
		t.Fatalf("tampered message accepted")
	}
	otherPub, _, _ := GenerateKeypair()
	if Verify(otherPub, msg, sig) {
		t.Fatalf("signature verified under wrong key")
	}
}

func TestAddressOfDeterministic(t *testing.T) {
	pub, _, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("generate keypair: %v", err)
	}
	a1 := AddressOf(pub)
	a2 := AddressOf(pub)
	if a1 != a2 {
		t.Fatalf("address derivation not a pure function of pub")
	}
}

func TestNullAddressIdempotent(t *testing.T) {
	if !NullAddress.IsNull() {
		t.Fatalf("NullAddress.IsNull() = false")
	}
	if !(Address{}).IsNull() {
		t.Fatalf("zero value Address.IsNull() = false")
	}
}

func TestAddressBase58RoundTrip(t *testing.T) {
	pub, _, _ := GenerateKeypair()
	addr := AddressOf(pub)
	s := addr.String()
	parsed, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("parse address: %v", err)
	}
	if parsed != addr {
		t.Fatalf("round trip mismatch: %v != %v", parsed, addr)
	}
}

func TestDeriveContractAddressDeterministic(t *testing.T) {
	pub, _, _ := GenerateKeypair()
	creator := AddressOf(pub)
	a1 := DeriveContractAddress(creator, 3)
	a2 := DeriveContractAddress(creator, 3)
	a3 := DeriveContractAddress(creator, 4)
	if a1 != a2 {
		t.Fatalf("contract address not deterministic")
	}
	if a1 == a3 {
		t.Fatalf("different nonces collided")
	}
}
