/*
Package cosigntest provides helpers for testing code that works with
accounts and multisig configurations.
*/
package cosigntest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/cosign"
)

// Public keys of the well known development accounts.
var (
	Alice   = mustHex("0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d")
	Bob     = mustHex("0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48")
	Charlie = mustHex("0x90b5ab205c6974c9ea841be688864633dc9ca8a357843eeacf2314649965fe22")
	Dave    = mustHex("0x306721211d5404bd9da88e0204360a1a9ab8b87c66c1bc2fcdd37f3c2222cc20")
	Eve     = mustHex("0xe659a7a1628cdd93febc04a4e0646ea20e9f5f0ce097d9a05290d4a9e054df4e")
)

// AliceAddress is the generic Substrate address of Alice.
const AliceAddress = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"

func mustHex(s string) cosign.AccountID {
	id, err := cosign.ParseHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Codec returns a codec for the generic Substrate network prefix.
func Codec() cosign.Codec {
	c, err := cosign.NewCodec(cosign.SubstratePrefix)
	if err != nil {
		panic(err)
	}
	return c
}

// Address encodes given account under the generic Substrate prefix.
func Address(id cosign.AccountID) string {
	return Codec().Encode(id)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, address string) cosign.AccountID {
	t.Helper()

	id, err := Codec().Decode(address)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", address, err)
	}
	return id
}

// RandomAccount returns a random account id generated on the fly.
func RandomAccount(t testing.TB) cosign.AccountID {
	t.Helper()

	var id cosign.AccountID
	if _, err := rand.Read(id[:]); err != nil {
		t.Fatalf("cannot generate a random account: %s", err)
	}
	return id
}

// Descriptor builds a canonical multisig descriptor.
func Descriptor(t testing.TB, threshold uint16, signatories ...cosign.AccountID) *cosign.Descriptor {
	t.Helper()

	d := &cosign.Descriptor{
		Threshold:   threshold,
		Signatories: cosign.NewSignatorySet(signatories...).List(),
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("invalid descriptor: %s", err)
	}
	return d
}

// MultisigAccount returns the account derived from a descriptor.
func MultisigAccount(t testing.TB, d *cosign.Descriptor) cosign.AccountID {
	t.Helper()

	id, err := d.Account()
	if err != nil {
		t.Fatalf("cannot derive multisig account: %s", err)
	}
	return id
}
