/*
Package crypto implements the hashing functions used to derive addresses,
call hashes and storage keys.
*/
package crypto

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Blake2b256 returns the 32 byte blake2b digest of data.
func Blake2b256(data ...[]byte) [32]byte {
	h, _ := blake2b.New256(nil)
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b512 returns the 64 byte blake2b digest of data.
func Blake2b512(data ...[]byte) [64]byte {
	h, _ := blake2b.New512(nil)
	for _, d := range data {
		h.Write(d)
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b128Concat returns a 16 byte blake2b digest of data followed by the
// data itself. Storage maps use it for keys that must be iterable.
func Blake2b128Concat(data []byte) []byte {
	// New returns an error only for a bad size or key.
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return append(h.Sum(nil), data...)
}

// Twox128 returns two xxhash64 digests with seeds 0 and 1, each in little
// endian order. Pallet and storage item names are hashed this way.
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[:8], twox64(data, 0))
	binary.LittleEndian.PutUint64(out[8:], twox64(data, 1))
	return out
}

// Twox64Concat returns the xxhash64 digest of data followed by the data.
func Twox64Concat(data []byte) []byte {
	out := make([]byte, 8, 8+len(data))
	binary.LittleEndian.PutUint64(out, twox64(data, 0))
	return append(out, data...)
}

func twox64(data []byte, seed uint64) uint64 {
	d := xxhash.NewWithSeed(seed)
	d.Write(data)
	return d.Sum64()
}
