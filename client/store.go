package client

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
)

// StorageKey returns the key of a storage item. Map keys must already be
// hashed with the hasher of the storage item.
func StorageKey(pallet, item string, hashedKeys ...[]byte) []byte {
	key := append(crypto.Twox128([]byte(pallet)), crypto.Twox128([]byte(item))...)
	for _, k := range hashedKeys {
		key = append(key, k...)
	}
	return key
}

func toHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// fromHex decodes a 0x prefixed hex value. A nil result means the storage
// item does not exist.
func fromHex(s *string) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(*s, "0x"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecode, "invalid hex")
	}
	return raw, nil
}

type storageChangeSet struct {
	Block   string       `json:"block"`
	Changes [][2]*string `json:"changes"`
}
