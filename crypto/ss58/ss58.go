/*
Package ss58 implements the SS58 address format: a base58 encoding of a
network prefix, the raw account bytes and a blake2b based checksum.
*/
package ss58

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
)

const (
	// AccountLength is the length of the raw account identifier payload.
	AccountLength = 32

	// MaxPrefix is the largest network prefix the format can represent.
	MaxPrefix = 16383

	checksumLength = 2
)

var checksumPreimage = []byte("SS58PRE")

// Encode converts given account bytes into the SS58 representation for the
// given network prefix.
func Encode(prefix uint16, payload []byte) (string, error) {
	if len(payload) != AccountLength {
		return "", errors.Wrapf(errors.ErrFormat, "payload length %d", len(payload))
	}
	raw, err := prefixBytes(prefix)
	if err != nil {
		return "", err
	}
	raw = append(raw, payload...)
	sum := checksum(raw)
	raw = append(raw, sum[:checksumLength]...)
	return base58.Encode(raw), nil
}

// Rejection reasons of malformed addresses.
const (
	reasonBase58   = "invalid base58 string"
	reasonLength   = "invalid decoded address length"
	reasonChecksum = "invalid decoded address checksum"
	reasonPrefix   = "invalid address prefix"
)

// Decode returns the network prefix and the account bytes of given SS58
// encoded address.
func Decode(address string) (uint16, []byte, error) {
	prefix, payload, reason := decode(address)
	if reason != "" {
		return 0, nil, errors.Wrap(errors.ErrFormat, reason)
	}
	return prefix, payload, nil
}

// decode returns the reason of a rejection instead of an error.
func decode(address string) (uint16, []byte, string) {
	data := base58.Decode(address)
	if len(data) == 0 {
		return 0, nil, reasonBase58
	}

	prefix, n, reason := parsePrefix(data)
	if reason != "" {
		return 0, nil, reason
	}
	if len(data) != n+AccountLength+checksumLength {
		return 0, nil, reasonLength
	}

	body := data[:n+AccountLength]
	sum := checksum(body)
	if sum[0] != data[len(body)] || sum[1] != data[len(body)+1] {
		return 0, nil, reasonChecksum
	}

	payload := make([]byte, AccountLength)
	copy(payload, body[n:])
	return prefix, payload, ""
}

// Check validates that address is a well formed SS58 address for the given
// network prefix. It never fails, instead the reason of rejection is
// returned.
func Check(address string, prefix uint16) (bool, string) {
	got, _, reason := decode(address)
	if reason != "" {
		return false, reason
	}
	if got != prefix {
		return false, fmt.Sprintf("Prefix mismatch, expected %d, found %d", prefix, got)
	}
	return true, ""
}

func prefixBytes(prefix uint16) ([]byte, error) {
	switch {
	case prefix < 64:
		return []byte{byte(prefix)}, nil
	case prefix <= MaxPrefix:
		first := byte((prefix&0xfc)>>2) | 0x40
		second := byte(prefix>>8) | byte((prefix&0x03)<<6)
		return []byte{first, second}, nil
	default:
		return nil, errors.Wrapf(errors.ErrFormat, "prefix %d out of range", prefix)
	}
}

func parsePrefix(data []byte) (uint16, int, string) {
	switch b := data[0]; {
	case b < 64:
		return uint16(b), 1, ""
	case b < 128:
		if len(data) < 2 {
			return 0, 0, reasonLength
		}
		second := data[1]
		prefix := uint16(b&0x3f)<<2 | uint16(second>>6) | uint16(second&0x3f)<<8
		return prefix, 2, ""
	default:
		return 0, 0, reasonPrefix
	}
}

func checksum(body []byte) [64]byte {
	return crypto.Blake2b512(checksumPreimage, body)
}
