package calls

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

// Msg is a chain call together with its arguments.
type Msg interface {
	// Path returns the section and method of the call, for example
	// "balances.transferKeepAlive".
	Path() string

	// Validate performs a sanity check of the arguments, it does not
	// access the chain.
	Validate() error

	// MarshalSCALE writes the call arguments, without the call index.
	MarshalSCALE(e *scale.Encoder) error
}

// HashLength is the length of a call hash.
const HashLength = 32

// Hash identifies call data. A pending multisig entry only stores the hash
// of the call it approves.
type Hash [HashLength]byte

// HashOf returns the blake2b-256 hash of given call data.
func HashOf(callData []byte) Hash {
	return Hash(crypto.Blake2b256(callData))
}

// ParseHash decodes a 0x prefixed hex call hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return h, errors.Wrap(errors.ErrFormat, "invalid hex")
	}
	if len(raw) != HashLength {
		return h, errors.Wrapf(errors.ErrFormat, "hash must be %d bytes, got %d", HashLength, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	v, err := ParseHash(enc)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ParseCallData decodes 0x prefixed hex call data.
func ParseCallData(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "call data")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFormat, "invalid hex")
	}
	return raw, nil
}

// Weight is the execution weight limit of a call.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

// DefaultMaxWeight is used when a multisig call must carry a weight limit
// and none is given.
var DefaultMaxWeight = Weight{RefTime: 1000000000, ProofSize: 100000}

// MarshalSCALE writes both components as compact integers.
func (w Weight) MarshalSCALE(e *scale.Encoder) error {
	e.Compact(w.RefTime)
	e.Compact(w.ProofSize)
	return nil
}

// ReadWeight reads a weight written by MarshalSCALE.
func ReadWeight(d *scale.Decoder) Weight {
	return Weight{RefTime: d.Compact(), ProofSize: d.Compact()}
}
