package cosign

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/cosign/crypto/ss58"
	"github.com/iov-one/cosign/errors"
)

// AccountIDLength is the length of all account identifiers.
const AccountIDLength = ss58.AccountLength

// AccountID is the raw identifier of an account. Two identifiers are equal
// when their bytes are equal, regardless of the network prefix used to
// display them.
type AccountID [AccountIDLength]byte

// NewAccountID copies raw bytes into an account identifier.
func NewAccountID(raw []byte) (AccountID, error) {
	var id AccountID
	if len(raw) != AccountIDLength {
		return id, errors.Wrapf(errors.ErrFormat, "account id must be %d bytes, got %d", AccountIDLength, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// ParseHex decodes a 0x prefixed hex representation of an account id.
func ParseHex(s string) (AccountID, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return AccountID{}, errors.Wrap(errors.ErrFormat, "invalid hex")
	}
	return NewAccountID(raw)
}

// Bytes returns a copy of the raw identifier.
func (a AccountID) Bytes() []byte {
	b := make([]byte, AccountIDLength)
	copy(b, a[:])
	return b
}

// Equals checks if two account ids are the same.
func (a AccountID) Equals(b AccountID) bool {
	return a == b
}

// IsZero returns true for the all zero identifier.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// String returns the 0x prefixed hex form. Use a Codec for the network
// specific form.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalJSON provides a hex representation for JSON, to override the
// standard byte array encoding.
func (a AccountID) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *AccountID) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	id, err := ParseHex(enc)
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// Codec encodes, decodes and validates account addresses for a single
// network prefix. The zero value uses prefix 0.
type Codec struct {
	prefix uint16
}

// SubstratePrefix is the generic Substrate network prefix.
const SubstratePrefix = 42

// NewCodec returns a codec for given network prefix.
func NewCodec(prefix uint16) (Codec, error) {
	if prefix > ss58.MaxPrefix {
		return Codec{}, errors.Wrapf(errors.ErrFormat, "prefix %d out of range", prefix)
	}
	return Codec{prefix: prefix}, nil
}

// Prefix returns the network prefix this codec encodes for.
func (c Codec) Prefix() uint16 {
	return c.prefix
}

// Encode returns the SS58 address of given account.
func (c Codec) Encode(id AccountID) string {
	s, err := ss58.Encode(c.prefix, id[:])
	if err != nil {
		// Prefix is validated by NewCodec and the length is fixed.
		panic(err)
	}
	return s
}

// Decode returns the account id of an address. SS58 addresses of any
// network prefix are accepted as well as 0x prefixed raw hex keys.
func (c Codec) Decode(address string) (AccountID, error) {
	address = strings.TrimSpace(address)
	if strings.HasPrefix(address, "0x") {
		return ParseHex(address)
	}
	_, raw, err := ss58.Decode(address)
	if err != nil {
		return AccountID{}, errors.Wrapf(err, "address %q", address)
	}
	return NewAccountID(raw)
}

// Parse works like Decode but requires an SS58 address to carry the network
// prefix of this codec.
func (c Codec) Parse(address string) (AccountID, error) {
	address = strings.TrimSpace(address)
	if strings.HasPrefix(address, "0x") {
		return ParseHex(address)
	}
	if ok, reason := c.Validate(address); !ok {
		return AccountID{}, errors.Wrapf(errors.ErrFormat, "address %q: %s", address, reason)
	}
	return c.Decode(address)
}

// Validate checks that address is a well formed SS58 address of this
// codec's network. It never fails, the reason of a rejection is returned
// instead so that it can be shown next to the input.
func (c Codec) Validate(address string) (bool, string) {
	return ss58.Check(strings.TrimSpace(address), c.prefix)
}

// Reencode converts an address of any network into this codec's network.
func (c Codec) Reencode(address string) (string, error) {
	id, err := c.Decode(address)
	if err != nil {
		return "", err
	}
	return c.Encode(id), nil
}
