package client

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// Properties are the chain properties reported by system_properties.
type Properties struct {
	SS58Format    uint16
	TokenSymbol   string
	TokenDecimals int32
}

func (p *Properties) UnmarshalJSON(raw []byte) error {
	var v struct {
		SS58Format    json.RawMessage `json:"ss58Format"`
		TokenSymbol   json.RawMessage `json:"tokenSymbol"`
		TokenDecimals json.RawMessage `json:"tokenDecimals"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(errors.ErrDecode, err.Error())
	}

	// Chains with several tokens report lists, the first entry is the
	// native token.
	var prefix []uint16
	if err := firstOf(v.SS58Format, &prefix); err != nil {
		return errors.Wrap(err, "ss58Format")
	}
	var symbols []string
	if err := firstOf(v.TokenSymbol, &symbols); err != nil {
		return errors.Wrap(err, "tokenSymbol")
	}
	var decimals []int32
	if err := firstOf(v.TokenDecimals, &decimals); err != nil {
		return errors.Wrap(err, "tokenDecimals")
	}

	*p = Properties{SS58Format: cosign.SubstratePrefix}
	if len(prefix) > 0 {
		p.SS58Format = prefix[0]
	}
	if len(symbols) > 0 {
		p.TokenSymbol = symbols[0]
	}
	if len(decimals) > 0 {
		p.TokenDecimals = decimals[0]
	}
	return nil
}

// firstOf decodes either a single value or a list of values into a slice.
func firstOf(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] != '[' {
		raw = append(append([]byte{'['}, raw...), ']')
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(errors.ErrDecode, err.Error())
	}
	return nil
}

type header struct {
	Number string `json:"number"`
}

// parseHexUint decodes a 0x prefixed hex number.
func parseHexUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrDecode, "hex number %q", s)
	}
	return n, nil
}

// WalletAccount is an account controlled by the user.
type WalletAccount struct {
	ID   cosign.AccountID
	Name string
}
