package balances

import (
	"math/big"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

// AccountInfo is the System.Account storage value.
type AccountInfo struct {
	Nonce       uint32
	Consumers   uint32
	Providers   uint32
	Sufficients uint32
	Data        AccountData
}

// AccountData holds the balances of an account, in the smallest unit.
type AccountData struct {
	Free     *big.Int
	Reserved *big.Int
	Frozen   *big.Int
	Flags    *big.Int
}

// Transferable returns the part of the free balance that is not frozen.
func (a AccountData) Transferable() *big.Int {
	out := new(big.Int)
	if a.Free == nil {
		return out
	}
	out.Set(a.Free)
	if a.Frozen != nil {
		out.Sub(out, a.Frozen)
	}
	if out.Sign() < 0 {
		out.SetInt64(0)
	}
	return out
}

// DecodeAccountInfo reads a SCALE encoded System.Account value. An absent
// storage value decodes to an empty account.
func DecodeAccountInfo(raw []byte) (*AccountInfo, error) {
	if len(raw) == 0 {
		return &AccountInfo{Data: AccountData{
			Free: new(big.Int), Reserved: new(big.Int),
			Frozen: new(big.Int), Flags: new(big.Int),
		}}, nil
	}
	d := scale.NewDecoder(raw)
	info := &AccountInfo{
		Nonce:       d.U32(),
		Consumers:   d.U32(),
		Providers:   d.U32(),
		Sufficients: d.U32(),
		Data: AccountData{
			Free:     d.U128(),
			Reserved: d.U128(),
			Frozen:   d.U128(),
			Flags:    d.U128(),
		},
	}
	if err := d.Finish(); err != nil {
		return nil, errors.Wrap(err, "account info")
	}
	return info, nil
}

// MarshalSCALE writes the account info in the storage layout.
func (a *AccountInfo) MarshalSCALE(e *scale.Encoder) error {
	e.U32(a.Nonce)
	e.U32(a.Consumers)
	e.U32(a.Providers)
	e.U32(a.Sufficients)
	for _, v := range []*big.Int{a.Data.Free, a.Data.Reserved, a.Data.Frozen, a.Data.Flags} {
		if err := e.U128(v); err != nil {
			return err
		}
	}
	return nil
}
