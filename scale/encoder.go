/*
Package scale reads and writes the SCALE encoded values needed to build
calls and to read storage: little endian fixed width integers, compact
integers, 128 bit balances, booleans, options and length prefixed vectors.

Encoder and Decoder adapt the codec of go-substrate-rpc-client to the
append and sticky error style used by the call and storage models, so a
whole structure is written or read before a single error check.
*/
package scale

import (
	"bytes"
	"math/big"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/iov-one/cosign/errors"
)

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Encoder accumulates an encoded value. The zero value is ready to use.
type Encoder struct {
	buf bytes.Buffer
	err error
}

// Bytes returns the encoded data.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Err returns the first write failure, if any.
func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) codec() gsrpc.Encoder {
	return *gsrpc.NewEncoder(&e.buf)
}

func (e *Encoder) keep(err error) {
	if err != nil && e.err == nil {
		e.err = errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
}

// Raw appends given bytes as they are.
func (e *Encoder) Raw(b []byte) {
	e.keep(e.codec().Write(b))
}

func (e *Encoder) U8(v uint8) {
	e.keep(e.codec().PushByte(v))
}

func (e *Encoder) U16(v uint16) {
	e.keep(e.codec().Encode(v))
}

func (e *Encoder) U32(v uint32) {
	e.keep(e.codec().Encode(v))
}

func (e *Encoder) U64(v uint64) {
	e.keep(e.codec().Encode(v))
}

func (e *Encoder) Bool(v bool) {
	e.keep(e.codec().Encode(v))
}

// U128 appends a 16 byte little endian unsigned integer.
func (e *Encoder) U128(v *big.Int) error {
	v, err := checkU128(v)
	if err != nil {
		return err
	}
	if err := types.NewU128(*v).Encode(e.codec()); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

// Compact appends v in the compact integer form.
func (e *Encoder) Compact(v uint64) {
	e.keep(e.codec().EncodeUintCompact(*new(big.Int).SetUint64(v)))
}

// CompactBig appends an unsigned integer of up to 128 bits in the compact
// form.
func (e *Encoder) CompactBig(v *big.Int) error {
	v, err := checkU128(v)
	if err != nil {
		return err
	}
	if err := e.codec().EncodeUintCompact(*v); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

func checkU128(v *big.Int) (*big.Int, error) {
	if v == nil {
		return new(big.Int), nil
	}
	if v.Sign() < 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "negative value")
	}
	if v.Cmp(maxU128) > 0 {
		return nil, errors.Wrap(errors.ErrOverflow, "value exceeds 128 bits")
	}
	return v, nil
}
