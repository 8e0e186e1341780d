package scale

import (
	"bytes"
	"math/big"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/iov-one/cosign/errors"
)

// maxCompactBytes is the widest compact integer accepted, 128 bits.
const maxCompactBytes = 16

// Decoder reads values from an encoded byte slice. The first failure is
// remembered and all following reads return zero values, so that a caller
// can read a whole structure and check Err once.
type Decoder struct {
	data []byte
	r    *bytes.Reader
	err  error
}

// NewDecoder returns a decoder reading given data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data, r: bytes.NewReader(data)}
}

func (d *Decoder) codec() gsrpc.Decoder {
	return *gsrpc.NewDecoder(d.r)
}

// Err returns the first decoding failure, if any.
func (d *Decoder) Err() error {
	return d.err
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return d.r.Len()
}

// Offset returns the number of bytes read so far.
func (d *Decoder) Offset() int {
	return len(d.data) - d.r.Len()
}

// Finish returns the first decoding failure or an error if not all input
// was consumed.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if n := d.Remaining(); n != 0 {
		return errors.Wrapf(errors.ErrDecode, "%d trailing bytes", n)
	}
	return nil
}

// need checks that n more bytes can be read.
func (d *Decoder) need(n int) bool {
	if d.err != nil {
		return false
	}
	if n < 0 || d.Remaining() < n {
		d.fail("want %d bytes at offset %d, have %d", n, d.Offset(), d.Remaining())
		return false
	}
	return true
}

// Fixed reads exactly n bytes.
func (d *Decoder) Fixed(n int) []byte {
	if n < 0 {
		n = 0
	}
	out := make([]byte, n)
	if d.need(n) {
		d.keep(d.codec().Read(out))
	}
	return out
}

func (d *Decoder) U8() uint8 {
	if !d.need(1) {
		return 0
	}
	b, err := d.codec().ReadOneByte()
	d.keep(err)
	return b
}

func (d *Decoder) U16() (v uint16) {
	if d.need(2) {
		d.keep(d.codec().Decode(&v))
	}
	return v
}

func (d *Decoder) U32() (v uint32) {
	if d.need(4) {
		d.keep(d.codec().Decode(&v))
	}
	return v
}

func (d *Decoder) U64() (v uint64) {
	if d.need(8) {
		d.keep(d.codec().Decode(&v))
	}
	return v
}

func (d *Decoder) Bool() bool {
	switch b := d.U8(); b {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail("invalid bool byte %d", b)
		return false
	}
}

// Option reads the presence flag of an optional value.
func (d *Decoder) Option() bool {
	switch b := d.U8(); b {
	case 0:
		return false
	case 1:
		return true
	default:
		d.fail("invalid option byte %d", b)
		return false
	}
}

// U128 reads a 16 byte little endian unsigned integer.
func (d *Decoder) U128() *big.Int {
	if !d.need(16) {
		return new(big.Int)
	}
	var v types.U128
	if err := v.Decode(d.codec()); err != nil || v.Int == nil {
		d.keep(err)
		return new(big.Int)
	}
	return v.Int
}

// Compact reads a compact integer that must fit in 64 bits.
func (d *Decoder) Compact() uint64 {
	v := d.CompactBig()
	if !v.IsUint64() {
		d.fail("compact value %s overflows 64 bits", v)
		return 0
	}
	return v.Uint64()
}

// CompactBig reads a compact integer of up to 128 bits.
func (d *Decoder) CompactBig() *big.Int {
	if !d.need(1) {
		return new(big.Int)
	}
	// Check the length of the big integer mode before reading it.
	if head := d.data[d.Offset()]; head&0x03 == 0x03 {
		if n := int(head>>2) + 4; n > maxCompactBytes {
			d.fail("compact value of %d bytes is not supported", n)
			return new(big.Int)
		}
	}
	v, err := d.codec().DecodeUintCompact()
	if err != nil || v == nil {
		d.keep(err)
		return new(big.Int)
	}
	return v
}

// Len reads a compact vector length and checks that at least min bytes per
// element are still available.
func (d *Decoder) Len(min int) int {
	n := d.Compact()
	if d.err != nil {
		return 0
	}
	if min > 0 && n > uint64(d.Remaining()/min) {
		d.fail("vector of %d elements does not fit in %d bytes", n, d.Remaining())
		return 0
	}
	return int(n)
}

// Since returns a copy of the bytes read since given offset.
func (d *Decoder) Since(offset int) []byte {
	end := d.Offset()
	if offset < 0 || offset > end {
		return nil
	}
	out := make([]byte, end-offset)
	copy(out, d.data[offset:end])
	return out
}

// Fail records an error found by a caller while interpreting the decoded
// values. Only the first error is kept.
func (d *Decoder) Fail(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *Decoder) fail(format string, args ...interface{}) {
	d.Fail(errors.Wrapf(errors.ErrDecode, format, args...))
}

// keep records a failure reported by the underlying codec.
func (d *Decoder) keep(err error) {
	if err != nil {
		d.Fail(errors.Wrap(errors.ErrDecode, err.Error()))
	}
}
