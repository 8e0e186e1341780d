package calls

import (
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

// MultiAddress variants carrying a 32 byte account.
const (
	multiAddressID        = 0x00
	multiAddressAddress32 = 0x03
)

// WriteAccount writes a raw account id.
func WriteAccount(e *scale.Encoder, id cosign.AccountID) {
	e.Raw(id[:])
}

// ReadAccount reads a raw account id.
func ReadAccount(d *scale.Decoder) cosign.AccountID {
	var id cosign.AccountID
	copy(id[:], d.Fixed(cosign.AccountIDLength))
	return id
}

// WriteAccounts writes a length prefixed list of account ids.
func WriteAccounts(e *scale.Encoder, ids []cosign.AccountID) {
	e.Compact(uint64(len(ids)))
	for _, id := range ids {
		WriteAccount(e, id)
	}
}

// ReadAccounts reads a length prefixed list of account ids.
func ReadAccounts(d *scale.Decoder) []cosign.AccountID {
	n := d.Len(cosign.AccountIDLength)
	ids := make([]cosign.AccountID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, ReadAccount(d))
	}
	return ids
}

// WriteMultiAddress writes an account as the Id variant of a multi
// address, the form used by transfer destinations.
func WriteMultiAddress(e *scale.Encoder, id cosign.AccountID) {
	e.U8(multiAddressID)
	WriteAccount(e, id)
}

// ReadMultiAddress reads a multi address. Only the variants that carry a 32
// byte account are supported.
func ReadMultiAddress(d *scale.Decoder) cosign.AccountID {
	switch tag := d.U8(); tag {
	case multiAddressID, multiAddressAddress32:
		return ReadAccount(d)
	default:
		d.Fail(errors.Wrapf(errors.ErrDecode, "unsupported multi address variant %d", tag))
		return cosign.AccountID{}
	}
}
