package multisig

import (
	"fmt"
	"math/big"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

// Timepoint identifies the extrinsic that created a pending call: the block
// height and the extrinsic index within that block.
type Timepoint struct {
	Height uint32 `json:"height"`
	Index  uint32 `json:"index"`
}

func (t Timepoint) String() string {
	return fmt.Sprintf("%d-%d", t.Height, t.Index)
}

func (t Timepoint) MarshalSCALE(e *scale.Encoder) error {
	e.U32(t.Height)
	e.U32(t.Index)
	return nil
}

// ReadTimepoint reads a timepoint written by MarshalSCALE.
func ReadTimepoint(d *scale.Decoder) Timepoint {
	return Timepoint{Height: d.U32(), Index: d.U32()}
}

// Entry is a pending call of a multisig account as stored on chain.
type Entry struct {
	// Account is the multisig account the call is pending for.
	Account   cosign.AccountID   `json:"account"`
	CallHash  calls.Hash         `json:"callHash"`
	When      Timepoint          `json:"when"`
	Deposit   *big.Int           `json:"deposit"`
	Depositor cosign.AccountID   `json:"depositor"`
	Approvals []cosign.AccountID `json:"approvals"`
}

// HasApproved returns true if id is one of the approvals.
func (e *Entry) HasApproved(id cosign.AccountID) bool {
	for _, a := range e.Approvals {
		if a == id {
			return true
		}
	}
	return false
}

// MarshalSCALE writes the storage value of the entry, without the account
// and the call hash which are part of the storage key.
func (e *Entry) MarshalSCALE(enc *scale.Encoder) error {
	if err := e.When.MarshalSCALE(enc); err != nil {
		return err
	}
	if err := enc.U128(e.Deposit); err != nil {
		return errors.Wrap(err, "deposit")
	}
	calls.WriteAccount(enc, e.Depositor)
	calls.WriteAccounts(enc, e.Approvals)
	return nil
}

// DecodeEntry reads the storage value of a pending call. The account and
// the call hash come from the storage key.
func DecodeEntry(account cosign.AccountID, hash calls.Hash, raw []byte) (*Entry, error) {
	d := scale.NewDecoder(raw)
	e := &Entry{
		Account:   account,
		CallHash:  hash,
		When:      ReadTimepoint(d),
		Deposit:   d.U128(),
		Depositor: calls.ReadAccount(d),
		Approvals: calls.ReadAccounts(d),
	}
	if err := d.Finish(); err != nil {
		return nil, errors.Wrapf(err, "multisig entry %s", hash)
	}
	return e, nil
}
