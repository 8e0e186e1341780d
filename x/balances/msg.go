package balances

import (
	"math/big"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

const (
	pathTransferKeepAliveMsg = "balances.transferKeepAlive"

	callTransferKeepAlive = 3
)

var _ calls.Msg = (*TransferKeepAliveMsg)(nil)

// TransferKeepAliveMsg moves funds to another account without allowing the
// sender account to be reaped.
type TransferKeepAliveMsg struct {
	Dest  cosign.AccountID
	Value *big.Int
}

// Path fulfills calls.Msg interface to allow routing
func (TransferKeepAliveMsg) Path() string {
	return pathTransferKeepAliveMsg
}

// Validate makes sure that this is sensible
func (m *TransferKeepAliveMsg) Validate() error {
	var errs error
	if m.Dest.IsZero() {
		errs = errors.AppendField(errs, "Dest", errors.ErrEmpty)
	}
	if m.Value == nil || m.Value.Sign() <= 0 {
		errs = errors.Append(errs, errors.Field("Value", errors.ErrInvalidInput, "must be positive"))
	}
	return errs
}

func (m *TransferKeepAliveMsg) MarshalSCALE(e *scale.Encoder) error {
	calls.WriteMultiAddress(e, m.Dest)
	return e.CompactBig(m.Value)
}

func decodeTransferKeepAlive(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
	return &TransferKeepAliveMsg{
		Dest:  calls.ReadMultiAddress(d),
		Value: d.CompactBig(),
	}, nil
}

// RegisterCalls registers all calls of this package for the balances
// pallet at given index.
func RegisterCalls(r *calls.Registry, pallet uint8) {
	r.Register(pallet, callTransferKeepAlive, pathTransferKeepAliveMsg, decodeTransferKeepAlive)
}
