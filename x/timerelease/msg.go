package timerelease

import (
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

const (
	pathClaimMsg    = "timeRelease.claim"
	pathTransferMsg = "timeRelease.transfer"

	callClaim    = 0
	callTransfer = 1
)

var _ calls.Msg = (*ClaimMsg)(nil)
var _ calls.Msg = (*TransferMsg)(nil)

// ClaimMsg releases all matured schedules of the sender.
type ClaimMsg struct{}

// Path fulfills calls.Msg interface to allow routing
func (ClaimMsg) Path() string {
	return pathClaimMsg
}

func (*ClaimMsg) Validate() error {
	return nil
}

func (*ClaimMsg) MarshalSCALE(*scale.Encoder) error {
	return nil
}

// TransferMsg locks an amount for Dest according to the schedule.
type TransferMsg struct {
	Dest     cosign.AccountID
	Schedule ReleaseSchedule
}

// Path fulfills calls.Msg interface to allow routing
func (TransferMsg) Path() string {
	return pathTransferMsg
}

// Validate makes sure that this is sensible
func (m *TransferMsg) Validate() error {
	var errs error
	if m.Dest.IsZero() {
		errs = errors.AppendField(errs, "Dest", errors.ErrEmpty)
	}
	return errors.AppendField(errs, "Schedule", m.Schedule.Validate())
}

func (m *TransferMsg) MarshalSCALE(e *scale.Encoder) error {
	calls.WriteMultiAddress(e, m.Dest)
	return m.Schedule.MarshalSCALE(e)
}

func decodeClaim(*calls.Registry, *scale.Decoder) (calls.Msg, error) {
	return &ClaimMsg{}, nil
}

func decodeTransfer(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
	return &TransferMsg{
		Dest:     calls.ReadMultiAddress(d),
		Schedule: ReadSchedule(d),
	}, nil
}

// RegisterCalls registers all calls of this package for the time release
// pallet at given index.
func RegisterCalls(r *calls.Registry, pallet uint8) {
	r.Register(pallet, callClaim, pathClaimMsg, decodeClaim)
	r.Register(pallet, callTransfer, pathTransferMsg, decodeTransfer)
}
