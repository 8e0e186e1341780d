package multisig

import (
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

const (
	pathAsMultiThreshold1Msg = "multisig.asMultiThreshold1"
	pathAsMultiMsg           = "multisig.asMulti"
	pathApproveAsMultiMsg    = "multisig.approveAsMulti"
	pathCancelAsMultiMsg     = "multisig.cancelAsMulti"

	callAsMultiThreshold1 = 0
	callAsMulti           = 1
	callApproveAsMulti    = 2
	callCancelAsMulti     = 3

	// To avoid burning CPU, this is the maximum number of signatories
	// allowed to be part of a single multisig.
	maxSignatories = 100
)

var _ calls.Msg = (*AsMultiThreshold1Msg)(nil)
var _ calls.Msg = (*AsMultiMsg)(nil)
var _ calls.Msg = (*ApproveAsMultiMsg)(nil)
var _ calls.Msg = (*CancelAsMultiMsg)(nil)

// AsMultiThreshold1Msg dispatches a call of a multisig with a threshold of
// one. No pending entry is created.
type AsMultiThreshold1Msg struct {
	OtherSignatories []cosign.AccountID
	Call             []byte
}

// Path fulfills calls.Msg interface to allow routing
func (AsMultiThreshold1Msg) Path() string {
	return pathAsMultiThreshold1Msg
}

// Validate enforces signatory boundaries
func (m *AsMultiThreshold1Msg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "OtherSignatories", validateOthers(m.OtherSignatories))
	if len(m.Call) == 0 {
		errs = errors.AppendField(errs, "Call", errors.ErrEmpty)
	}
	return errs
}

func (m *AsMultiThreshold1Msg) MarshalSCALE(e *scale.Encoder) error {
	calls.WriteAccounts(e, m.OtherSignatories)
	e.Raw(m.Call)
	return nil
}

// AsMultiMsg approves a call and provides its data. The first approval
// creates the pending entry and carries no timepoint, the approval reaching
// the threshold executes the call.
type AsMultiMsg struct {
	Threshold        uint16
	OtherSignatories []cosign.AccountID
	MaybeTimepoint   *Timepoint
	Call             []byte
	MaxWeight        calls.Weight
}

// Path fulfills calls.Msg interface to allow routing
func (AsMultiMsg) Path() string {
	return pathAsMultiMsg
}

// Validate enforces signatory and threshold boundaries
func (m *AsMultiMsg) Validate() error {
	errs := validateThreshold(m.Threshold, m.OtherSignatories)
	if len(m.Call) == 0 {
		errs = errors.AppendField(errs, "Call", errors.ErrEmpty)
	}
	return errs
}

func (m *AsMultiMsg) MarshalSCALE(e *scale.Encoder) error {
	e.U16(m.Threshold)
	calls.WriteAccounts(e, m.OtherSignatories)
	writeMaybeTimepoint(e, m.MaybeTimepoint)
	e.Raw(m.Call)
	return m.MaxWeight.MarshalSCALE(e)
}

// ApproveAsMultiMsg approves a call by its hash only.
type ApproveAsMultiMsg struct {
	Threshold        uint16
	OtherSignatories []cosign.AccountID
	MaybeTimepoint   *Timepoint
	CallHash         calls.Hash
	MaxWeight        calls.Weight
}

// Path fulfills calls.Msg interface to allow routing
func (ApproveAsMultiMsg) Path() string {
	return pathApproveAsMultiMsg
}

// Validate enforces signatory and threshold boundaries
func (m *ApproveAsMultiMsg) Validate() error {
	errs := validateThreshold(m.Threshold, m.OtherSignatories)
	if m.CallHash == (calls.Hash{}) {
		errs = errors.AppendField(errs, "CallHash", errors.ErrEmpty)
	}
	return errs
}

func (m *ApproveAsMultiMsg) MarshalSCALE(e *scale.Encoder) error {
	e.U16(m.Threshold)
	calls.WriteAccounts(e, m.OtherSignatories)
	writeMaybeTimepoint(e, m.MaybeTimepoint)
	e.Raw(m.CallHash[:])
	return m.MaxWeight.MarshalSCALE(e)
}

// CancelAsMultiMsg removes a pending call and returns the deposit. Only the
// depositor can cancel.
type CancelAsMultiMsg struct {
	Threshold        uint16
	OtherSignatories []cosign.AccountID
	Timepoint        Timepoint
	CallHash         calls.Hash
}

// Path fulfills calls.Msg interface to allow routing
func (CancelAsMultiMsg) Path() string {
	return pathCancelAsMultiMsg
}

// Validate enforces signatory and threshold boundaries
func (m *CancelAsMultiMsg) Validate() error {
	errs := validateThreshold(m.Threshold, m.OtherSignatories)
	if m.CallHash == (calls.Hash{}) {
		errs = errors.AppendField(errs, "CallHash", errors.ErrEmpty)
	}
	return errs
}

func (m *CancelAsMultiMsg) MarshalSCALE(e *scale.Encoder) error {
	e.U16(m.Threshold)
	calls.WriteAccounts(e, m.OtherSignatories)
	if err := m.Timepoint.MarshalSCALE(e); err != nil {
		return err
	}
	e.Raw(m.CallHash[:])
	return nil
}

// validateThreshold returns an error if given threshold and other
// signatories cannot describe a pending call. This check is shared by all
// messages that refer to a pending entry.
func validateThreshold(threshold uint16, others []cosign.AccountID) error {
	var errs error
	if threshold < 2 {
		errs = errors.Append(errs, errors.Field("Threshold", errors.ErrInvalidMultisigConfig,
			"must be at least 2, use %s for a threshold of 1", pathAsMultiThreshold1Msg))
	} else if int(threshold) > len(others)+1 {
		errs = errors.Append(errs, errors.Field("Threshold", errors.ErrInvalidMultisigConfig,
			"%d exceeds the number of signatories %d", threshold, len(others)+1))
	}
	return errors.AppendField(errs, "OtherSignatories", validateOthers(others))
}

func validateOthers(others []cosign.AccountID) error {
	switch n := len(others); {
	case n == 0:
		return errors.Wrap(errors.ErrInvalidMultisigConfig, "no other signatories")
	case n >= maxSignatories:
		return errors.Wrap(errors.ErrInvalidMultisigConfig, "too many signatories")
	}
	return cosign.IsCanonical(others)
}

func writeMaybeTimepoint(e *scale.Encoder, t *Timepoint) {
	if t == nil {
		e.U8(0)
		return
	}
	e.U8(1)
	t.MarshalSCALE(e)
}

func readMaybeTimepoint(d *scale.Decoder) *Timepoint {
	if !d.Option() {
		return nil
	}
	t := ReadTimepoint(d)
	return &t
}

func readHash(d *scale.Decoder) calls.Hash {
	var h calls.Hash
	copy(h[:], d.Fixed(calls.HashLength))
	return h
}

func decodeAsMultiThreshold1(r *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
	m := &AsMultiThreshold1Msg{OtherSignatories: calls.ReadAccounts(d)}
	inner, err := r.ReadCall(d)
	if err != nil {
		return nil, errors.Wrap(err, "inner call")
	}
	m.Call = inner.Raw
	return m, nil
}

func decodeAsMulti(r *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
	m := &AsMultiMsg{
		Threshold:        d.U16(),
		OtherSignatories: calls.ReadAccounts(d),
		MaybeTimepoint:   readMaybeTimepoint(d),
	}
	inner, err := r.ReadCall(d)
	if err != nil {
		return nil, errors.Wrap(err, "inner call")
	}
	m.Call = inner.Raw
	m.MaxWeight = calls.ReadWeight(d)
	return m, nil
}

func decodeApproveAsMulti(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
	return &ApproveAsMultiMsg{
		Threshold:        d.U16(),
		OtherSignatories: calls.ReadAccounts(d),
		MaybeTimepoint:   readMaybeTimepoint(d),
		CallHash:         readHash(d),
		MaxWeight:        calls.ReadWeight(d),
	}, nil
}

func decodeCancelAsMulti(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
	return &CancelAsMultiMsg{
		Threshold:        d.U16(),
		OtherSignatories: calls.ReadAccounts(d),
		Timepoint:        ReadTimepoint(d),
		CallHash:         readHash(d),
	}, nil
}

// RegisterCalls registers all calls of this package for the multisig
// pallet at given index.
func RegisterCalls(r *calls.Registry, pallet uint8) {
	r.Register(pallet, callAsMultiThreshold1, pathAsMultiThreshold1Msg, decodeAsMultiThreshold1)
	r.Register(pallet, callAsMulti, pathAsMultiMsg, decodeAsMulti)
	r.Register(pallet, callApproveAsMulti, pathApproveAsMultiMsg, decodeApproveAsMulti)
	r.Register(pallet, callCancelAsMulti, pathCancelAsMultiMsg, decodeCancelAsMulti)
}
