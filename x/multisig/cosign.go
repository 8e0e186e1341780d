package multisig

import (
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
)

// Initiate returns the call that creates a new pending call, or dispatches
// it right away for a threshold of one.
func Initiate(d *cosign.Descriptor, signer cosign.AccountID, call []byte, maxWeight calls.Weight) (calls.Msg, error) {
	others, err := othersOf(d, signer)
	if err != nil {
		return nil, err
	}
	if d.Threshold == 1 {
		return &AsMultiThreshold1Msg{OtherSignatories: others, Call: call}, nil
	}
	return &AsMultiMsg{
		Threshold:        d.Threshold,
		OtherSignatories: others,
		Call:             call,
		MaxWeight:        maxWeight,
	}, nil
}

// BuildCoSign returns the call signer submits to act on a pending call.
//
// Cancelling produces cancelAsMulti and is restricted to the depositor.
// Approving produces asMulti when the call data is known, so that the
// approval reaching the threshold executes the call, and approveAsMulti
// with the call hash otherwise.
func BuildCoSign(d *cosign.Descriptor, tx *ResolvedTransaction, signer cosign.AccountID, action Action, maxWeight calls.Weight) (calls.Msg, error) {
	others, err := othersOf(d, signer)
	if err != nil {
		return nil, err
	}
	when := tx.When

	switch action {
	case Cancel:
		if signer != tx.Depositor {
			return nil, errors.Wrapf(ErrNotDepositor, "%s", signer)
		}
		return &CancelAsMultiMsg{
			Threshold:        d.Threshold,
			OtherSignatories: others,
			Timepoint:        when,
			CallHash:         tx.CallHash,
		}, nil
	case Approve:
		if tx.HasApproved(signer) {
			return nil, errors.Wrapf(ErrAlreadyApproved, "%s", signer)
		}
		if tx.HasCallData() {
			return &AsMultiMsg{
				Threshold:        d.Threshold,
				OtherSignatories: others,
				MaybeTimepoint:   &when,
				Call:             tx.Payload.Data,
				MaxWeight:        maxWeight,
			}, nil
		}
		if ApprovalState(&tx.Entry, d.Threshold).Approved {
			return nil, errors.Wrap(errors.ErrInvalidState, "threshold reached, call data is required to execute")
		}
		return &ApproveAsMultiMsg{
			Threshold:        d.Threshold,
			OtherSignatories: others,
			MaybeTimepoint:   &when,
			CallHash:         tx.CallHash,
			MaxWeight:        maxWeight,
		}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown action %d", action)
	}
}

func othersOf(d *cosign.Descriptor, signer cosign.AccountID) ([]cosign.AccountID, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !d.Has(signer) {
		return nil, errors.Wrapf(ErrNotSignatory, "%s", signer)
	}
	return cosign.Others(d.Signatories, signer), nil
}
