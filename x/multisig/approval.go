package multisig

import (
	"github.com/iov-one/cosign"
)

// Approval is the approval progress of a pending call.
type Approval struct {
	Count     int
	Threshold uint16
	Approved  bool
}

// ApprovalState counts the approvals of an entry against the threshold.
func ApprovalState(e *Entry, threshold uint16) Approval {
	n := len(e.Approvals)
	return Approval{
		Count:     n,
		Threshold: threshold,
		Approved:  n >= int(threshold),
	}
}

// Action is what a signatory does with a pending call.
type Action int

const (
	// Approve adds an approval, or executes the call when the threshold
	// is reached.
	Approve Action = iota
	// Cancel removes the pending call.
	Cancel
)

func (a Action) String() string {
	switch a {
	case Approve:
		return "approve"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// SignerDecision lists the wallet accounts that can take an action on a
// pending call.
type SignerDecision struct {
	Action Action
	// Eligible accounts in canonical order.
	Eligible []cosign.AccountID
	// Executes is true when an approval reaches the threshold and
	// dispatches the call. Such approval must carry the call data.
	Executes bool
	// RequiresCallData is true when the action is only meaningful with
	// the call data at hand.
	RequiresCallData bool
}

// CanAct returns true if at least one wallet account is eligible.
func (s SignerDecision) CanAct() bool {
	return len(s.Eligible) > 0
}

// SigningEligibility returns the wallet accounts that can take the action
// on the entry.
//
// Approving is open to signatories that have not approved yet. Once the
// threshold is reached the only meaningful approval is the executing one,
// which requires the call data, so without call data nobody is eligible.
// Cancelling is open to the depositor only, regardless of the approvals.
func SigningEligibility(e *Entry, d *cosign.Descriptor, wallet []cosign.AccountID, action Action, hasCallData bool) SignerDecision {
	members := cosign.NewSignatorySet(wallet...).Intersect(d.Signatories)

	switch action {
	case Cancel:
		dec := SignerDecision{Action: Cancel}
		for _, id := range members {
			if id == e.Depositor {
				dec.Eligible = append(dec.Eligible, id)
			}
		}
		return dec
	default:
		state := ApprovalState(e, d.Threshold)
		dec := SignerDecision{
			Action:   Approve,
			Executes: state.Count+1 >= int(d.Threshold),
		}
		dec.RequiresCallData = dec.Executes
		if state.Approved && !hasCallData {
			return dec
		}
		for _, id := range members {
			if !e.HasApproved(id) {
				dec.Eligible = append(dec.Eligible, id)
			}
		}
		return dec
	}
}

// Plan combines the approve and cancel decisions for an entry.
type Plan struct {
	Approval Approval
	Approve  SignerDecision
	Cancel   SignerDecision
	// CancelOnly is true when no wallet account can approve but the
	// depositor is controlled, cancelling is the only action left.
	CancelOnly bool
}

// PlanActions returns what the wallet accounts can do with a resolved
// transaction.
func PlanActions(tx *ResolvedTransaction, d *cosign.Descriptor, wallet []cosign.AccountID) Plan {
	p := Plan{
		Approval: ApprovalState(&tx.Entry, d.Threshold),
		Approve:  SigningEligibility(&tx.Entry, d, wallet, Approve, tx.HasCallData()),
		Cancel:   SigningEligibility(&tx.Entry, d, wallet, Cancel, tx.HasCallData()),
	}
	p.CancelOnly = !p.Approve.CanAct() && p.Cancel.CanAct()
	return p
}
