package multisig

import (
	"github.com/iov-one/cosign/errors"
)

// multisig takes 1030-1040
var (
	// ErrNotSignatory is returned when an account outside of the signatory
	// set tries to act on a multisig call.
	ErrNotSignatory = errors.Register(1030, "not a signatory")

	// ErrAlreadyApproved is returned when an account approves a call for the
	// second time.
	ErrAlreadyApproved = errors.Register(1031, "already approved")

	// ErrNotDepositor is returned when an account other than the depositor
	// tries to cancel a call.
	ErrNotDepositor = errors.Register(1032, "not the depositor")
)
