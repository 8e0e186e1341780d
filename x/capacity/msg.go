/*
Package capacity provides the staking calls of the capacity pallet. Tokens
are staked towards a provider, identified by its message source id.
*/
package capacity

import (
	"math/big"

	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

const (
	pathStakeMsg         = "capacity.stake"
	pathUnstakeMsg       = "capacity.unstake"
	pathProviderBoostMsg = "capacity.providerBoost"

	callStake         = 0
	callUnstake       = 2
	callProviderBoost = 5
)

var _ calls.Msg = (*StakeMsg)(nil)
var _ calls.Msg = (*UnstakeMsg)(nil)
var _ calls.Msg = (*ProviderBoostMsg)(nil)

// StakeMsg stakes Amount towards the provider Target in exchange for
// capacity.
type StakeMsg struct {
	Target uint64
	Amount *big.Int
}

// Path fulfills calls.Msg interface to allow routing
func (StakeMsg) Path() string {
	return pathStakeMsg
}

func (m *StakeMsg) Validate() error {
	return validateStaking(m.Target, m.Amount)
}

func (m *StakeMsg) MarshalSCALE(e *scale.Encoder) error {
	return marshalStaking(e, m.Target, m.Amount)
}

// UnstakeMsg starts the thaw of Amount staked towards Target.
type UnstakeMsg struct {
	Target uint64
	Amount *big.Int
}

// Path fulfills calls.Msg interface to allow routing
func (UnstakeMsg) Path() string {
	return pathUnstakeMsg
}

func (m *UnstakeMsg) Validate() error {
	return validateStaking(m.Target, m.Amount)
}

func (m *UnstakeMsg) MarshalSCALE(e *scale.Encoder) error {
	return marshalStaking(e, m.Target, m.Amount)
}

// ProviderBoostMsg stakes Amount towards Target in exchange for token
// rewards, the provider receiving a share of capacity.
type ProviderBoostMsg struct {
	Target uint64
	Amount *big.Int
}

// Path fulfills calls.Msg interface to allow routing
func (ProviderBoostMsg) Path() string {
	return pathProviderBoostMsg
}

func (m *ProviderBoostMsg) Validate() error {
	return validateStaking(m.Target, m.Amount)
}

func (m *ProviderBoostMsg) MarshalSCALE(e *scale.Encoder) error {
	return marshalStaking(e, m.Target, m.Amount)
}

// validateStaking is shared by all staking messages, they carry the same
// arguments.
func validateStaking(target uint64, amount *big.Int) error {
	var errs error
	if target == 0 {
		errs = errors.AppendField(errs, "Target", errors.ErrEmpty)
	}
	if amount == nil || amount.Sign() <= 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrInvalidInput, "must be positive"))
	}
	return errs
}

func marshalStaking(e *scale.Encoder, target uint64, amount *big.Int) error {
	e.U64(target)
	return e.U128(amount)
}

// RegisterCalls registers all calls of this package for the capacity
// pallet at given index.
func RegisterCalls(r *calls.Registry, pallet uint8) {
	r.Register(pallet, callStake, pathStakeMsg, func(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
		return &StakeMsg{Target: d.U64(), Amount: d.U128()}, nil
	})
	r.Register(pallet, callUnstake, pathUnstakeMsg, func(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
		return &UnstakeMsg{Target: d.U64(), Amount: d.U128()}, nil
	})
	r.Register(pallet, callProviderBoost, pathProviderBoostMsg, func(_ *calls.Registry, d *scale.Decoder) (calls.Msg, error) {
		return &ProviderBoostMsg{Target: d.U64(), Amount: d.U128()}, nil
	})
}
