package capacity

import (
	"math/big"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

// StakingType tells what a staking account receives for its stake.
type StakingType uint8

const (
	// MaximumCapacity stakes in exchange for capacity only.
	MaximumCapacity StakingType = iota
	// ProviderBoost stakes in exchange for token rewards and a share of
	// capacity for the provider.
	ProviderBoost
)

func (t StakingType) String() string {
	switch t {
	case MaximumCapacity:
		return "MaximumCapacity"
	case ProviderBoost:
		return "ProviderBoost"
	default:
		return "Unknown"
	}
}

// Label returns a human readable name of the staking type.
func (t StakingType) Label() string {
	switch t {
	case MaximumCapacity:
		return "Maximum Capacity"
	case ProviderBoost:
		return "Provider Boosting"
	default:
		return t.String()
	}
}

// Ledger is the Capacity.StakingAccountLedger storage value of an account.
type Ledger struct {
	// Active is the amount currently staked, over all targets.
	Active *big.Int
	Type   StakingType
}

// DecodeLedger reads a SCALE encoded staking ledger. An absent storage
// value decodes to nil: the account does not stake.
func DecodeLedger(raw []byte) (*Ledger, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	d := scale.NewDecoder(raw)
	l := &Ledger{Active: d.U128()}
	switch t := StakingType(d.U8()); t {
	case MaximumCapacity, ProviderBoost:
		l.Type = t
	default:
		d.Fail(errors.Wrapf(errors.ErrDecode, "unknown staking type %d", t))
	}
	if err := d.Finish(); err != nil {
		return nil, errors.Wrap(err, "staking ledger")
	}
	return l, nil
}

// MarshalSCALE writes the ledger in the storage layout.
func (l *Ledger) MarshalSCALE(e *scale.Encoder) error {
	if err := e.U128(l.Active); err != nil {
		return err
	}
	e.U8(uint8(l.Type))
	return nil
}

// StakeTarget is the stake of an account towards a single provider, as
// kept in Capacity.StakingTargetLedger. Its amount is what can be unstaked.
type StakeTarget struct {
	Provider uint64
	// ProviderName is empty when the provider is not registered.
	ProviderName string
	Amount       *big.Int
	Capacity     *big.Int
}

// DecodeStakeTarget reads a SCALE encoded staking target value of given
// provider.
func DecodeStakeTarget(provider uint64, raw []byte) (*StakeTarget, error) {
	d := scale.NewDecoder(raw)
	t := &StakeTarget{
		Provider: provider,
		Amount:   d.U128(),
		Capacity: d.U128(),
	}
	if err := d.Finish(); err != nil {
		return nil, errors.Wrapf(err, "staking target %d", provider)
	}
	return t, nil
}

// MarshalSCALE writes the target value in the storage layout. The provider
// is part of the storage key and is not written.
func (t *StakeTarget) MarshalSCALE(e *scale.Encoder) error {
	if err := e.U128(t.Amount); err != nil {
		return err
	}
	return e.U128(t.Capacity)
}

// DecodeProviderName reads the name of a Msa.ProviderToRegistryEntry
// value. The name is the first field of the entry, later fields are
// ignored.
func DecodeProviderName(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	d := scale.NewDecoder(raw)
	name := d.Fixed(d.Len(1))
	if err := d.Err(); err != nil {
		return "", errors.Wrap(err, "provider name")
	}
	return string(name), nil
}
