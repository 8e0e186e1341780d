/*
Package app assembles the call registry of a network from the modules under
x/.
*/
package app

import (
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/balances"
	"github.com/iov-one/cosign/x/capacity"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/timerelease"
)

// Pallets are the pallet indexes of a runtime. Indexes differ between
// networks, so they are configuration rather than constants.
type Pallets struct {
	Balances    uint8 `toml:"balances"`
	Multisig    uint8 `toml:"multisig"`
	TimeRelease uint8 `toml:"time_release"`
	Capacity    uint8 `toml:"capacity"`
}

// DefaultPallets are the pallet indexes of the reference network.
var DefaultPallets = Pallets{
	Balances:    10,
	Multisig:    30,
	TimeRelease: 40,
	Capacity:    64,
}

// Validate returns an error if two modules share a pallet index.
func (p Pallets) Validate() error {
	seen := make(map[uint8]string, 4)
	var errs error
	for _, m := range []struct {
		name  string
		index uint8
	}{
		{"Balances", p.Balances},
		{"Multisig", p.Multisig},
		{"TimeRelease", p.TimeRelease},
		{"Capacity", p.Capacity},
	} {
		if other, ok := seen[m.index]; ok {
			errs = errors.Append(errs, errors.Field(m.name, errors.ErrInvalidInput,
				"pallet index %d already used by %s", m.index, other))
			continue
		}
		seen[m.index] = m.name
	}
	return errs
}

// Registry returns a registry with the calls of all modules registered at
// the pallet indexes of p.
func Registry(p Pallets) (*calls.Registry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := calls.NewRegistry()
	balances.RegisterCalls(r, p.Balances)
	multisig.RegisterCalls(r, p.Multisig)
	timerelease.RegisterCalls(r, p.TimeRelease)
	capacity.RegisterCalls(r, p.Capacity)
	return r, nil
}

// DefaultRegistry returns the registry of the reference network.
func DefaultRegistry() *calls.Registry {
	r, err := Registry(DefaultPallets)
	if err != nil {
		panic(err)
	}
	return r
}
