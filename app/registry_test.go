package app

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/balances"
	"github.com/iov-one/cosign/x/capacity"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/timerelease"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	cases := map[string]struct {
		Path      string
		WantIndex string
	}{
		"transfer keep alive":   {Path: "balances.transferKeepAlive", WantIndex: "0x0a03"},
		"multisig as multi":     {Path: "multisig.asMulti", WantIndex: "0x1e01"},
		"multisig approve":      {Path: "multisig.approveAsMulti", WantIndex: "0x1e02"},
		"multisig cancel":       {Path: "multisig.cancelAsMulti", WantIndex: "0x1e03"},
		"time release claim":    {Path: "timeRelease.claim", WantIndex: "0x2800"},
		"time release transfer": {Path: "timeRelease.transfer", WantIndex: "0x2801"},
		"capacity stake":        {Path: "capacity.stake", WantIndex: "0x4000"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			idx, ok := r.Index(tc.Path)
			require.Equal(t, true, ok)
			require.Equal(t, tc.WantIndex, idx.String())
		})
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	r := DefaultRegistry()
	transfer := &timerelease.TransferMsg{
		Dest: cosigntest.Bob,
		Schedule: timerelease.ReleaseSchedule{
			Start: 1, Period: 2, PeriodCount: 1, PerPeriod: big.NewInt(100),
		},
	}
	inner, err := r.Encode(transfer)
	require.NoError(t, err)

	outer, err := r.Encode(&multisig.AsMultiMsg{
		Threshold:        2,
		OtherSignatories: []cosign.AccountID{cosigntest.Bob},
		Call:             inner,
		MaxWeight:        calls.DefaultMaxWeight,
	})
	require.NoError(t, err)

	call, err := r.Decode(outer)
	require.NoError(t, err)
	require.Equal(t, "asMulti", call.Method)
	nested, err := r.Decode(call.Msg.(*multisig.AsMultiMsg).Call)
	require.NoError(t, err)
	require.Equal(t, transfer, nested.Msg)

	for _, msg := range []calls.Msg{
		&balances.TransferKeepAliveMsg{Dest: cosigntest.Alice, Value: big.NewInt(1)},
		&capacity.StakeMsg{Target: 1, Amount: big.NewInt(1)},
	} {
		raw, err := r.Encode(msg)
		require.NoError(t, err)
		c, err := r.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, msg.Path(), c.Path())
	}
}

func TestCustomPallets(t *testing.T) {
	p := DefaultPallets
	p.Balances = 5
	r, err := Registry(p)
	require.NoError(t, err)

	raw, err := r.Encode(&balances.TransferKeepAliveMsg{Dest: cosigntest.Alice, Value: big.NewInt(1)})
	require.NoError(t, err)
	require.Equal(t, "0503", hex.EncodeToString(raw[:2]))

	p.Capacity = p.Multisig
	_, err = Registry(p)
	cosigntest.RequireFieldError(t, err, "Capacity", errors.ErrInvalidInput)
	cosigntest.RequireFieldError(t, err, "Balances", nil)
}
