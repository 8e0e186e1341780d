package capacity

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/require"
)

func TestStakingEncoding(t *testing.T) {
	r := calls.NewRegistry()
	RegisterCalls(r, 64)

	amount := big.NewInt(1000)
	cases := map[string]struct {
		msg     calls.Msg
		wantHex string
	}{
		"stake": {
			msg:     &StakeMsg{Target: 1, Amount: amount},
			wantHex: "4000" + "0100000000000000" + "e8030000000000000000000000000000",
		},
		"unstake": {
			msg:     &UnstakeMsg{Target: 1, Amount: amount},
			wantHex: "4002" + "0100000000000000" + "e8030000000000000000000000000000",
		},
		"provider boost": {
			msg:     &ProviderBoostMsg{Target: 1, Amount: amount},
			wantHex: "4005" + "0100000000000000" + "e8030000000000000000000000000000",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := r.Encode(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.wantHex, hex.EncodeToString(raw))

			call, err := r.Decode(raw)
			require.NoError(t, err)
			require.Equal(t, tc.msg.Path(), call.Path())
			require.Equal(t, tc.msg, call.Msg)
		})
	}
}

func TestStakingValidation(t *testing.T) {
	err := (&StakeMsg{}).Validate()
	cosigntest.RequireFieldError(t, err, "Target", errors.ErrEmpty)
	cosigntest.RequireFieldError(t, err, "Amount", errors.ErrInvalidInput)

	err = (&ProviderBoostMsg{Target: 3, Amount: big.NewInt(-1)}).Validate()
	cosigntest.RequireFieldError(t, err, "Target", nil)
	cosigntest.RequireFieldError(t, err, "Amount", errors.ErrInvalidInput)
}
