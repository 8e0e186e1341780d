package timerelease

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/require"
)

func TestTransferEncoding(t *testing.T) {
	r := calls.NewRegistry()
	RegisterCalls(r, 40)

	msg := &TransferMsg{
		Dest: cosigntest.Alice,
		Schedule: ReleaseSchedule{
			Start:       100,
			Period:      10,
			PeriodCount: 1,
			PerPeriod:   big.NewInt(100000000),
		},
	}
	raw, err := r.Encode(msg)
	require.NoError(t, err)
	require.Equal(t,
		"2801"+"00"+"d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"+
			"64000000"+"0a000000"+"01000000"+"0284d717",
		hex.EncodeToString(raw))

	call, err := r.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "timeRelease.transfer", call.Path())
	got := call.Msg.(*TransferMsg)
	require.Equal(t, cosigntest.Alice, got.Dest)
	require.Equal(t, uint32(100), got.Schedule.Start)
	require.Equal(t, uint32(10), got.Schedule.Period)
	require.Equal(t, uint32(1), got.Schedule.PeriodCount)
	require.Equal(t, "100000000", got.Schedule.PerPeriod.String())
}

func TestClaimEncoding(t *testing.T) {
	r := calls.NewRegistry()
	RegisterCalls(r, 40)

	raw, err := r.Encode(&ClaimMsg{})
	require.NoError(t, err)
	require.Equal(t, "2800", hex.EncodeToString(raw))

	call, err := r.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, &ClaimMsg{}, call.Msg)
}

func TestTransferValidation(t *testing.T) {
	cases := map[string]struct {
		msg        *TransferMsg
		wantFields map[string]*errors.Error
	}{
		"valid": {
			msg: &TransferMsg{
				Dest:     cosigntest.Bob,
				Schedule: ReleaseSchedule{Start: 1, Period: 1, PeriodCount: 1, PerPeriod: big.NewInt(1)},
			},
			wantFields: map[string]*errors.Error{"Dest": nil, "Schedule": nil},
		},
		"missing destination": {
			msg: &TransferMsg{
				Schedule: ReleaseSchedule{Start: 1, Period: 1, PeriodCount: 1, PerPeriod: big.NewInt(1)},
			},
			wantFields: map[string]*errors.Error{"Dest": errors.ErrEmpty, "Schedule": nil},
		},
		"zero period": {
			msg: &TransferMsg{
				Dest:     cosigntest.Bob,
				Schedule: ReleaseSchedule{Start: 1, PeriodCount: 1, PerPeriod: big.NewInt(1)},
			},
			wantFields: map[string]*errors.Error{"Dest": nil, "Schedule": errors.ErrInvalidInput},
		},
		"overflowing end": {
			msg: &TransferMsg{
				Dest:     cosigntest.Bob,
				Schedule: ReleaseSchedule{Start: 4294967290, Period: 10, PeriodCount: 1, PerPeriod: big.NewInt(1)},
			},
			wantFields: map[string]*errors.Error{"Schedule": errors.ErrOverflow},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantFields {
				cosigntest.RequireFieldError(t, err, field, want)
			}
		})
	}
}
