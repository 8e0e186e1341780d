package schedule

import (
	"testing"
	"time"

	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/require"
)

func TestEstimateHeightForDate(t *testing.T) {
	refTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ref := Reference{Height: 1000, Time: refTime}

	cases := map[string]struct {
		target  time.Time
		ref     Reference
		period  time.Duration
		want    uint64
		wantErr *errors.Error
	}{
		"one minute ahead": {
			target: refTime.Add(60000 * time.Millisecond),
			ref:    ref,
			period: 6 * time.Second,
			want:   1010,
		},
		"same time": {
			target: refTime,
			ref:    ref,
			period: 6 * time.Second,
			want:   1000,
		},
		"rounds down below half a block": {
			target: refTime.Add(2999 * time.Millisecond),
			ref:    ref,
			period: 6 * time.Second,
			want:   1000,
		},
		"rounds half a block up": {
			target: refTime.Add(3 * time.Second),
			ref:    ref,
			period: 6 * time.Second,
			want:   1001,
		},
		"one day": {
			target: refTime.Add(24 * time.Hour),
			ref:    ref,
			period: 6 * time.Second,
			want:   1000 + 14400,
		},
		"past target": {
			target:  refTime.Add(-time.Millisecond),
			ref:     ref,
			period:  6 * time.Second,
			wantErr: errors.ErrUnavailable,
		},
		"no reference": {
			target:  refTime,
			period:  6 * time.Second,
			wantErr: errors.ErrUnavailable,
		},
		"zero period": {
			target:  refTime,
			ref:     ref,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := EstimateHeightForDate(tc.target, tc.ref, tc.period)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEstimateDateForHeight(t *testing.T) {
	refTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ref := Reference{Height: 1000, Time: refTime}

	got, err := EstimateDateForHeight(1010, ref, DefaultBlockPeriod)
	require.NoError(t, err)
	require.Equal(t, refTime.Add(time.Minute), got)

	got, err = EstimateDateForHeight(990, ref, DefaultBlockPeriod)
	require.NoError(t, err)
	require.Equal(t, refTime.Add(-time.Minute), got)

	_, err = EstimateDateForHeight(1, Reference{}, DefaultBlockPeriod)
	require.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestUnlockTarget(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	cases := map[string]struct {
		day  time.Time
		want time.Time
	}{
		"midnight utc": {
			day:  time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC),
		},
		"late evening": {
			day:  time.Date(2024, 5, 17, 23, 59, 0, 0, time.UTC),
			want: time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC),
		},
		"calendar day of the given zone": {
			day:  time.Date(2024, 5, 18, 0, 30, 0, 0, warsaw),
			want: time.Date(2024, 5, 18, 12, 0, 0, 0, time.UTC),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			require.Equal(t, tc.want, UnlockTarget(tc.day))
		})
	}
}
