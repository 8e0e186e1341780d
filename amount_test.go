package cosign_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

func TestFormatAmount(t *testing.T) {
	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	tests := []struct {
		name     string
		planck   *big.Int
		decimals uint8
		want     string
	}{
		{name: "zero", planck: big.NewInt(0), decimals: 8, want: "0"},
		{name: "nil", planck: nil, decimals: 8, want: "0"},
		{name: "whole", planck: big.NewInt(100000000), decimals: 8, want: "1.00000000"},
		{name: "fraction", planck: big.NewInt(12345), decimals: 8, want: "0.00012345"},
		{name: "grouped", planck: big.NewInt(123456789000000), decimals: 8, want: "1,234,567.89000000"},
		{name: "no decimals", planck: big.NewInt(1234567), decimals: 0, want: "1,234,567"},
		{name: "beyond int64", planck: huge, decimals: 0, want: "123,456,789,012,345,678,901,234,567,890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, cosign.FormatAmount(tt.planck, tt.decimals))
		})
	}

	require.Equal(t, "1.50 UNIT", cosign.FormatAmountWithUnit(big.NewInt(150), 2, "UNIT"))
}

func TestParseAmount(t *testing.T) {
	got, err := cosign.ParseAmount("1,234.5", 8)
	require.NoError(t, err)
	require.Equal(t, "123450000000", got.String())

	got, err = cosign.ParseAmount("0.00000001", 8)
	require.NoError(t, err)
	require.Equal(t, "1", got.String())

	_, err = cosign.ParseAmount("0.000000001", 8)
	require.True(t, errors.ErrInvalidInput.Is(err))

	_, err = cosign.ParseAmount("-1", 8)
	require.True(t, errors.ErrInvalidInput.Is(err))

	_, err = cosign.ParseAmount("one", 8)
	require.True(t, errors.ErrFormat.Is(err))
}
