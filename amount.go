package cosign

import (
	"math/big"
	"strings"

	"github.com/iov-one/cosign/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders an amount given in the smallest unit as a token
// amount: grouped integer digits followed by all decimal places. Zero is
// rendered as "0".
func FormatAmount(planck *big.Int, decimals uint8) string {
	if planck == nil || planck.Sign() == 0 {
		return "0"
	}
	x := decimal.NewFromBigInt(planck, -int32(decimals))
	fixed := x.StringFixed(int32(decimals))

	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i+1:]
	}
	out := groupDigits(x.Truncate(0), intPart)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// FormatAmountWithUnit works like FormatAmount and appends the token symbol.
func FormatAmountWithUnit(planck *big.Int, decimals uint8, symbol string) string {
	return FormatAmount(planck, decimals) + " " + symbol
}

func groupDigits(whole decimal.Decimal, digits string) string {
	if b := whole.BigInt(); b.IsInt64() {
		p := message.NewPrinter(language.English)
		return p.Sprintf("%v", b.Int64())
	}
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	var sb strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// ParseAmount converts a token amount, as typed by a user, into the smallest
// unit. Amounts more precise than the token allows are rejected.
func ParseAmount(s string, decimals uint8) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	x, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFormat, "amount %q", s)
	}
	if x.IsNegative() {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "negative amount %q", s)
	}
	planck := x.Shift(int32(decimals))
	if !planck.Equal(planck.Truncate(0)) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "amount %q has more than %d decimals", s, decimals)
	}
	return planck.BigInt(), nil
}
