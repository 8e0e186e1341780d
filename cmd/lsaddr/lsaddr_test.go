package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/require"
)

func TestPrintAddresses(t *testing.T) {
	prefixes, err := parsePrefixes([]string{"Polkadot", "42"})
	require.NoError(t, err)
	require.Equal(t, []uint16{0, 42}, prefixes)

	var out bytes.Buffer
	require.NoError(t, printAddresses(&out, cosigntest.AliceAddress, prefixes, false))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 3, len(lines))
	require.Equal(t, "key  "+cosigntest.Alice.String(), lines[0])
	require.Equal(t, "0    15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5", lines[1])
	require.Equal(t, "42   "+cosigntest.AliceAddress, lines[2])
}

func TestDefaultPrefixes(t *testing.T) {
	prefixes, err := parsePrefixes(nil)
	require.NoError(t, err)
	require.Equal(t, []uint16{0, 2, 42}, prefixes)

	_, err = parsePrefixes([]string{"moon"})
	if err == nil {
		t.Fatal("unknown network accepted")
	}
}

func TestInvalidAddress(t *testing.T) {
	err := printAddresses(&bytes.Buffer{}, "not-an-address", nil, true)
	require.ErrorIs(t, err, errors.ErrFormat)
}
