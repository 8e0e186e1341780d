package multisig

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/x/balances"
	"github.com/iov-one/cosign/x/timerelease"
)

// Pallet indexes used by all tests of this package.
const (
	balancesPallet    = 10
	multisigPallet    = 30
	timeReleasePallet = 40
)

func testRegistry() *calls.Registry {
	r := calls.NewRegistry()
	balances.RegisterCalls(r, balancesPallet)
	timerelease.RegisterCalls(r, timeReleasePallet)
	RegisterCalls(r, multisigPallet)
	return r
}

// fakeChain serves pending entries from memory.
type fakeChain struct {
	entries map[cosign.AccountID][]Entry
	err     error
	queried []cosign.AccountID
}

func (c *fakeChain) PendingMultisigEntries(_ context.Context, account cosign.AccountID) ([]Entry, error) {
	c.queried = append(c.queried, account)
	if c.err != nil {
		return nil, c.err
	}
	return c.entries[account], nil
}

func encodeCall(t testing.TB, msg calls.Msg) []byte {
	t.Helper()
	raw, err := testRegistry().Encode(msg)
	if err != nil {
		t.Fatalf("cannot encode %s: %s", msg.Path(), err)
	}
	return raw
}

func transferCall(t testing.TB) []byte {
	return encodeCall(t, &balances.TransferKeepAliveMsg{Dest: cosigntest.Dave, Value: big.NewInt(100000000)})
}

// aliceBobCharlie is a 2 of 3 multisig of the development accounts.
func aliceBobCharlie(t testing.TB) *cosign.Descriptor {
	return cosigntest.Descriptor(t, 2, cosigntest.Alice, cosigntest.Bob, cosigntest.Charlie)
}

func newEntry(account cosign.AccountID, callData []byte, depositor cosign.AccountID, approvals ...cosign.AccountID) Entry {
	return Entry{
		Account:   account,
		CallHash:  calls.HashOf(callData),
		When:      Timepoint{Height: 77, Index: 2},
		Deposit:   big.NewInt(1000),
		Depositor: depositor,
		Approvals: cosign.NewSignatorySet(approvals...).List(),
	}
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}
