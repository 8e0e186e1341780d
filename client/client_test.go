package client

import (
	"context"
	"encoding/binary"
	"math/big"
	"testing"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/crypto"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/lifecycle"
	"github.com/iov-one/cosign/scale"
	"github.com/iov-one/cosign/x/balances"
	"github.com/iov-one/cosign/x/capacity"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/timerelease"
	"github.com/stretchr/testify/require"
)

func timeoutCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func dialNode(t *testing.T, n *fakeNode) *Client {
	t.Helper()
	conn, err := Dial(timeoutCtx(t), n.start())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn, WithRequestTimeout(2*time.Second))
}

func TestProperties(t *testing.T) {
	cases := map[string]struct {
		Raw  string
		Want Properties
	}{
		"single token": {
			Raw:  `{"ss58Format":90,"tokenDecimals":8,"tokenSymbol":"FRQCY"}`,
			Want: Properties{SS58Format: 90, TokenSymbol: "FRQCY", TokenDecimals: 8},
		},
		"token lists": {
			Raw:  `{"ss58Format":42,"tokenDecimals":[12,8],"tokenSymbol":["UNIT","OTHER"]}`,
			Want: Properties{SS58Format: 42, TokenSymbol: "UNIT", TokenDecimals: 12},
		},
		"no prefix": {
			Raw:  `{"tokenDecimals":8}`,
			Want: Properties{SS58Format: cosign.SubstratePrefix, TokenDecimals: 8},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			n := newFakeNode(t)
			n.properties = tc.Raw
			p, err := dialNode(t, n).Properties(timeoutCtx(t))
			require.NoError(t, err)
			require.Equal(t, tc.Want, *p)
		})
	}
}

func TestReferenceHeightAndNonce(t *testing.T) {
	n := newFakeNode(t)
	n.height = 0x1a2b
	n.nonce = 7
	c := dialNode(t, n)

	h, err := c.ReferenceHeight(timeoutCtx(t))
	require.NoError(t, err)
	require.Equal(t, uint64(6699), h)

	nonce, err := c.NextNonce(timeoutCtx(t), cosigntest.AliceAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(7), nonce)
}

func TestAccountBalance(t *testing.T) {
	n := newFakeNode(t)
	info := balances.AccountInfo{
		Nonce: 3,
		Data: balances.AccountData{
			Free:     big.NewInt(500000000),
			Reserved: big.NewInt(0),
			Frozen:   big.NewInt(100000000),
			Flags:    big.NewInt(0),
		},
	}
	var e scale.Encoder
	require.NoError(t, info.MarshalSCALE(&e))
	n.set(StorageKey("System", "Account", crypto.Blake2b128Concat(cosigntest.Alice.Bytes())), e.Bytes())
	c := dialNode(t, n)

	data, err := c.AccountBalance(timeoutCtx(t), cosigntest.Alice)
	require.NoError(t, err)
	require.Equal(t, "500000000", data.Free.String())
	require.Equal(t, "400000000", data.Transferable().String())

	data, err = c.AccountBalance(timeoutCtx(t), cosigntest.Bob)
	require.NoError(t, err)
	require.Equal(t, 0, data.Free.Sign())
}

func TestReleaseSchedules(t *testing.T) {
	n := newFakeNode(t)
	schedules := []timerelease.ReleaseSchedule{
		{Start: 10, Period: 5, PeriodCount: 1, PerPeriod: big.NewInt(100)},
		{Start: 20, Period: 5, PeriodCount: 2, PerPeriod: big.NewInt(7)},
	}
	raw, err := timerelease.EncodeSchedules(schedules)
	require.NoError(t, err)
	n.set(StorageKey("TimeRelease", "ReleaseSchedules", crypto.Blake2b128Concat(cosigntest.Bob.Bytes())), raw)
	c := dialNode(t, n)

	got, err := c.ReleaseSchedules(timeoutCtx(t), cosigntest.Bob)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, uint64(15), got[0].UnlockHeight())
	require.Equal(t, "7", got[1].PerPeriod.String())

	got, err = c.ReleaseSchedules(timeoutCtx(t), cosigntest.Alice)
	require.NoError(t, err)
	require.Len(t, got, 0)
}

func storeEntry(t *testing.T, n *fakeNode, e multisig.Entry) {
	var enc scale.Encoder
	require.NoError(t, e.MarshalSCALE(&enc))
	key := StorageKey("Multisig", "Multisigs",
		crypto.Twox64Concat(e.Account.Bytes()),
		crypto.Blake2b128Concat(e.CallHash[:]))
	n.set(key, enc.Bytes())
}

func TestPendingMultisigEntries(t *testing.T) {
	old := keysPageSize
	keysPageSize = 2
	defer func() { keysPageSize = old }()

	d := cosigntest.Descriptor(t, 2, cosigntest.Alice, cosigntest.Bob, cosigntest.Charlie)
	account := cosigntest.MultisigAccount(t, d)

	n := newFakeNode(t)
	want := make(map[calls.Hash]multisig.Entry)
	for i := 0; i < 5; i++ {
		e := multisig.Entry{
			Account:   account,
			CallHash:  calls.HashOf([]byte{byte(i)}),
			When:      multisig.Timepoint{Height: uint32(100 + i), Index: 1},
			Deposit:   big.NewInt(int64(1000 + i)),
			Depositor: cosigntest.Alice,
			Approvals: []cosign.AccountID{cosigntest.Alice},
		}
		want[e.CallHash] = e
		storeEntry(t, n, e)
	}
	// Entry of another multisig account.
	storeEntry(t, n, multisig.Entry{
		Account:   cosigntest.Eve,
		CallHash:  calls.HashOf([]byte("other")),
		Deposit:   big.NewInt(1),
		Depositor: cosigntest.Eve,
	})
	c := dialNode(t, n)

	entries, err := c.PendingMultisigEntries(timeoutCtx(t), account)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for _, got := range entries {
		w, ok := want[got.CallHash]
		require.True(t, ok, "unexpected entry %s", got.CallHash)
		require.Equal(t, w.When, got.When)
		require.Equal(t, w.Deposit.String(), got.Deposit.String())
		require.Equal(t, w.Approvals, got.Approvals)
		require.Equal(t, account, got.Account)
	}
	require.Equal(t, 3, n.called("state_getKeysPaged"))

	entries, err = c.PendingMultisigEntries(timeoutCtx(t), cosigntest.Dave)
	require.NoError(t, err)
	require.Len(t, entries, 0)
}

func TestSubmitAndWatch(t *testing.T) {
	n := newFakeNode(t)
	n.statuses = []string{`"ready"`, `{"broadcast":["peer"]}`, `{"inBlock":"0x01"}`, `{"finalized":"0x01"}`}
	c := dialNode(t, n)

	extrinsic := []byte{0x01, 0x02}
	var (
		gotHash  calls.Hash
		gotBlock string
	)
	events := EventSourceFunc(func(_ context.Context, block string, h calls.Hash) ([]lifecycle.Event, error) {
		gotHash, gotBlock = h, block
		return []lifecycle.Event{{Section: "system", Method: "ExtrinsicSuccess"}}, nil
	})

	ch, err := c.SubmitAndWatch(timeoutCtx(t), extrinsic, events)
	require.NoError(t, err)

	s, err := lifecycle.NewTracker().Run(timeoutCtx(t), ch)
	require.NoError(t, err)
	require.Equal(t, lifecycle.StageFinalized, s.Stage)
	require.True(t, s.Success)
	require.Equal(t, calls.HashOf(extrinsic), gotHash)
	require.Equal(t, "0x01", gotBlock)

	// The channel is closed after the terminal notification.
	_, ok := <-ch
	require.False(t, ok)
}

func TestSubmitAndWatchWithoutEvents(t *testing.T) {
	n := newFakeNode(t)
	n.statuses = []string{`"ready"`, `{"inBlock":"0x01"}`, `{"finalized":"0x01"}`}
	c := dialNode(t, n)

	ch, err := c.SubmitAndWatch(timeoutCtx(t), []byte{0x01}, nil)
	require.NoError(t, err)
	s, err := lifecycle.NewTracker().Run(timeoutCtx(t), ch)
	require.NoError(t, err)
	require.Equal(t, lifecycle.StageFinalized, s.Stage)
	require.False(t, s.Success)
}

func TestConnectionLost(t *testing.T) {
	n := newFakeNode(t)
	n.statuses = []string{`"ready"`, `{"inBlock":"0x01"}`, `{"finalized":"0x01"}`}
	n.dropAfter = 2
	c := dialNode(t, n)

	ch, err := c.SubmitAndWatch(timeoutCtx(t), []byte{0x01}, nil)
	require.NoError(t, err)
	s, err := lifecycle.NewTracker().Run(timeoutCtx(t), ch)
	require.NoError(t, err)
	require.Equal(t, lifecycle.StageErrored, s.Stage)
	require.ErrorIs(t, s.Err, errors.ErrProvider)
	require.Equal(t, "0x01", s.Block)

	select {
	case <-c.Conn().Done():
	case <-time.After(time.Second):
		t.Fatal("connection not reported as lost")
	}
	require.ErrorIs(t, c.Conn().Err(), errors.ErrProvider)

	_, err = c.ReferenceHeight(timeoutCtx(t))
	require.ErrorIs(t, err, errors.ErrProvider)
}

func TestPendingCallFailsOnDisconnect(t *testing.T) {
	n := newFakeNode(t)
	c := dialNode(t, n)

	errc := make(chan error, 1)
	go func() {
		errc <- c.Conn().Call(timeoutCtx(t), nil, "hang")
	}()
	// Requests are served in order, the hanging call is pending when the
	// node drops the connection.
	for n.called("hang") == 0 {
		time.Sleep(time.Millisecond)
	}
	_ = c.Conn().Call(timeoutCtx(t), nil, "drop")

	require.ErrorIs(t, <-errc, errors.ErrProvider)
}

func TestRPCError(t *testing.T) {
	c := dialNode(t, newFakeNode(t))
	err := c.Conn().Call(timeoutCtx(t), nil, "unknown_method")
	require.ErrorIs(t, err, errors.ErrProvider)
	require.ErrorContains(t, err, "Method not found")
}

func TestRequestTimeout(t *testing.T) {
	conn, err := Dial(timeoutCtx(t), newFakeNode(t).start())
	require.NoError(t, err)
	defer conn.Close()

	c := NewClient(conn, WithRequestTimeout(20*time.Millisecond))
	err = c.call(context.Background(), nil, "hang")
	require.ErrorIs(t, err, errors.ErrTimeout)
}

func TestDialInvalidURL(t *testing.T) {
	_, err := Dial(context.Background(), "ftp://node")
	require.ErrorIs(t, err, errors.ErrFormat)

	_, err = Dial(context.Background(), "ws://127.0.0.1:1")
	require.ErrorIs(t, err, errors.ErrProvider)
}

func TestSlowSubscriberDoesNotStallConnection(t *testing.T) {
	n := newFakeNode(t)
	n.flood = subscriptionBuffer + 4
	conn, err := Dial(timeoutCtx(t), n.start())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	sub, err := conn.Subscribe(timeoutCtx(t), "test_flood", "")
	require.NoError(t, err)

	// Nothing reads the subscription, other calls are still answered.
	var props map[string]interface{}
	require.NoError(t, conn.Call(timeoutCtx(t), &props, "system_properties"))
	require.EqualValues(t, 42, props["ss58Format"])

	var got []string
	for raw := range sub.Notifications() {
		got = append(got, string(raw))
	}
	require.Len(t, got, subscriptionBuffer)
	require.Equal(t, "0", got[0])
	require.NoError(t, conn.Err())
}

func TestSubmitAndWatchOutlivesContext(t *testing.T) {
	n := newFakeNode(t)
	n.statuses = []string{`"ready"`, `{"inBlock":"0x01"}`, `{"finalized":"0x02"}`}
	c := dialNode(t, n)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := c.SubmitAndWatch(ctx, []byte{0x01}, nil)
	require.NoError(t, err)
	cancel()

	s, err := lifecycle.NewTracker().Run(timeoutCtx(t), ch)
	require.NoError(t, err)
	require.Equal(t, lifecycle.StageFinalized, s.Stage)
	require.Equal(t, "0x02", s.Block)
	// Without an event source the outcome is unknown.
	require.False(t, s.Success)
}

func providerKey(id uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], id)
	return crypto.Twox64Concat(b[:])
}

func TestStakingLedger(t *testing.T) {
	n := newFakeNode(t)
	var e scale.Encoder
	ledger := capacity.Ledger{Active: big.NewInt(3000000000), Type: capacity.ProviderBoost}
	require.NoError(t, ledger.MarshalSCALE(&e))
	n.set(StorageKey("Capacity", "StakingAccountLedger", crypto.Twox64Concat(cosigntest.Alice.Bytes())), e.Bytes())
	c := dialNode(t, n)

	got, err := c.StakingLedger(timeoutCtx(t), cosigntest.Alice)
	require.NoError(t, err)
	require.Equal(t, "3000000000", got.Active.String())
	require.Equal(t, capacity.ProviderBoost, got.Type)

	got, err = c.StakingLedger(timeoutCtx(t), cosigntest.Bob)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStakeTargets(t *testing.T) {
	old := keysPageSize
	keysPageSize = 2
	defer func() { keysPageSize = old }()

	n := newFakeNode(t)
	amounts := map[uint64]int64{1: 100, 2: 250, 7: 40}
	for provider, amount := range amounts {
		var e scale.Encoder
		target := capacity.StakeTarget{Amount: big.NewInt(amount), Capacity: big.NewInt(amount / 10)}
		require.NoError(t, target.MarshalSCALE(&e))
		n.set(StorageKey("Capacity", "StakingTargetLedger",
			crypto.Twox64Concat(cosigntest.Alice.Bytes()), providerKey(provider)), e.Bytes())
	}
	// Stake of another account.
	var other scale.Encoder
	require.NoError(t, (&capacity.StakeTarget{Amount: big.NewInt(1), Capacity: big.NewInt(0)}).MarshalSCALE(&other))
	n.set(StorageKey("Capacity", "StakingTargetLedger",
		crypto.Twox64Concat(cosigntest.Bob.Bytes()), providerKey(1)), other.Bytes())

	// Registry entries carry more fields after the name.
	var entry scale.Encoder
	entry.Compact(5)
	entry.Raw([]byte("Alice"))
	entry.Compact(0)
	n.set(StorageKey("Msa", "ProviderToRegistryEntry", providerKey(1)), entry.Bytes())
	c := dialNode(t, n)

	targets, err := c.StakeTargets(timeoutCtx(t), cosigntest.Alice)
	require.NoError(t, err)
	require.Len(t, targets, 3)
	for _, got := range targets {
		want, ok := amounts[got.Provider]
		require.True(t, ok, "unexpected provider %d", got.Provider)
		require.Equal(t, want, got.Amount.Int64())
		require.Equal(t, want/10, got.Capacity.Int64())
		if got.Provider == 1 {
			require.Equal(t, "Alice", got.ProviderName)
		} else {
			require.Equal(t, "", got.ProviderName)
		}
	}
	require.Equal(t, 2, n.called("state_getKeysPaged"))

	targets, err = c.StakeTargets(timeoutCtx(t), cosigntest.Charlie)
	require.NoError(t, err)
	require.Len(t, targets, 0)
}
