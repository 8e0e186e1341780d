package lifecycle

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/balances"
	"github.com/stretchr/testify/require"
)

// fakeSigner replays a fixed list of notifications.
type fakeSigner struct {
	notifications []Notification
	err           error

	gotCall    []byte
	gotAccount cosign.AccountID
	gotOpts    SubmitOptions
}

func (s *fakeSigner) SignAndSubmit(_ context.Context, call []byte, account cosign.AccountID, opts SubmitOptions) (<-chan Notification, error) {
	s.gotCall, s.gotAccount, s.gotOpts = call, account, opts
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan Notification, len(s.notifications))
	for _, n := range s.notifications {
		ch <- n
	}
	close(ch)
	return ch, nil
}

func testRegistry() *calls.Registry {
	r := calls.NewRegistry()
	balances.RegisterCalls(r, 10)
	return r
}

func TestSubmit(t *testing.T) {
	transfer := &balances.TransferKeepAliveMsg{Dest: cosigntest.Bob, Value: big.NewInt(5)}
	nonce := uint64(7)

	cases := map[string]struct {
		Signer      *fakeSigner
		Msg         calls.Msg
		WantStage   Stage
		WantSuccess bool
		WantErr     *errors.Error
	}{
		"finalized": {
			Signer: &fakeSigner{notifications: []Notification{
				Ready{}, InBlock{Block: "0x01"}, Finalized{Block: "0x01", Events: []Event{success}},
			}},
			Msg:         transfer,
			WantStage:   StageFinalized,
			WantSuccess: true,
		},
		"signer declined": {
			Signer:    &fakeSigner{err: errors.ErrInvalidInput.New("user cancelled")},
			Msg:       transfer,
			WantStage: StageErrored,
			WantErr:   errors.ErrSubmissionRejected,
		},
		"connection lost while signing": {
			Signer:    &fakeSigner{err: errors.ErrProvider.New("disconnected")},
			Msg:       transfer,
			WantStage: StageErrored,
			WantErr:   errors.ErrProvider,
		},
		"stream ends before finality": {
			Signer:    &fakeSigner{notifications: []Notification{Ready{}, Broadcast{}}},
			Msg:       transfer,
			WantStage: StageErrored,
			WantErr:   errors.ErrProvider,
		},
		"invalid message": {
			Signer:    &fakeSigner{},
			Msg:       &balances.TransferKeepAliveMsg{},
			WantStage: StageErrored,
			WantErr:   errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			completed := make(chan State, 2)
			tr := Submit(context.Background(), tc.Signer, testRegistry(), tc.Msg, cosigntest.Alice,
				SubmitOptions{Nonce: &nonce}, OnComplete(func(s State) { completed <- s }))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			s, err := tr.Wait(ctx)
			require.NoError(t, err)
			require.Equal(t, tc.WantStage, s.Stage)
			require.Equal(t, tc.WantSuccess, s.Success)
			if tc.WantErr != nil {
				require.ErrorIs(t, s.Err, tc.WantErr)
			}

			require.Equal(t, s, <-completed)
			require.Equal(t, 0, len(completed))
		})
	}
}

func TestSubmitPassesOptions(t *testing.T) {
	signer := &fakeSigner{notifications: []Notification{Finalized{Block: "0x01"}}}
	nonce := uint64(3)
	weight := calls.DefaultMaxWeight
	msg := &balances.TransferKeepAliveMsg{Dest: cosigntest.Bob, Value: big.NewInt(5)}

	tr := Submit(context.Background(), signer, testRegistry(), msg, cosigntest.Charlie,
		SubmitOptions{Nonce: &nonce, MaxWeight: &weight})
	<-tr.Done()

	want, err := testRegistry().Encode(msg)
	require.NoError(t, err)
	require.Equal(t, want, signer.gotCall)
	require.Equal(t, cosigntest.Charlie, signer.gotAccount)
	require.Equal(t, uint64(3), *signer.gotOpts.Nonce)
	require.Equal(t, weight, *signer.gotOpts.MaxWeight)
}

// streamSigner hands out a channel the test feeds by hand.
type streamSigner struct {
	ch chan Notification
}

func (s *streamSigner) SignAndSubmit(context.Context, []byte, cosign.AccountID, SubmitOptions) (<-chan Notification, error) {
	return s.ch, nil
}

func TestSubmitTracksAfterContextDone(t *testing.T) {
	signer := &streamSigner{ch: make(chan Notification)}
	msg := &balances.TransferKeepAliveMsg{Dest: cosigntest.Bob, Value: big.NewInt(5)}

	ctx, cancel := context.WithCancel(context.Background())
	tr := Submit(ctx, signer, testRegistry(), msg, cosigntest.Alice, SubmitOptions{})
	signer.ch <- InBlock{Block: "0x01"}
	cancel()

	signer.ch <- Finalized{Block: "0x01", Events: []Event{success}}
	close(signer.ch)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	s, err := tr.Wait(waitCtx)
	require.NoError(t, err)
	require.Equal(t, StageFinalized, s.Stage)
	require.True(t, s.Success)
	require.NoError(t, s.Err)
}
