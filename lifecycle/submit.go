package lifecycle

import (
	"context"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
)

// SubmitOptions are passed to the signer with every call.
type SubmitOptions struct {
	// Nonce overrides the account nonce. Set it when several submissions
	// of the same account may race.
	Nonce *uint64
	// MaxWeight is the weight ceiling of calls that require one.
	MaxWeight *calls.Weight
}

// Signer signs a call with the key of account and submits it. The returned
// channel delivers the status notifications of that single submission in
// lifecycle order and is closed when no more notifications follow.
type Signer interface {
	SignAndSubmit(ctx context.Context, call []byte, account cosign.AccountID, opts SubmitOptions) (<-chan Notification, error)
}

// CallEncoder encodes a message into call data. calls.Registry implements
// it.
type CallEncoder interface {
	Encode(msg calls.Msg) ([]byte, error)
}

// Submit encodes msg, hands it to the signer and tracks the submission in
// the background until its status stream ends. ctx bounds signing only: a
// call handed to the signer cannot be withdrawn, so tracking goes on after
// ctx is done. Use Tracker.Wait to give up waiting. The returned tracker is
// never nil. Encoding and signing failures are reported through the
// tracker as the errored stage, signer failures wrap ErrSubmissionRejected
// unless the provider connection failed.
func Submit(
	ctx context.Context,
	signer Signer,
	enc CallEncoder,
	msg calls.Msg,
	account cosign.AccountID,
	opts SubmitOptions,
	trackerOpts ...Option,
) *Tracker {
	t := NewTracker(trackerOpts...)

	call, err := enc.Encode(msg)
	if err != nil {
		t.Fail(errors.Wrap(err, "cannot encode call"))
		return t
	}

	notifications, err := signer.SignAndSubmit(ctx, call, account, opts)
	if err != nil {
		if !errors.ErrProvider.Is(err) && !errors.ErrSubmissionRejected.Is(err) {
			err = errors.Wrap(errors.ErrSubmissionRejected, err.Error())
		}
		t.Fail(err)
		return t
	}

	go t.Run(context.WithoutCancel(ctx), notifications)
	return t
}
