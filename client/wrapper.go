package client

import (
	"context"
	"time"

	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/lifecycle"
)

// detachedTimeout bounds the requests made while watching an extrinsic,
// after the caller's context is no longer used.
const detachedTimeout = 5 * time.Second

// EventSource returns the events emitted by an extrinsic included in a
// block. Decoding events requires the runtime metadata, which this package
// does not interpret.
type EventSource interface {
	ExtrinsicEvents(ctx context.Context, block string, extrinsic calls.Hash) ([]lifecycle.Event, error)
}

// EventSourceFunc adapts a function to the EventSource interface.
type EventSourceFunc func(ctx context.Context, block string, extrinsic calls.Hash) ([]lifecycle.Event, error)

func (fn EventSourceFunc) ExtrinsicEvents(ctx context.Context, block string, extrinsic calls.Hash) ([]lifecycle.Event, error) {
	return fn(ctx, block, extrinsic)
}

// SubmitAndWatch submits a signed extrinsic and returns its status
// notifications. ctx bounds the submission request only. The channel is
// closed after a terminal notification or when the connection is lost, and
// the caller must drain it.
//
// Whether a finalized extrinsic succeeded is read from its events, provided
// by events. This package has no EventSource of its own because decoding
// events needs the runtime metadata. Without one, or when events cannot be
// fetched, Finalized notifications carry no events and the submission is
// reported as not successful even if the chain executed the call. Check the
// outcome on chain in that case.
func (c *Client) SubmitAndWatch(ctx context.Context, extrinsic []byte, events EventSource) (<-chan lifecycle.Notification, error) {
	sub, err := c.conn.Subscribe(ctx, "author_submitAndWatchExtrinsic", "author_unwatchExtrinsic", toHex(extrinsic))
	if err != nil {
		return nil, errors.Wrap(err, "submit extrinsic")
	}
	hash := calls.HashOf(extrinsic)
	c.logger.Info("extrinsic submitted", "hash", hash.String(), "subscription", sub.ID())

	// The extrinsic cannot be withdrawn, watching goes on after ctx is done.
	watchCtx := context.WithoutCancel(ctx)

	out := make(chan lifecycle.Notification)
	go func() {
		defer func() {
			uctx, cancel := context.WithTimeout(watchCtx, detachedTimeout)
			defer cancel()
			if err := sub.Unsubscribe(uctx); err != nil {
				c.logger.Debug("cannot unwatch extrinsic", "hash", hash.String(), "err", err)
			}
		}()
		defer close(out)

		for raw := range sub.Notifications() {
			n := lifecycle.ParseStatus(raw)
			if f, isFinal := n.(lifecycle.Finalized); isFinal {
				f.Events = c.extrinsicEvents(watchCtx, events, f.Block, hash)
				n = f
			}
			out <- n

			switch n.(type) {
			case lifecycle.Finalized, lifecycle.Failed:
				return
			}
		}
	}()
	return out, nil
}

func (c *Client) extrinsicEvents(ctx context.Context, events EventSource, block string, hash calls.Hash) []lifecycle.Event {
	if events == nil {
		c.logger.Info("extrinsic finalized without an event source, outcome unknown", "hash", hash.String(), "block", block)
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, detachedTimeout)
	defer cancel()
	evs, err := events.ExtrinsicEvents(ctx, block, hash)
	if err != nil {
		c.logger.Error("cannot fetch extrinsic events", "hash", hash.String(), "block", block, "err", err)
	}
	return evs
}
