package multisig

import (
	"context"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/calls"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/schedule"
	"github.com/iov-one/cosign/x/timerelease"
	"github.com/tendermint/tendermint/libs/log"
)

// ChainQuery returns the pending calls of a multisig account.
type ChainQuery interface {
	PendingMultisigEntries(ctx context.Context, account cosign.AccountID) ([]Entry, error)
}

// CallDecoder decodes call data. calls.Registry implements it.
type CallDecoder interface {
	Decode(raw []byte) (*calls.Call, error)
}

// ReferenceClock provides the reference height used to annotate release
// schedules. schedule.Clock implements it.
type ReferenceClock interface {
	Reference(ctx context.Context) (schedule.Reference, error)
	BlockPeriod() time.Duration
}

// ResolvedTransaction is a pending entry joined with its call data.
type ResolvedTransaction struct {
	Entry

	// Payload is nil when no call data is known for the hash.
	Payload *Payload
	// Call is nil when the call data is unknown or cannot be decoded.
	Call *calls.Call
	// DecodeErr is set when call data is known but cannot be decoded.
	DecodeErr error
	// TimeRelease is set for time release transfers.
	TimeRelease *TimeReleaseInfo
}

// HasCallData returns true if the call data of this entry is known.
func (t *ResolvedTransaction) HasCallData() bool {
	return t.Payload != nil
}

// Section returns the pallet name of the decoded call or an empty string.
func (t *ResolvedTransaction) Section() string {
	if t.Call == nil {
		return ""
	}
	return t.Call.Section
}

// Method returns the method name of the decoded call or an empty string.
func (t *ResolvedTransaction) Method() string {
	if t.Call == nil {
		return ""
	}
	return t.Call.Method
}

// TimeReleaseInfo describes a release schedule created by a pending call.
type TimeReleaseInfo struct {
	Dest         cosign.AccountID
	Schedule     timerelease.ReleaseSchedule
	Supported    bool
	UnlockHeight uint64
	// Known is false when no reference height was available, Matured and
	// EstimatedUnlock are then not set.
	Known           bool
	Matured         bool
	EstimatedUnlock time.Time
}

// Reconciler resolves pending multisig calls. It keeps no state between
// calls and is safe for concurrent use.
type Reconciler struct {
	chain   ChainQuery
	decoder CallDecoder
	clock   ReferenceClock
	logger  log.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithClock enables annotation of release schedules.
func WithClock(c ReferenceClock) ReconcilerOption {
	return func(r *Reconciler) { r.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.logger = l }
}

// NewReconciler returns a reconciler reading entries from chain and
// decoding call data with decoder.
func NewReconciler(chain ChainQuery, decoder CallDecoder, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		chain:   chain,
		decoder: decoder,
		logger:  log.NewNopLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolvePending returns all pending calls of the multisig account joined
// with the matching payloads. Call data that cannot be decoded degrades its
// own entry only. The order of the result follows the chain query.
func (r *Reconciler) ResolvePending(ctx context.Context, account cosign.AccountID, payloads Payloads) ([]ResolvedTransaction, error) {
	entries, err := r.chain.PendingMultisigEntries(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "pending multisig entries")
	}

	ref := lazyReference{clock: r.clock}
	out := make([]ResolvedTransaction, 0, len(entries))
	for _, e := range entries {
		tx := ResolvedTransaction{Entry: e}
		if p, ok := payloads[e.CallHash]; ok {
			p := p
			tx.Payload = &p
			call, err := r.decoder.Decode(p.Data)
			if err != nil {
				if !errors.ErrDecode.Is(err) {
					err = errors.Wrap(errors.ErrDecode, err.Error())
				}
				tx.DecodeErr = err
				r.logger.Info("undecodable call data", "hash", e.CallHash.String(), "err", err)
			} else {
				tx.Call = call
			}
		}
		if tx.Call != nil {
			if m, ok := tx.Call.Msg.(*timerelease.TransferMsg); ok {
				tx.TimeRelease = r.timeRelease(ctx, m, &ref)
			}
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *Reconciler) timeRelease(ctx context.Context, m *timerelease.TransferMsg, ref *lazyReference) *TimeReleaseInfo {
	info := &TimeReleaseInfo{
		Dest:         m.Dest,
		Schedule:     m.Schedule,
		Supported:    m.Schedule.Supported(),
		UnlockHeight: m.Schedule.UnlockHeight(),
	}
	current, err := ref.get(ctx)
	if err != nil {
		r.logger.Info("release schedule not annotated", "err", err)
		return info
	}
	info.Known = true
	info.Matured = schedule.IsMatured(m.Schedule, current.Height)
	if unlock, err := schedule.EstimateDateForHeight(info.UnlockHeight, current, r.clock.BlockPeriod()); err == nil {
		info.EstimatedUnlock = unlock
	}
	return info
}

// lazyReference fetches the reference at most once per reconciliation and
// only if a release schedule needs it.
type lazyReference struct {
	clock ReferenceClock
	done  bool
	ref   schedule.Reference
	err   error
}

func (l *lazyReference) get(ctx context.Context) (schedule.Reference, error) {
	if l.clock == nil {
		return schedule.Reference{}, errors.Wrap(errors.ErrUnavailable, "no clock")
	}
	if !l.done {
		l.ref, l.err = l.clock.Reference(ctx)
		l.done = true
	}
	return l.ref, l.err
}

// Config is a multisig configuration as entered by a user.
type Config struct {
	Codec       cosign.Codec
	Threshold   uint16
	Signatories []string
	// Expected is an optional multisig address the configuration must
	// derive to.
	Expected string
}

// Resolution is the result of resolving a multisig configuration.
type Resolution struct {
	Descriptor   *cosign.Descriptor
	Account      cosign.AccountID
	Address      string
	Transactions []ResolvedTransaction
}

// Resolve validates the configuration, derives the multisig account and
// resolves its pending calls. The configuration is validated on every call.
// When an expected address is given and the derived one differs,
// ErrCanonical is returned instead of an empty list of pending calls.
func (r *Reconciler) Resolve(ctx context.Context, cfg Config, payloads Payloads) (*Resolution, error) {
	d, err := cosign.NewDescriptor(cfg.Codec, cfg.Threshold, cfg.Signatories, "")
	if err != nil {
		return nil, err
	}
	account, err := d.Account()
	if err != nil {
		return nil, err
	}
	if cfg.Expected != "" {
		expected, err := cfg.Codec.Decode(cfg.Expected)
		if err != nil {
			return nil, errors.Field("Expected", err, "expected multisig address")
		}
		if expected != account {
			return nil, errors.Wrapf(errors.ErrCanonical, "signatories derive %s, expected %s",
				cfg.Codec.Encode(account), cfg.Codec.Encode(expected))
		}
	}
	txs, err := r.ResolvePending(ctx, account, payloads)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Descriptor:   d,
		Account:      account,
		Address:      cfg.Codec.Encode(account),
		Transactions: txs,
	}, nil
}
