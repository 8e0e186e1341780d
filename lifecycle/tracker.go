package lifecycle

import (
	"context"
	"sync"

	"github.com/iov-one/cosign/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Stage is the formal state of a submission.
type Stage int

const (
	StageSent Stage = iota
	StageBroadcast
	StageInBlock
	StageFinalized
	StageErrored
)

func (s Stage) String() string {
	switch s {
	case StageSent:
		return "sent"
	case StageBroadcast:
		return "broadcast"
	case StageInBlock:
		return "inBlock"
	case StageFinalized:
		return "finalized"
	case StageErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal returns true for StageFinalized and StageErrored.
func (s Stage) Terminal() bool {
	return s == StageFinalized || s == StageErrored
}

// State is a snapshot of a submission.
type State struct {
	Stage Stage
	// Block is the hash of the including block, once known.
	Block string
	// Success is only meaningful in the finalized stage. It is false when
	// the events of the extrinsic are not known.
	Success bool
	Events  []Event
	// Err is set in the errored stage.
	Err error
}

func (s State) label() string {
	switch {
	case s.Stage == StageFinalized && s.Success:
		return "success"
	case s.Stage == StageFinalized:
		return "failure"
	default:
		return s.Stage.String()
	}
}

// Tracker folds the notifications of one submission into its state. It is
// safe for concurrent use, but notifications are expected to come from a
// single ordered stream.
type Tracker struct {
	logger   log.Logger
	observer func(State)
	complete func(State)

	mu    sync.Mutex
	state State

	once sync.Once
	done chan struct{}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithObserver registers a function called after every state change.
func WithObserver(fn func(State)) Option {
	return func(t *Tracker) { t.observer = fn }
}

// OnComplete registers a function called exactly once, when the
// submission reaches a terminal state.
func OnComplete(fn func(State)) Option {
	return func(t *Tracker) { t.complete = fn }
}

// WithLogger sets the logger. Every notification is logged at debug level.
func WithLogger(l log.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// NewTracker returns a tracker in the sent stage.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		logger: log.NewNopLogger(),
		state:  State{Stage: StageSent},
		done:   make(chan struct{}),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed when a terminal state is reached.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until a terminal state is reached or the context is done.
// Giving up waiting does not change the state of the submission.
func (t *Tracker) Wait(ctx context.Context) (State, error) {
	select {
	case <-t.done:
		return t.State(), nil
	case <-ctx.Done():
		return t.State(), errors.Wrap(errors.ErrTimeout, ctx.Err().Error())
	}
}

// Apply processes a notification and returns true if the state changed.
// Notifications that would move the state backwards, repeat the current
// stage or arrive after a terminal state are ignored.
func (t *Tracker) Apply(n Notification) bool {
	t.logger.Debug("submission status", "status", describe(n))

	t.mu.Lock()
	next, ok := transition(t.state, n)
	if ok {
		t.state = next
	}
	t.mu.Unlock()

	if !ok {
		if u, isUnknown := n.(Unknown); isUnknown {
			t.logger.Info("opaque submission status", "status", u.Raw)
		}
		return false
	}
	t.changed(next)
	return true
}

// Fail moves the submission to the errored stage unless it is already
// terminal.
func (t *Tracker) Fail(err error) bool {
	if err == nil {
		err = errors.Wrap(errors.ErrInvalidState, "unspecified failure")
	}
	t.mu.Lock()
	if t.state.Stage.Terminal() {
		t.mu.Unlock()
		t.logger.Debug("failure after terminal state ignored", "err", err)
		return false
	}
	t.state.Stage = StageErrored
	t.state.Err = err
	next := t.state
	t.mu.Unlock()

	t.changed(next)
	return true
}

// Run consumes notifications until a terminal state is reached. A stream
// closed early fails the submission with ErrProvider. A done context only
// stops the consumption: the submission may still be executed, so the
// state is returned unchanged together with ErrTimeout.
func (t *Tracker) Run(ctx context.Context, notifications <-chan Notification) (State, error) {
	for {
		select {
		case <-ctx.Done():
			s := t.State()
			t.logger.Info("stopped tracking submission", "stage", s.Stage.String(), "err", ctx.Err())
			return s, errors.Wrap(errors.ErrTimeout, ctx.Err().Error())
		case n, ok := <-notifications:
			if !ok {
				t.Fail(errors.Wrap(errors.ErrProvider, "status stream closed"))
				return t.State(), nil
			}
			t.Apply(n)
			if s := t.State(); s.Stage.Terminal() {
				return s, nil
			}
		}
	}
}

func (t *Tracker) changed(s State) {
	t.logger.Info("submission state", "stage", s.Stage.String(), "block", s.Block)
	if t.observer != nil {
		t.observer(s)
	}
	if !s.Stage.Terminal() {
		return
	}
	t.once.Do(func() {
		submissionsCounter.WithLabelValues(s.label()).Inc()
		if s.Err != nil {
			t.logger.Error("submission failed", "err", s.Err)
		}
		if t.complete != nil {
			t.complete(s)
		}
		close(t.done)
	})
}

// transition returns the state following cur after n, and false if n does
// not change the state.
func transition(cur State, n Notification) (State, bool) {
	if cur.Stage.Terminal() {
		return cur, false
	}
	switch n := n.(type) {
	case Ready:
		return cur, false
	case Broadcast:
		if cur.Stage >= StageBroadcast {
			return cur, false
		}
		cur.Stage = StageBroadcast
		return cur, true
	case InBlock:
		if cur.Stage > StageInBlock || (cur.Stage == StageInBlock && cur.Block == n.Block) {
			return cur, false
		}
		// A different block at the same stage follows a reorganization.
		cur.Stage = StageInBlock
		cur.Block = n.Block
		return cur, true
	case Finalized:
		cur.Stage = StageFinalized
		cur.Block = n.Block
		cur.Events = n.Events
		cur.Success = HasSuccess(n.Events)
		return cur, true
	case Failed:
		cur.Stage = StageErrored
		cur.Err = errors.Wrap(errors.ErrSubmissionRejected, n.Reason)
		return cur, true
	default:
		return cur, false
	}
}
