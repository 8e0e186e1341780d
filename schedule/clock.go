package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/timerelease"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/singleflight"
)

// DefaultFreshness is how long an observed reference height is reused.
const DefaultFreshness = 60 * time.Second

// HeightSource returns the current height of the reference chain.
type HeightSource interface {
	ReferenceHeight(ctx context.Context) (uint64, error)
}

// HeightSourceFunc adapts a function to the HeightSource interface.
type HeightSourceFunc func(ctx context.Context) (uint64, error)

func (fn HeightSourceFunc) ReferenceHeight(ctx context.Context) (uint64, error) {
	return fn(ctx)
}

// Clock caches the reference height and converts between dates and
// heights.
//
// Clock is safe for concurrent use. The cached reference is replaced as a
// whole, a reader never observes a height from one fetch paired with the
// time of another. Concurrent refreshes share a single fetch.
type Clock struct {
	source    HeightSource
	freshness time.Duration
	period    time.Duration
	now       func() time.Time
	logger    log.Logger

	cached atomic.Pointer[Reference]
	group  singleflight.Group
}

// Option configures a Clock.
type Option func(*Clock)

// WithFreshness sets how long a fetched height is reused.
func WithFreshness(d time.Duration) Option {
	return func(c *Clock) { c.freshness = d }
}

// WithBlockPeriod sets the expected block time of the reference chain.
func WithBlockPeriod(d time.Duration) Option {
	return func(c *Clock) { c.period = d }
}

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// WithLogger sets the logger used to report fetches.
func WithLogger(l log.Logger) Option {
	return func(c *Clock) { c.logger = l }
}

// NewClock returns a clock reading heights from source.
func NewClock(source HeightSource, opts ...Option) *Clock {
	c := &Clock{
		source:    source,
		freshness: DefaultFreshness,
		period:    DefaultBlockPeriod,
		now:       time.Now,
		logger:    log.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BlockPeriod returns the expected block time.
func (c *Clock) BlockPeriod() time.Duration {
	return c.period
}

// Reference returns the cached reference if it is fresh, otherwise it
// fetches the current height.
func (c *Clock) Reference(ctx context.Context) (Reference, error) {
	if ref, ok := c.fresh(); ok {
		return ref, nil
	}
	v, err, _ := c.group.Do("reference", func() (interface{}, error) {
		// Another caller may have refreshed while this one waited.
		if ref, ok := c.fresh(); ok {
			return ref, nil
		}
		height, err := c.source.ReferenceHeight(ctx)
		if err != nil {
			referenceFetchCounter.WithLabelValues("error").Inc()
			return nil, errors.Wrap(err, "reference height")
		}
		ref := Reference{Height: height, Time: c.now()}
		c.cached.Store(&ref)
		referenceFetchCounter.WithLabelValues("ok").Inc()
		c.logger.Debug("reference height fetched", "height", height)
		return ref, nil
	})
	if err != nil {
		return Reference{}, err
	}
	return v.(Reference), nil
}

func (c *Clock) fresh() (Reference, bool) {
	ref := c.cached.Load()
	if ref == nil {
		return Reference{}, false
	}
	if c.now().Sub(ref.Time) >= c.freshness {
		return Reference{}, false
	}
	return *ref, true
}

// ReferenceHeight returns the height part of Reference.
func (c *Clock) ReferenceHeight(ctx context.Context) (uint64, error) {
	ref, err := c.Reference(ctx)
	if err != nil {
		return 0, err
	}
	return ref.Height, nil
}

// Invalidate drops the cached reference, the next call fetches a new one.
func (c *Clock) Invalidate() {
	c.cached.Store(nil)
}

// EstimateHeight returns the estimated height at target. Targets in the
// past fail with ErrUnavailable.
func (c *Clock) EstimateHeight(ctx context.Context, target time.Time) (uint64, error) {
	if target.Before(c.now()) {
		return 0, errors.Wrapf(errors.ErrUnavailable, "target %s is in the past",
			target.UTC().Format(time.RFC3339))
	}
	ref, err := c.Reference(ctx)
	if err != nil {
		return 0, err
	}
	return EstimateHeightForDate(target, ref, c.period)
}

// EstimateDate returns the estimated time at which height is reached.
func (c *Clock) EstimateDate(ctx context.Context, height uint64) (time.Time, error) {
	ref, err := c.Reference(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return EstimateDateForHeight(height, ref, c.period)
}

// Matured reports whether the schedule matured at the current reference
// height.
func (c *Clock) Matured(ctx context.Context, s timerelease.ReleaseSchedule) (bool, error) {
	height, err := c.ReferenceHeight(ctx)
	if err != nil {
		return false, err
	}
	return IsMatured(s, height), nil
}
