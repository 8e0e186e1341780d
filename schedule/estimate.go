package schedule

import (
	"time"

	"github.com/iov-one/cosign/errors"
)

// DefaultBlockPeriod is the relay chain block time.
const DefaultBlockPeriod = 6 * time.Second

// Reference is a chain height together with the wall clock time it was
// observed at.
type Reference struct {
	Height uint64
	Time   time.Time
}

// Available returns false for a reference that was never observed.
func (r Reference) Available() bool {
	return !r.Time.IsZero()
}

// EstimateHeightForDate projects the height the chain will reach at target,
// assuming one block every period. The result is rounded to the nearest
// block. Targets before the reference time and missing references fail with
// ErrUnavailable, the estimate is never clamped.
func EstimateHeightForDate(target time.Time, ref Reference, period time.Duration) (uint64, error) {
	if !ref.Available() {
		return 0, errors.Wrap(errors.ErrUnavailable, "no reference height")
	}
	periodMs := period.Milliseconds()
	if periodMs <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "block period %s", period)
	}
	if target.Before(ref.Time) {
		return 0, errors.Wrapf(errors.ErrUnavailable, "target %s is before the reference time %s",
			target.UTC().Format(time.RFC3339), ref.Time.UTC().Format(time.RFC3339))
	}
	elapsed := target.Sub(ref.Time).Milliseconds()
	blocks := (2*elapsed + periodMs) / (2 * periodMs)
	return ref.Height + uint64(blocks), nil
}

// EstimateDateForHeight projects the wall clock time at which the chain
// reaches height. Heights below the reference give a time in the past.
func EstimateDateForHeight(height uint64, ref Reference, period time.Duration) (time.Time, error) {
	if !ref.Available() {
		return time.Time{}, errors.Wrap(errors.ErrUnavailable, "no reference height")
	}
	blocks := int64(height) - int64(ref.Height)
	return ref.Time.Add(time.Duration(blocks) * period), nil
}

// UnlockTarget returns noon UTC of the calendar day of given time, the
// moment a release picked by its day is aimed at.
func UnlockTarget(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
