package timerelease

import (
	"math"
	"math/big"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/scale"
)

// ReleaseSchedule releases PerPeriod every Period blocks, PeriodCount
// times, starting at relay chain height Start.
type ReleaseSchedule struct {
	Start       uint32   `json:"start"`
	Period      uint32   `json:"period"`
	PeriodCount uint32   `json:"periodCount"`
	PerPeriod   *big.Int `json:"perPeriod"`
}

// Validate returns an error if the schedule cannot be submitted.
func (s *ReleaseSchedule) Validate() error {
	var errs error
	if s.Period == 0 {
		errs = errors.Append(errs, errors.Field("Period", errors.ErrInvalidInput, "must be greater than 0"))
	}
	if s.PeriodCount == 0 {
		errs = errors.Append(errs, errors.Field("PeriodCount", errors.ErrInvalidInput, "must be at least 1"))
	}
	if s.PerPeriod == nil || s.PerPeriod.Sign() <= 0 {
		errs = errors.Append(errs, errors.Field("PerPeriod", errors.ErrInvalidInput, "must be positive"))
	}
	if uint64(s.Start)+uint64(s.Period)*uint64(s.PeriodCount) > math.MaxUint32 {
		errs = errors.Append(errs, errors.Field("Period", errors.ErrOverflow, "end height exceeds 32 bits"))
	}
	return errs
}

// Supported returns true if the schedule releases everything in a single
// period.
func (s *ReleaseSchedule) Supported() bool {
	return s.PeriodCount == 1
}

// UnlockHeight returns the relay chain height at which a single period
// schedule unlocks.
func (s *ReleaseSchedule) UnlockHeight() uint64 {
	return uint64(s.Start) + uint64(s.Period)
}

// Total returns the amount released over all periods.
func (s *ReleaseSchedule) Total() *big.Int {
	if s.PerPeriod == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(s.PerPeriod, new(big.Int).SetUint64(uint64(s.PeriodCount)))
}

// MarshalSCALE writes the schedule in the pallet layout.
func (s *ReleaseSchedule) MarshalSCALE(e *scale.Encoder) error {
	e.U32(s.Start)
	e.U32(s.Period)
	e.U32(s.PeriodCount)
	return e.CompactBig(s.PerPeriod)
}

// ReadSchedule reads a schedule written by MarshalSCALE.
func ReadSchedule(d *scale.Decoder) ReleaseSchedule {
	return ReleaseSchedule{
		Start:       d.U32(),
		Period:      d.U32(),
		PeriodCount: d.U32(),
		PerPeriod:   d.CompactBig(),
	}
}

// minScheduleSize is the smallest encoded schedule: three u32 and a one byte
// compact.
const minScheduleSize = 13

// DecodeSchedules reads the ReleaseSchedules storage value of an account.
// An absent value decodes to no schedules.
func DecodeSchedules(raw []byte) ([]ReleaseSchedule, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	d := scale.NewDecoder(raw)
	n := d.Len(minScheduleSize)
	out := make([]ReleaseSchedule, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ReadSchedule(d))
	}
	if err := d.Finish(); err != nil {
		return nil, errors.Wrap(err, "release schedules")
	}
	return out, nil
}

// EncodeSchedules writes a list of schedules as stored by the pallet.
func EncodeSchedules(schedules []ReleaseSchedule) ([]byte, error) {
	var e scale.Encoder
	e.Compact(uint64(len(schedules)))
	for i := range schedules {
		if err := schedules[i].MarshalSCALE(&e); err != nil {
			return nil, errors.Wrapf(err, "schedule %d", i)
		}
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}
