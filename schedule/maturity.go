package schedule

import (
	"math/big"
	"sort"

	"github.com/iov-one/cosign/x/timerelease"
)

// IsMatured returns true if a single period schedule unlocked strictly
// before the reference height. Multi period schedules are unsupported and
// never reported as matured.
func IsMatured(s timerelease.ReleaseSchedule, referenceHeight uint64) bool {
	return s.Supported() && s.UnlockHeight() < referenceHeight
}

// Summary splits release schedules of an account into the ones that can be
// claimed and the ones still locked.
type Summary struct {
	// Claimable is the sum released by all matured schedules.
	Claimable *big.Int
	Matured   []timerelease.ReleaseSchedule
	// Locked are ordered by their unlock height.
	Locked []timerelease.ReleaseSchedule
}

// Summarize groups schedules by maturity at given reference height.
func Summarize(schedules []timerelease.ReleaseSchedule, referenceHeight uint64) Summary {
	sum := Summary{Claimable: new(big.Int)}
	for _, s := range schedules {
		if IsMatured(s, referenceHeight) {
			sum.Matured = append(sum.Matured, s)
			if s.PerPeriod != nil {
				sum.Claimable.Add(sum.Claimable, s.PerPeriod)
			}
			continue
		}
		sum.Locked = append(sum.Locked, s)
	}
	sort.SliceStable(sum.Locked, func(i, j int) bool {
		return sum.Locked[i].UnlockHeight() < sum.Locked[j].UnlockHeight()
	})
	return sum
}
