package pricing

import "time"

// LateFeeResult reports the outcome of the late-return policy. InGracePeriod
// distinguishes a fee-free late return inside the grace window from a return
// that was not late at all; the ops console surfaces the two differently.
type LateFeeResult struct {
	Late          bool  `json:"late"`
	InGracePeriod bool  `json:"in_grace_period"`
	MinutesLate   int   `json:"minutes_late"`
	HoursLate     int   `json:"hours_late"`
	FeeCents      int64 `json:"fee_cents"`
}

// ComputeLateFee applies a rate-sheet late-return policy to a scheduled and
// actual return time. Minutes are truncated; once past the grace window every
// started hour bills as a full hour.
func ComputeLateFee(scheduledReturn, actualReturn time.Time, dailyRateCents int64, policy LateFeePolicy) LateFeeResult {
	if !actualReturn.After(scheduledReturn) {
		return LateFeeResult{}
	}

	minutesLate := int(actualReturn.Sub(scheduledReturn).Minutes())
	if minutesLate <= policy.GraceMinutes {
		return LateFeeResult{Late: true, InGracePeriod: true, MinutesLate: minutesLate}
	}

	hoursLate := (minutesLate + 59) / 60
	hourlyFee := percentOfCents(dailyRateCents, policy.HourlyPercentBps)

	var fee int64
	switch policy.Variant {
	case LateFeeTieredDay:
		if hoursLate <= 2 {
			fee = hourlyFee * int64(hoursLate)
		} else {
			fee = dailyRateCents
		}
	default: // LateFeeHourlyPercent
		fee = hourlyFee * int64(hoursLate)
	}

	return LateFeeResult{Late: true, MinutesLate: minutesLate, HoursLate: hoursLate, FeeCents: fee}
}

// ResolveLateFee returns the billable late fee given an optional staff
// override. The override always wins; the computed fee is retained on the
// result for audit comparison.
func ResolveLateFee(computed LateFeeResult, overrideCents *int64) int64 {
	if overrideCents != nil {
		return *overrideCents
	}
	return computed.FeeCents
}
