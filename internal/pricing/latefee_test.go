package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeLateFee_GraceBoundary(t *testing.T) {
	policy := LateFeePolicy{GraceMinutes: 30, Variant: LateFeeTieredDay, HourlyPercentBps: 2500}
	scheduled := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("On time", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled, 10000, policy)
		assert.False(t, res.Late)
		assert.False(t, res.InGracePeriod)
		assert.Zero(t, res.FeeCents)
	})

	t.Run("Early return", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled.Add(-2*time.Hour), 10000, policy)
		assert.False(t, res.Late)
		assert.Zero(t, res.FeeCents)
	})

	t.Run("Exactly at grace limit is not billed", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled.Add(30*time.Minute), 10000, policy)
		assert.True(t, res.Late)
		assert.True(t, res.InGracePeriod)
		assert.Equal(t, 30, res.MinutesLate)
		assert.Zero(t, res.FeeCents)
	})

	t.Run("One minute past grace bills a full hour", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled.Add(31*time.Minute), 10000, policy)
		assert.True(t, res.Late)
		assert.False(t, res.InGracePeriod)
		assert.Equal(t, 1, res.HoursLate)
		assert.Equal(t, int64(2500), res.FeeCents)
	})
}

func TestComputeLateFee_TieredPolicy(t *testing.T) {
	// $100/day, 30 min grace, 25%/hour for two hours, then a full-day charge.
	policy := LateFeePolicy{GraceMinutes: 30, Variant: LateFeeTieredDay, HourlyPercentBps: 2500}
	scheduled := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("45 minutes late bills one hour", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled.Add(45*time.Minute), 10000, policy)
		assert.Equal(t, 1, res.HoursLate)
		assert.Equal(t, int64(2500), res.FeeCents)
	})

	t.Run("150 minutes late rolls into full-day charge", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled.Add(150*time.Minute), 10000, policy)
		assert.Equal(t, 3, res.HoursLate)
		assert.Equal(t, int64(10000), res.FeeCents, "third hour switches to flat full-day charge, not 3 x 25%%")
	})

	t.Run("Two hours late stays on hourly tier", func(t *testing.T) {
		res := ComputeLateFee(scheduled, scheduled.Add(120*time.Minute), 10000, policy)
		assert.Equal(t, 2, res.HoursLate)
		assert.Equal(t, int64(5000), res.FeeCents)
	})
}

func TestComputeLateFee_HourlyPercentPolicy(t *testing.T) {
	policy := LateFeePolicy{GraceMinutes: 15, Variant: LateFeeHourlyPercent, HourlyPercentBps: 1000}
	scheduled := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	// 10%/hour of $80/day with no cap: 5 started hours -> $40.
	res := ComputeLateFee(scheduled, scheduled.Add(4*time.Hour+10*time.Minute), 8000, policy)
	assert.Equal(t, 5, res.HoursLate)
	assert.Equal(t, int64(4000), res.FeeCents)
}

func TestResolveLateFee_OverrideWins(t *testing.T) {
	computed := LateFeeResult{Late: true, HoursLate: 2, FeeCents: 5000}

	override := int64(1500)
	assert.Equal(t, int64(1500), ResolveLateFee(computed, &override))

	zero := int64(0)
	assert.Equal(t, int64(0), ResolveLateFee(computed, &zero), "explicit zero override waives the fee")

	assert.Equal(t, int64(5000), ResolveLateFee(computed, nil))
}
