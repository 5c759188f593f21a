package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func flatSamples(n int, high, low float64) []OHLCSample {
	samples := make([]OHLCSample, n)
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := range samples {
		samples[i] = OHLCSample{
			Time:  day.AddDate(0, 0, -i),
			High:  high,
			Low:   low,
			Close: low,
		}
	}
	return samples
}

func TestComputeVolatilityStats(t *testing.T) {
	// every day swings 100 -> 110: 10% daily range, 10% over any period
	stats, err := ComputeVolatilityStats(flatSamples(14, 110, 100))
	require.NoError(t, err)
	require.InDelta(t, 10.0, stats.AvgDailyRangePercent, 1e-9)
	require.InDelta(t, 10.0, stats.WeekRangePercent, 1e-9)
	require.InDelta(t, 10.0, stats.TwoWeekRangePercent, 1e-9)
	require.InDelta(t, 10.0, stats.MonthRangePercent, 1e-9)
	require.Equal(t, 14, stats.Samples)
}

func TestComputeVolatilityStats_PeriodUsesExtremes(t *testing.T) {
	samples := flatSamples(7, 105, 100)
	samples[3].High = 130
	samples[5].Low = 90

	stats, err := ComputeVolatilityStats(samples)
	require.NoError(t, err)
	// (130 - 90) / 90 * 100
	require.InDelta(t, 44.444444444, stats.WeekRangePercent, 1e-6)
}

func TestPlanRanges_InsufficientData(t *testing.T) {
	_, err := PlanRanges(flatSamples(6, 110, 100), 0, 60)
	require.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = PlanRanges(nil, 0, 60)
	require.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestPlanRanges_FourStrategies(t *testing.T) {
	suggestions, err := PlanRanges(flatSamples(7, 110, 100), 0, 60)
	require.NoError(t, err)
	require.Len(t, suggestions.Plans, 4)

	byStrategy := make(map[RangeStrategy]*RangePlan)
	for _, plan := range suggestions.Plans {
		byStrategy[plan.Strategy] = plan
	}

	// tight: 10% avg daily x 1.5 = 15% full range
	tight := byStrategy[StrategyTight]
	require.InDelta(t, 15.0, tight.TargetRangePercent, 1e-9)
	// delta = round(ln(1.075)/ln(1.0001)) = 723, snapped outward to 60
	require.Equal(t, int32(-780), tight.TickLower)
	require.Equal(t, int32(780), tight.TickUpper)

	// moderate: 10% week x 1.2 = 12%
	moderate := byStrategy[StrategyModerate]
	require.InDelta(t, 12.0, moderate.TargetRangePercent, 1e-9)

	// conservative widest, tight narrowest of the aligned targets
	conservative := byStrategy[StrategyConservative]
	require.InDelta(t, 15.0, conservative.TargetRangePercent, 1e-9)

	for _, plan := range suggestions.Plans {
		require.Less(t, plan.TickLower, plan.TickUpper, plan.Strategy.String())
		require.Zero(t, plan.TickLower%60)
		require.Zero(t, plan.TickUpper%60)
	}
}

func TestPlanRanges_SnapsAroundCurrentTick(t *testing.T) {
	suggestions, err := PlanRanges(flatSamples(30, 101, 100), 12345, 10)
	require.NoError(t, err)

	for _, plan := range suggestions.Plans {
		require.Less(t, plan.TickLower, int32(12345))
		require.Greater(t, plan.TickUpper, int32(12345))
		require.Zero(t, plan.TickLower%10)
		require.Zero(t, plan.TickUpper%10)
	}
}

func TestPlanRanges_DegenerateTargetStillValid(t *testing.T) {
	// near-zero volatility must still produce lower < upper
	suggestions, err := PlanRanges(flatSamples(7, 100.0001, 100), 0, 60)
	require.NoError(t, err)
	for _, plan := range suggestions.Plans {
		require.Less(t, plan.TickLower, plan.TickUpper)
	}
}
