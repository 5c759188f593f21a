package main

import (
	"errors"
	"fmt"
	"math"
)

// MinPlannerSamples is the shortest history the planner will work from.
// Fewer samples means "insufficient data", never an extrapolated range.
const MinPlannerSamples = 7

var ErrInsufficientHistory = errors.New("insufficient price history")

type RangeStrategy int

const (
	StrategyTight RangeStrategy = iota
	StrategyModerate
	StrategyWide
	StrategyConservative
)

func (s RangeStrategy) String() string {
	switch s {
	case StrategyTight:
		return "tight"
	case StrategyModerate:
		return "moderate"
	case StrategyWide:
		return "wide"
	case StrategyConservative:
		return "conservative"
	default:
		return "unknown"
	}
}

func (s RangeStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RangePlan is one advisory range suggestion. ExpectedTimeInRange and
// Cadence describe the strategy, not a guarantee: the planner never claims
// precision beyond its sampling window.
type RangePlan struct {
	Strategy            RangeStrategy `json:"strategy"`
	TargetRangePercent  float64       `json:"target_range_percent"`
	TickLower           int32         `json:"tick_lower"`
	TickUpper           int32         `json:"tick_upper"`
	Cadence             string        `json:"cadence"`
	ExpectedTimeInRange string        `json:"expected_time_in_range"`
}

type VolatilityStats struct {
	AvgDailyRangePercent float64 `json:"avg_daily_range_percent"`
	WeekRangePercent     float64 `json:"week_range_percent"`
	TwoWeekRangePercent  float64 `json:"two_week_range_percent"`
	MonthRangePercent    float64 `json:"month_range_percent"`
	Samples              int     `json:"samples"`
}

type RangeSuggestions struct {
	Stats VolatilityStats `json:"stats"`
	Plans []*RangePlan    `json:"plans"`
}

func periodRangePercent(samples []OHLCSample, days int) float64 {
	if days > len(samples) {
		days = len(samples)
	}
	high := samples[0].High
	low := samples[0].Low
	for _, s := range samples[1:days] {
		if s.High > high {
			high = s.High
		}
		if s.Low < low {
			low = s.Low
		}
	}
	if low <= 0 {
		return 0
	}
	return (high - low) / low * 100
}

// ComputeVolatilityStats derives range percentages from daily candles,
// most-recent-first.
func ComputeVolatilityStats(samples []OHLCSample) (VolatilityStats, error) {
	if len(samples) < MinPlannerSamples {
		return VolatilityStats{}, fmt.Errorf("%w: have %d days, need %d", ErrInsufficientHistory, len(samples), MinPlannerSamples)
	}

	sum := 0.0
	for _, s := range samples {
		if s.Low <= 0 {
			return VolatilityStats{}, fmt.Errorf("%w: non-positive low in sample", ErrInsufficientHistory)
		}
		sum += (s.High - s.Low) / s.Low * 100
	}

	return VolatilityStats{
		AvgDailyRangePercent: sum / float64(len(samples)),
		WeekRangePercent:     periodRangePercent(samples, 7),
		TwoWeekRangePercent:  periodRangePercent(samples, 14),
		MonthRangePercent:    periodRangePercent(samples, 30),
		Samples:              len(samples),
	}, nil
}

// rangePercentToTickDelta converts a full-range percent to the tick distance
// on each side of center: half the percent each way, in log-price units.
func rangePercentToTickDelta(pct float64) int32 {
	return int32(math.Round(math.Log(1+pct/200) / lnTickBase))
}

type strategySpec struct {
	strategy    RangeStrategy
	factor      float64
	cadence     string
	timeInRange string
	stat        func(VolatilityStats) float64
}

var strategySpecs = []strategySpec{
	{StrategyTight, 1.5, "daily", "40-60%", func(s VolatilityStats) float64 { return s.AvgDailyRangePercent }},
	{StrategyModerate, 1.2, "weekly", "70-80%", func(s VolatilityStats) float64 { return s.WeekRangePercent }},
	{StrategyWide, 1.3, "biweekly", "85-95%", func(s VolatilityStats) float64 { return s.TwoWeekRangePercent }},
	{StrategyConservative, 1.5, "monthly", "95%+", func(s VolatilityStats) float64 { return s.MonthRangePercent }},
}

// PlanRanges computes the four named advisory ranges around the pool's
// current tick, snapped outward to the pool's tick spacing.
func PlanRanges(samples []OHLCSample, currentTick, tickSpacing int32) (*RangeSuggestions, error) {
	stats, err := ComputeVolatilityStats(samples)
	if err != nil {
		return nil, err
	}

	plans := make([]*RangePlan, 0, len(strategySpecs))
	for _, spec := range strategySpecs {
		target := spec.stat(stats) * spec.factor
		delta := rangePercentToTickDelta(target)

		lower := SnapTickLower(currentTick-delta, tickSpacing)
		upper := SnapTickUpper(currentTick+delta, tickSpacing)
		if lower >= upper {
			// degenerate target, widen to one spacing each side
			lower = SnapTickLower(currentTick-tickSpacing, tickSpacing)
			upper = SnapTickUpper(currentTick+tickSpacing, tickSpacing)
		}

		plans = append(plans, &RangePlan{
			Strategy:            spec.strategy,
			TargetRangePercent:  target,
			TickLower:           lower,
			TickUpper:           upper,
			Cadence:             spec.cadence,
			ExpectedTimeInRange: spec.timeInRange,
		})
	}

	return &RangeSuggestions{
		Stats: stats,
		Plans: plans,
	}, nil
}
