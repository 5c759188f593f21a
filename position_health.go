package main

import (
	"errors"
	"fmt"
)

type HealthState int

const (
	HealthOutOfRange HealthState = iota
	HealthNearEdge
	HealthHealthy
)

func (s HealthState) String() string {
	switch s {
	case HealthOutOfRange:
		return "OUT_OF_RANGE"
	case HealthNearEdge:
		return "NEAR_EDGE"
	case HealthHealthy:
		return "HEALTHY"
	default:
		return "UNKNOWN"
	}
}

func (s HealthState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const DefaultEdgeThresholdPercent = 10.0

var ErrInvalidTickRange = errors.New("tickLower must be below tickUpper")

type PositionHealth struct {
	State            HealthState `json:"state"`
	PercentFromLower float64     `json:"percent_from_lower"`
}

// EvaluatePositionHealth classifies a position against the pool's current
// tick. Pure function, no history and no hysteresis: a position flickering
// between HEALTHY and NEAR_EDGE across polls is expected, debouncing is the
// alert coordinator's job.
//
// PercentFromLower is only meaningful when the position is in range.
func EvaluatePositionHealth(currentTick, tickLower, tickUpper int32, edgeThresholdPercent float64) (PositionHealth, error) {
	if tickLower >= tickUpper {
		return PositionHealth{}, fmt.Errorf("%w: [%d, %d]", ErrInvalidTickRange, tickLower, tickUpper)
	}
	if edgeThresholdPercent <= 0 {
		edgeThresholdPercent = DefaultEdgeThresholdPercent
	}

	if currentTick < tickLower || currentTick > tickUpper {
		return PositionHealth{State: HealthOutOfRange}, nil
	}

	percentFromLower := float64(currentTick-tickLower) / float64(tickUpper-tickLower) * 100
	if percentFromLower < edgeThresholdPercent || percentFromLower > 100-edgeThresholdPercent {
		return PositionHealth{State: HealthNearEdge, PercentFromLower: percentFromLower}, nil
	}

	return PositionHealth{State: HealthHealthy, PercentFromLower: percentFromLower}, nil
}
