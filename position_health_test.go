package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluatePositionHealth(t *testing.T) {
	tests := []struct {
		name             string
		currentTick      int32
		tickLower        int32
		tickUpper        int32
		threshold        float64
		wantState        HealthState
		wantPercentLower float64
	}{
		{"centered is healthy", 150, 100, 200, 10, HealthHealthy, 50},
		{"below range", 95, 100, 200, 10, HealthOutOfRange, 0},
		{"above range", 201, 100, 200, 10, HealthOutOfRange, 0},
		{"near lower edge", 105, 100, 200, 10, HealthNearEdge, 5},
		{"near upper edge", 195, 100, 200, 10, HealthNearEdge, 95},
		{"on lower bound", 100, 100, 200, 10, HealthNearEdge, 0},
		{"on upper bound", 200, 100, 200, 10, HealthNearEdge, 100},
		{"tight threshold", 105, 100, 200, 2, HealthHealthy, 5},
		{"negative ticks", -150, -200, -100, 10, HealthHealthy, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health, err := EvaluatePositionHealth(tt.currentTick, tt.tickLower, tt.tickUpper, tt.threshold)
			require.NoError(t, err)
			require.Equal(t, tt.wantState, health.State)
			require.InDelta(t, tt.wantPercentLower, health.PercentFromLower, 1e-9)
		})
	}
}

func TestEvaluatePositionHealth_InvalidRange(t *testing.T) {
	_, err := EvaluatePositionHealth(150, 200, 100, 10)
	require.ErrorIs(t, err, ErrInvalidTickRange)

	_, err = EvaluatePositionHealth(150, 100, 100, 10)
	require.ErrorIs(t, err, ErrInvalidTickRange)
}

func TestEvaluatePositionHealth_DefaultThreshold(t *testing.T) {
	health, err := EvaluatePositionHealth(105, 100, 200, 0)
	require.NoError(t, err)
	require.Equal(t, HealthNearEdge, health.State)
}

func TestHealthState_String(t *testing.T) {
	require.Equal(t, "OUT_OF_RANGE", HealthOutOfRange.String())
	require.Equal(t, "NEAR_EDGE", HealthNearEdge.String())
	require.Equal(t, "HEALTHY", HealthHealthy.String())
}
