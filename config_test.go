package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	require.Equal(t, 15, G.Scanner.IntervalBySecond)
	require.Equal(t, 15, G.Positions.IntervalByMinute)
	require.Equal(t, 300, G.Alerts.ArbCooldownBySecond)
	require.Equal(t, 3600, G.Alerts.PositionCooldownBySecond)
	require.Equal(t, "WFLR", G.Scanner.BaseToken)
	require.Equal(t, 10.0, G.Positions.EdgeThresholdPercent)
}

func TestLoadConfig(t *testing.T) {
	// LoadConfig decodes over the live G sections, restore their values
	savedScanner, savedAlerts := *G.Scanner, *G.Alerts
	defer func() { *G.Scanner, *G.Alerts = savedScanner, savedAlerts }()

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"scanner": {
			"interval": 30,
			"notional": 250,
			"gas_cost_percent": 0.3,
			"min_profit_percent": 0.1,
			"alert_profit_percent": 0.5,
			"base_token": "WFLR",
			"intermediates": ["FXRP", "USDT"],
			"top_n": 5
		},
		"alerts": {
			"arb_cooldown": 60,
			"position_cooldown": 600
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, LoadConfig(path))
	require.Equal(t, 30, G.Scanner.IntervalBySecond)
	require.Equal(t, 250.0, G.Scanner.Notional)
	require.Equal(t, []string{"FXRP", "USDT"}, G.Scanner.Intermediates)
	require.Equal(t, 60, G.Alerts.ArbCooldownBySecond)
	// sections absent from the file keep their defaults
	require.Equal(t, ":29293", G.API.Listen)
	require.Equal(t, "./db", G.Store.Path)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	require.Error(t, LoadConfig(filepath.Join(t.TempDir(), "nope.json")))
}
