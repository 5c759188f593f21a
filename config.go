package main

import (
	"encoding/json"
	"os"
)

type LogConf struct {
	Async         bool `json:"async"`
	BufferSize    int  `json:"buffer_size"`
	FlushInterval int  `json:"flush_interval"`
}

type EthRPCConf struct {
	HTTP string `json:"http"`
}

type RedisConf struct {
	Addr string `json:"addr"`
	DB   int    `json:"db"`
}

type StoreConf struct {
	Path string `json:"path"`
}

type TokenConf struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int8   `json:"decimals"`
}

type PoolConf struct {
	Venue   string `json:"venue"`
	Address string `json:"address"`
}

type VenueConf struct {
	Name            string `json:"name"`
	PositionManager string `json:"position_manager"`
}

type ScannerConf struct {
	IntervalBySecond   int      `json:"interval"`
	Notional           float64  `json:"notional"`
	GasCostPercent     float64  `json:"gas_cost_percent"`
	MinProfitPercent   float64  `json:"min_profit_percent"`
	AlertProfitPercent float64  `json:"alert_profit_percent"`
	BaseToken          string   `json:"base_token"`
	Intermediates      []string `json:"intermediates"`
	TopN               int      `json:"top_n"`
}

type TrackedPositionConf struct {
	Venue   string `json:"venue"`
	Pool    string `json:"pool"`
	TokenID uint64 `json:"token_id"`
}

type PositionsConf struct {
	IntervalByMinute     int                    `json:"interval"`
	EdgeThresholdPercent float64                `json:"edge_threshold_percent"`
	Tracked              []*TrackedPositionConf `json:"tracked"`
}

type HistoryConf struct {
	URL             string `json:"url"`
	Days            int    `json:"days"`
	TimeoutBySecond int    `json:"timeout"`
}

type AlertsConf struct {
	ArbCooldownBySecond      int `json:"arb_cooldown"`
	PositionCooldownBySecond int `json:"position_cooldown"`
}

type APIConf struct {
	Listen string `json:"listen"`
}

type Config struct {
	Log       *LogConf       `json:"log"`
	EthRPC    *EthRPCConf    `json:"eth_rpc"`
	Redis     *RedisConf     `json:"redis"`
	Store     *StoreConf     `json:"store"`
	Scanner   *ScannerConf   `json:"scanner"`
	Positions *PositionsConf `json:"positions"`
	History   *HistoryConf   `json:"history"`
	Alerts    *AlertsConf    `json:"alerts"`
	API       *APIConf       `json:"api"`
	Tokens    []*TokenConf   `json:"tokens"`
	Venues    []*VenueConf   `json:"venues"`
	Pools     []*PoolConf    `json:"pools"`
}

var (
	defaultConfig = Config{
		Log: &LogConf{
			Async:         false,
			BufferSize:    1000000,
			FlushInterval: 1,
		},
		EthRPC: &EthRPCConf{
			HTTP: "https://flare-api.flare.network/ext/C/rpc",
		},
		Redis: &RedisConf{
			Addr: "localhost:6379",
			DB:   0,
		},
		Store: &StoreConf{
			Path: "./db",
		},
		Scanner: &ScannerConf{
			IntervalBySecond:   15,
			Notional:           100,
			GasCostPercent:     0.3,
			MinProfitPercent:   0.1,
			AlertProfitPercent: 0.5,
			BaseToken:          "WFLR",
			Intermediates:      []string{"FXRP", "USDT", "USDC"},
			TopN:               10,
		},
		Positions: &PositionsConf{
			IntervalByMinute:     15,
			EdgeThresholdPercent: 10,
		},
		History: &HistoryConf{
			Days:            30,
			TimeoutBySecond: 10,
		},
		Alerts: &AlertsConf{
			ArbCooldownBySecond:      300,
			PositionCooldownBySecond: 3600,
		},
		API: &APIConf{
			Listen: ":29293",
		},
	}

	G = defaultConfig
)

func LoadConfig(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err = decoder.Decode(&G); err != nil {
		return err
	}

	return nil
}
