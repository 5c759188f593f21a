package main

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// PoolMeta is the slow-changing identity of a pool: which venue it belongs
// to, its token pair in the venue's canonical ordering, fee tier and tick
// spacing. Discovered once per process and cached, see DiscoveryCache.
type PoolMeta struct {
	Address     common.Address `json:"-"`
	Venue       Venue
	Token0      common.Address `json:"-"`
	Token1      common.Address `json:"-"`
	FeePpm      uint32
	TickSpacing int32
}

type poolMetaAlias struct {
	AddressString string `json:"Address"`
	Token0String  string `json:"Token0"`
	Token1String  string `json:"Token1"`
	Venue         Venue
	FeePpm        uint32
	TickSpacing   int32
}

func (p *PoolMeta) MarshalBinary() ([]byte, error) {
	return json.Marshal(&poolMetaAlias{
		AddressString: p.Address.String(),
		Token0String:  p.Token0.String(),
		Token1String:  p.Token1.String(),
		Venue:         p.Venue,
		FeePpm:        p.FeePpm,
		TickSpacing:   p.TickSpacing,
	})
}

func (p *PoolMeta) UnmarshalBinary(data []byte) error {
	aux := &poolMetaAlias{}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	p.Address = common.HexToAddress(aux.AddressString)
	p.Token0 = common.HexToAddress(aux.Token0String)
	p.Token1 = common.HexToAddress(aux.Token1String)
	p.Venue = aux.Venue
	p.FeePpm = aux.FeePpm
	p.TickSpacing = aux.TickSpacing
	return nil
}

// PoolSnapshot is the fast-changing pool state read from chain. It is valid
// only for the polling cycle that produced it and is never carried across
// cycles.
type PoolSnapshot struct {
	Meta         *PoolMeta
	SqrtPriceX96 *big.Int
	Tick         int32
	Liquidity    *big.Int
	ReadAt       time.Time
}

// PriceEdge is a directed, post-fee exchange rate between two tokens through
// one pool. Rate is units of To per unit of From after the pool fee.
type PriceEdge struct {
	From   common.Address  `json:"-"`
	To     common.Address  `json:"-"`
	Rate   decimal.Decimal `json:"rate"`
	FeePpm uint32          `json:"fee_ppm"`
	Venue  Venue           `json:"venue"`
	Pool   common.Address  `json:"-"`

	FromSymbol string `json:"from"`
	ToSymbol   string `json:"to"`
}

// Opportunity is one evaluated closed walk. Path starts and ends at the base
// token. Created fresh every scan, never mutated.
type Opportunity struct {
	Path               []string        `json:"path"`
	Edges              []*PriceEdge    `json:"edges"`
	Notional           decimal.Decimal `json:"notional"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
	GrossProfitPercent decimal.Decimal `json:"gross_profit_percent"`
	NetProfitPercent   decimal.Decimal `json:"net_profit_percent"`
	AlertWorthy        bool            `json:"alert_worthy"`
	FoundAt            time.Time       `json:"found_at"`
}

// Position is a concentrated-liquidity position read from chain.
type Position struct {
	Venue     Venue          `json:"venue"`
	Pool      common.Address `json:"-"`
	TokenID   uint64         `json:"token_id"`
	TickLower int32          `json:"tick_lower"`
	TickUpper int32          `json:"tick_upper"`
	Liquidity *big.Int       `json:"liquidity"`
	Owner     common.Address `json:"-"`
}

// OHLCSample is one daily candle, most-recent-first in planner input.
type OHLCSample struct {
	Time  time.Time `json:"time"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}
