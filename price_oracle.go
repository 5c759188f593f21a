package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PoolReader is the read side of a pool: one snapshot per call, no caching.
type PoolReader interface {
	GetPoolSnapshot(ctx context.Context, meta *PoolMeta) (*PoolSnapshot, error)
}

const feePpmDenominator = 1_000_000

// PriceOracle turns raw pool state into directed post-fee price edges.
type PriceOracle struct {
	reader   PoolReader
	registry *TokenRegistry
}

func NewPriceOracle(reader PoolReader, registry *TokenRegistry) *PriceOracle {
	return &PriceOracle{
		reader:   reader,
		registry: registry,
	}
}

// PoolEdges reads a pool once and returns both directed edges. The fee is
// deducted with the same multiplier in both directions: each hop pays the
// fee once, in the direction it is traversed.
//
// Zero liquidity is "no price available", not a zero price: the pool is
// reported unavailable so callers skip it instead of feeding a degenerate
// rate into the graph.
func (o *PriceOracle) PoolEdges(ctx context.Context, meta *PoolMeta) ([]*PriceEdge, error) {
	token0, ok := o.registry.Get(meta.Token0)
	if !ok {
		return nil, fmt.Errorf("%w: token0 %s", ErrPoolUnknown, meta.Token0.Hex())
	}
	token1, ok := o.registry.Get(meta.Token1)
	if !ok {
		return nil, fmt.Errorf("%w: token1 %s", ErrPoolUnknown, meta.Token1.Hex())
	}

	snapshot, err := o.reader.GetPoolSnapshot(ctx, meta)
	if err != nil {
		return nil, err
	}

	if snapshot.Liquidity == nil || snapshot.Liquidity.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroLiquidity, meta.Address.Hex())
	}

	price01 := SqrtPriceX96ToHumanPrice(snapshot.SqrtPriceX96, int(token0.Decimals), int(token1.Decimals))
	if price01 <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroLiquidity, meta.Address.Hex())
	}

	feeMultiplier := decimal.NewFromInt(1).Sub(
		decimal.New(int64(meta.FeePpm), 0).Div(decimal.NewFromInt(feePpmDenominator)))

	rate01 := decimal.NewFromFloat(price01).Mul(feeMultiplier)
	rate10 := decimal.NewFromInt(1).Div(decimal.NewFromFloat(price01)).Mul(feeMultiplier)

	return []*PriceEdge{
		{
			From:       meta.Token0,
			To:         meta.Token1,
			Rate:       rate01,
			FeePpm:     meta.FeePpm,
			Venue:      meta.Venue,
			Pool:       meta.Address,
			FromSymbol: token0.Symbol,
			ToSymbol:   token1.Symbol,
		},
		{
			From:       meta.Token1,
			To:         meta.Token0,
			Rate:       rate10,
			FeePpm:     meta.FeePpm,
			Venue:      meta.Venue,
			Pool:       meta.Address,
			FromSymbol: token1.Symbol,
			ToSymbol:   token0.Symbol,
		},
	}, nil
}
