package main

import (
	"math"
	"math/big"
)

const (
	// uniswap v3 core: ./contracts/libraries/TickMath.sol:9
	MinTick = int32(-887272)
	MaxTick = int32(887272)

	tickBase = 1.0001
)

var (
	lnTickBase = math.Log(tickBase)

	// 2^192, the denominator of sqrtPriceX96 squared.
	q192 = new(big.Int).Lsh(big.NewInt(1), 192)
)

// TickToRawPrice returns 1.0001^tick, the pool-internal price of token1 in
// token0 before any decimal adjustment. Strictly increasing in tick.
func TickToRawPrice(tick int32) float64 {
	return math.Pow(tickBase, float64(tick))
}

// RawToHumanPrice converts a raw pool price to a human price by shifting out
// the decimal difference between the two tokens.
func RawToHumanPrice(rawPrice float64, decimalsFrom, decimalsTo int) float64 {
	return rawPrice * math.Pow10(decimalsFrom-decimalsTo)
}

// SqrtPriceX96ToHumanPrice squares sqrtPriceX96 in big-int space before
// dropping to float, so large reserves do not lose precision in the square.
func SqrtPriceX96ToHumanPrice(sqrtPriceX96 *big.Int, decimals0, decimals1 int) float64 {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return 0
	}

	squared := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	raw := new(big.Float).Quo(new(big.Float).SetInt(squared), new(big.Float).SetInt(q192))
	rawPrice, _ := raw.Float64()
	return RawToHumanPrice(rawPrice, decimals0, decimals1)
}

// PriceToTick is the floored inverse of TickToRawPrice. Advisory only: ticks
// read from chain are authoritative, computed ticks must be snapped to the
// pool's spacing before use in a proposed range.
func PriceToTick(rawPrice float64) int32 {
	if rawPrice <= 0 {
		return MinTick
	}
	tick := int32(math.Floor(math.Log(rawPrice) / lnTickBase))
	return ClampTick(tick)
}

func ClampTick(tick int32) int32 {
	if tick < MinTick {
		return MinTick
	}
	if tick > MaxTick {
		return MaxTick
	}
	return tick
}

// SnapTickLower rounds down to a multiple of tickSpacing (outward for a
// lower bound).
func SnapTickLower(tick, tickSpacing int32) int32 {
	if tickSpacing <= 0 {
		return tick
	}
	snapped := (tick / tickSpacing) * tickSpacing
	if tick < 0 && tick%tickSpacing != 0 {
		snapped -= tickSpacing
	}
	return ClampTick(snapped)
}

// SnapTickUpper rounds up to a multiple of tickSpacing (outward for an
// upper bound).
func SnapTickUpper(tick, tickSpacing int32) int32 {
	if tickSpacing <= 0 {
		return tick
	}
	snapped := (tick / tickSpacing) * tickSpacing
	if tick > 0 && tick%tickSpacing != 0 {
		snapped += tickSpacing
	}
	return ClampTick(snapped)
}
