package main

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testScannerConf() *ScannerConf {
	return &ScannerConf{
		Notional:           100,
		GasCostPercent:     0.3,
		MinProfitPercent:   0.1,
		AlertProfitPercent: 0.5,
		TopN:               10,
	}
}

func testEdge(from, to common.Address, fromSym, toSym, rate string, venue Venue) *PriceEdge {
	return &PriceEdge{
		From:       from,
		To:         to,
		Rate:       decimal.RequireFromString(rate),
		FeePpm:     3000,
		Venue:      venue,
		FromSymbol: fromSym,
		ToSymbol:   toSym,
	}
}

func testTokens() (base *Token, intermediates []*Token) {
	base = &Token{Address: testWFLRAddr, Symbol: "WFLR", Decimals: 18}
	intermediates = []*Token{
		{Address: testFXRPAddr, Symbol: "FXRP", Decimals: 18},
		{Address: testUSDTAddr, Symbol: "USDT", Decimals: 6},
	}
	return
}

func profitableEdgeSet() *EdgeSet {
	edges := NewEdgeSet()
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.60", VenueSparkDEX))
	edges.Add(testEdge(testFXRPAddr, testUSDTAddr, "FXRP", "USDT", "1.65", VenueSparkDEX))
	edges.Add(testEdge(testUSDTAddr, testWFLRAddr, "USDT", "WFLR", "1.02", VenueEnosys))
	return edges
}

// 100 WFLR -> 60 FXRP -> 99 USDT -> 100.98 WFLR: gross 0.98%, net 0.68%
// after the 0.3% modeled gas cost.
func TestFindOpportunities_HandComputedCompounding(t *testing.T) {
	base, intermediates := testTokens()
	scanner := NewTriangleScanner(base, intermediates, testScannerConf())

	opportunities := scanner.FindOpportunities(profitableEdgeSet())
	require.Len(t, opportunities, 1)

	opp := opportunities[0]
	require.Equal(t, []string{"WFLR", "FXRP", "USDT", "WFLR"}, opp.Path)
	require.True(t, opp.FinalAmount.Equal(decimal.RequireFromString("100.98")), opp.FinalAmount.String())
	require.True(t, opp.GrossProfitPercent.Equal(decimal.RequireFromString("0.98")), opp.GrossProfitPercent.String())
	require.True(t, opp.NetProfitPercent.Equal(decimal.RequireFromString("0.68")), opp.NetProfitPercent.String())
	require.True(t, opp.AlertWorthy)
}

func TestFindOpportunities_ClosedWalk(t *testing.T) {
	base, intermediates := testTokens()
	scanner := NewTriangleScanner(base, intermediates, testScannerConf())

	for _, opp := range scanner.FindOpportunities(profitableEdgeSet()) {
		require.Equal(t, opp.Path[0], opp.Path[len(opp.Path)-1])
		require.Len(t, opp.Edges, 3)
	}
}

func TestFindOpportunities_BelowMinProfitFiltered(t *testing.T) {
	base, intermediates := testTokens()
	scanner := NewTriangleScanner(base, intermediates, testScannerConf())

	edges := NewEdgeSet()
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.60", VenueSparkDEX))
	edges.Add(testEdge(testFXRPAddr, testUSDTAddr, "FXRP", "USDT", "1.65", VenueSparkDEX))
	edges.Add(testEdge(testUSDTAddr, testWFLRAddr, "USDT", "WFLR", "1.00", VenueEnosys))

	require.Empty(t, scanner.FindOpportunities(edges))
}

func TestFindOpportunities_MissingHopSkipsCycle(t *testing.T) {
	base, intermediates := testTokens()
	scanner := NewTriangleScanner(base, intermediates, testScannerConf())

	edges := NewEdgeSet()
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.60", VenueSparkDEX))

	require.Empty(t, scanner.FindOpportunities(edges))
}

func TestBestEdge_PicksHighestRateAcrossVenues(t *testing.T) {
	edges := NewEdgeSet()
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.58", VenueSparkDEX))
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.61", VenueEnosys))
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.59", VenueBlazeSwap))

	best, ok := edges.BestEdge(testWFLRAddr, testFXRPAddr)
	require.True(t, ok)
	require.Equal(t, VenueEnosys, best.Venue)
	require.True(t, best.Rate.Equal(decimal.RequireFromString("0.61")))

	_, ok = edges.BestEdge(testFXRPAddr, testWFLRAddr)
	require.False(t, ok)
}

func TestFindOpportunities_Deterministic(t *testing.T) {
	base, intermediates := testTokens()
	scanner := NewTriangleScanner(base, intermediates, testScannerConf())

	// both directions of both triangles are profitable here
	edges := NewEdgeSet()
	edges.Add(testEdge(testWFLRAddr, testFXRPAddr, "WFLR", "FXRP", "0.60", VenueSparkDEX))
	edges.Add(testEdge(testFXRPAddr, testUSDTAddr, "FXRP", "USDT", "1.70", VenueSparkDEX))
	edges.Add(testEdge(testUSDTAddr, testWFLRAddr, "USDT", "WFLR", "1.02", VenueEnosys))
	edges.Add(testEdge(testWFLRAddr, testUSDTAddr, "WFLR", "USDT", "1.01", VenueEnosys))
	edges.Add(testEdge(testUSDTAddr, testFXRPAddr, "USDT", "FXRP", "0.62", VenueSparkDEX))
	edges.Add(testEdge(testFXRPAddr, testWFLRAddr, "FXRP", "WFLR", "1.65", VenueBlazeSwap))

	first := scanner.FindOpportunities(edges)
	second := scanner.FindOpportunities(edges)
	require.Equal(t, len(first), len(second))
	require.NotEmpty(t, first)

	for i := range first {
		require.Equal(t, first[i].Path, second[i].Path)
		require.True(t, first[i].NetProfitPercent.Equal(second[i].NetProfitPercent))
	}

	// descending net profit
	for i := 1; i < len(first); i++ {
		require.True(t, first[i-1].NetProfitPercent.GreaterThanOrEqual(first[i].NetProfitPercent))
	}
}
