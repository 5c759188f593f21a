package main

import (
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type edgeKey struct {
	from common.Address
	to   common.Address
}

// EdgeSet holds every currently available price edge, keyed by direction.
// Several edges can exist per direction (different venues and fee tiers).
type EdgeSet struct {
	edges map[edgeKey][]*PriceEdge
}

func NewEdgeSet() *EdgeSet {
	return &EdgeSet{
		edges: make(map[edgeKey][]*PriceEdge),
	}
}

func (s *EdgeSet) Add(edge *PriceEdge) {
	k := edgeKey{from: edge.From, to: edge.To}
	s.edges[k] = append(s.edges[k], edge)
}

func (s *EdgeSet) Len() int {
	n := 0
	for _, edges := range s.edges {
		n += len(edges)
	}
	return n
}

// BestEdge picks the highest-rate edge for a direction across all venues.
// This is a greedy per-hop choice, not a globally optimal multi-hop search:
// O(hops x edges) keeps a full scan inside the polling budget, and price
// impact at larger notionals is not modeled anyway.
func (s *EdgeSet) BestEdge(from, to common.Address) (*PriceEdge, bool) {
	candidates := s.edges[edgeKey{from: from, to: to}]
	if len(candidates) == 0 {
		return nil, false
	}

	best := candidates[0]
	for _, e := range candidates[1:] {
		if e.Rate.GreaterThan(best.Rate) {
			best = e
		}
	}
	return best, true
}

// TriangleScanner enumerates 3-hop closed walks base -> X -> Y -> base over
// a fixed set of intermediate tokens and prices them against an edge set.
type TriangleScanner struct {
	base          *Token
	intermediates []*Token

	notional           decimal.Decimal
	gasCostPercent     decimal.Decimal
	minProfitPercent   decimal.Decimal
	alertProfitPercent decimal.Decimal
}

func NewTriangleScanner(base *Token, intermediates []*Token, conf *ScannerConf) *TriangleScanner {
	return &TriangleScanner{
		base:               base,
		intermediates:      intermediates,
		notional:           decimal.NewFromFloat(conf.Notional),
		gasCostPercent:     decimal.NewFromFloat(conf.GasCostPercent),
		minProfitPercent:   decimal.NewFromFloat(conf.MinProfitPercent),
		alertProfitPercent: decimal.NewFromFloat(conf.AlertProfitPercent),
	}
}

var oneHundred = decimal.NewFromInt(100)

// FindOpportunities evaluates every ordered pair of distinct intermediates
// and returns the cycles whose net profit clears the reporting threshold,
// sorted descending by net profit. Deterministic for a fixed edge set.
//
// Gas is modeled as a flat percentage of notional rather than an absolute
// token amount, so triangles in different denominations stay comparable.
func (t *TriangleScanner) FindOpportunities(edges *EdgeSet) []*Opportunity {
	var opportunities []*Opportunity
	now := time.Now()

	for _, x := range t.intermediates {
		if IsSameAddress(x.Address, t.base.Address) {
			continue
		}
		for _, y := range t.intermediates {
			if IsSameAddress(y.Address, x.Address) || IsSameAddress(y.Address, t.base.Address) {
				continue
			}

			opp := t.evaluateCycle(edges, x, y, now)
			if opp != nil {
				opportunities = append(opportunities, opp)
			}
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].NetProfitPercent.GreaterThan(opportunities[j].NetProfitPercent)
	})
	return opportunities
}

func (t *TriangleScanner) evaluateCycle(edges *EdgeSet, x, y *Token, now time.Time) *Opportunity {
	hops := [3]edgeKey{
		{from: t.base.Address, to: x.Address},
		{from: x.Address, to: y.Address},
		{from: y.Address, to: t.base.Address},
	}

	amount := t.notional
	cycleEdges := make([]*PriceEdge, 0, 3)
	for _, hop := range hops {
		edge, ok := edges.BestEdge(hop.from, hop.to)
		if !ok {
			return nil
		}
		amount = amount.Mul(edge.Rate)
		cycleEdges = append(cycleEdges, edge)
	}

	grossProfit := amount.Sub(t.notional).Div(t.notional).Mul(oneHundred)
	netProfit := grossProfit.Sub(t.gasCostPercent)
	if netProfit.LessThan(t.minProfitPercent) {
		return nil
	}

	return &Opportunity{
		Path:               []string{t.base.Symbol, x.Symbol, y.Symbol, t.base.Symbol},
		Edges:              cycleEdges,
		Notional:           t.notional,
		FinalAmount:        amount,
		GrossProfitPercent: grossProfit,
		NetProfitPercent:   netProfit,
		AlertWorthy:        netProfit.GreaterThanOrEqual(t.alertProfitPercent),
		FoundAt:            now,
	}
}
