package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

type MutexValue[T any] struct {
	mu sync.Mutex
	v  T
}

func (m *MutexValue[T]) Get() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v
}

func (m *MutexValue[T]) Set(val T) {
	m.mu.Lock()
	m.v = val
	m.mu.Unlock()
}

// PositionReader reads one position from a venue's position manager.
type PositionReader interface {
	GetPosition(ctx context.Context, manager common.Address, tokenID uint64) (*Position, error)
}

type trackedPosition struct {
	venue   Venue
	pool    common.Address
	manager common.Address
	tokenID uint64
}

// Scheduler drives the polling loops: one ticker per concern, each tick
// running a full scan to completion. Overlapping runs of the same scan are
// skipped rather than queued; per-read timeouts bound how long a scan can
// hang. Chain reads within a scan fan out over the worker pool and fan in
// before anything shared is written.
type Scheduler struct {
	oracle      *PriceOracle
	discovery   *DiscoveryCache
	scanner     *TriangleScanner
	coordinator *AlertCoordinator
	positions   PositionReader
	pools       PoolReader
	history     PriceHistorySource
	registry    *TokenRegistry
	workers     *ants.Pool

	tracked       []*trackedPosition
	edgeThreshold float64
	historyDays   int

	arbInterval      time.Duration
	positionInterval time.Duration

	arbBusy      MutexValue[bool]
	positionBusy MutexValue[bool]

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(
	oracle *PriceOracle,
	discovery *DiscoveryCache,
	scanner *TriangleScanner,
	coordinator *AlertCoordinator,
	pools PoolReader,
	positions PositionReader,
	history PriceHistorySource,
	registry *TokenRegistry,
	venueManagers map[Venue]common.Address,
) (*Scheduler, error) {
	workers, err := ants.NewPool(8)
	if err != nil {
		return nil, err
	}

	tracked := make([]*trackedPosition, 0, len(G.Positions.Tracked))
	for _, conf := range G.Positions.Tracked {
		venue, err := ParseVenue(conf.Venue)
		if err != nil {
			return nil, err
		}
		tracked = append(tracked, &trackedPosition{
			venue:   venue,
			pool:    common.HexToAddress(conf.Pool),
			manager: venueManagers[venue],
			tokenID: conf.TokenID,
		})
	}

	return &Scheduler{
		oracle:           oracle,
		discovery:        discovery,
		scanner:          scanner,
		coordinator:      coordinator,
		positions:        positions,
		pools:            pools,
		history:          history,
		registry:         registry,
		workers:          workers,
		tracked:          tracked,
		edgeThreshold:    G.Positions.EdgeThresholdPercent,
		historyDays:      G.History.Days,
		arbInterval:      time.Duration(G.Scanner.IntervalBySecond) * time.Second,
		positionInterval: time.Duration(G.Positions.IntervalByMinute) * time.Minute,
		stopChan:         make(chan struct{}),
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(2)
	go s.arbLoop(ctx)
	go s.positionLoop(ctx)
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.workers.Release()
}

func (s *Scheduler) arbLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.arbInterval)
	defer ticker.Stop()

	s.RunArbScan(ctx)
	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunArbScan(ctx)
		}
	}
}

func (s *Scheduler) positionLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.positionInterval)
	defer ticker.Stop()

	s.RunPositionScan(ctx)
	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunPositionScan(ctx)
		}
	}
}

// RunArbScan reads every discovered pool, evaluates all triangles and
// persists the result. A single bad pool never aborts the scan: its read
// failure is logged and the pool skipped for this cycle.
func (s *Scheduler) RunArbScan(ctx context.Context) {
	if s.arbBusy.Get() {
		Log.Debug("previous arbitrage scan still running, skipping tick")
		return
	}
	s.arbBusy.Set(true)
	defer s.arbBusy.Set(false)

	started := time.Now()
	pools := s.discovery.Pools()

	edgeSet := NewEdgeSet()
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, meta := range pools {
		meta := meta
		wg.Add(1)
		err := s.workers.Submit(func() {
			defer wg.Done()
			edges, err := s.oracle.PoolEdges(ctx, meta)
			if err != nil {
				Log.Warn("pool unavailable this cycle",
					zap.String("pool", meta.Address.Hex()),
					zap.String("venue", meta.Venue.String()),
					zap.Error(err))
				return
			}
			mu.Lock()
			for _, e := range edges {
				edgeSet.Add(e)
			}
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			Log.Error("worker submit failed", zap.Error(err))
		}
	}
	wg.Wait()

	opportunities := s.scanner.FindOpportunities(edgeSet)
	if err := s.coordinator.SaveOpportunities(opportunities); err != nil {
		Log.Fatal("cannot write opportunity snapshot", zap.Error(err))
	}

	for _, opp := range opportunities {
		Log.Info("arbitrage cycle found",
			zap.Strings("path", opp.Path),
			zap.String("gross_percent", opp.GrossProfitPercent.StringFixed(4)),
			zap.String("net_percent", opp.NetProfitPercent.StringFixed(4)))
	}

	if len(opportunities) > 0 && opportunities[0].AlertWorthy {
		err := s.coordinator.Raise(&Alert{
			Kind:        AlertKindArbOpportunity,
			Opportunity: opportunities[0],
		})
		if err != nil && !errors.Is(err, ErrAlertCooldown) {
			Log.Fatal("cannot write alert store", zap.Error(err))
		}
	}

	Log.Info("arbitrage scan done",
		zap.Int("pools", len(pools)),
		zap.Int("edges", edgeSet.Len()),
		zap.Int("opportunities", len(opportunities)),
		zap.Duration("took", time.Since(started)))
}

// RunPositionScan evaluates every tracked position against current pool
// state and raises a position_unhealthy alert, with suggested replacement
// ranges, for any position that is out of range or near an edge.
func (s *Scheduler) RunPositionScan(ctx context.Context) {
	if s.positionBusy.Get() {
		Log.Debug("previous position scan still running, skipping tick")
		return
	}
	s.positionBusy.Set(true)
	defer s.positionBusy.Set(false)

	for _, t := range s.tracked {
		s.checkPosition(ctx, t)
	}
}

func (s *Scheduler) checkPosition(ctx context.Context, t *trackedPosition) {
	meta, ok := s.discovery.GetPool(t.pool)
	if !ok {
		Log.Warn("tracked position references undiscovered pool", zap.String("pool", t.pool.Hex()))
		return
	}

	snapshot, err := s.pools.GetPoolSnapshot(ctx, meta)
	if err != nil {
		Log.Warn("pool read failed, skipping position this cycle",
			zap.String("pool", t.pool.Hex()), zap.Error(err))
		return
	}

	position, err := s.positions.GetPosition(ctx, t.manager, t.tokenID)
	if err != nil {
		Log.Warn("position read failed, skipping this cycle",
			zap.Uint64("token_id", t.tokenID), zap.Error(err))
		return
	}
	position.Venue = t.venue
	position.Pool = t.pool

	health, err := EvaluatePositionHealth(snapshot.Tick, position.TickLower, position.TickUpper, s.edgeThreshold)
	if err != nil {
		Log.Error("invalid position range",
			zap.Uint64("token_id", t.tokenID), zap.Error(err))
		return
	}

	Log.Info("position evaluated",
		zap.Uint64("token_id", t.tokenID),
		zap.String("pair", s.registry.Symbol(meta.Token0)+"/"+s.registry.Symbol(meta.Token1)),
		zap.String("state", health.State.String()),
		zap.Float64("percent_from_lower", health.PercentFromLower))

	if health.State == HealthHealthy {
		return
	}

	payload := &PositionAlertPayload{
		Position: position,
		Health:   health,
	}

	samples, err := s.history.DailyOHLC(ctx, t.pool, s.historyDays)
	if err != nil {
		Log.Warn("price history unavailable, alerting without suggestions", zap.Error(err))
	} else {
		suggested, err := PlanRanges(samples, snapshot.Tick, meta.TickSpacing)
		if err != nil {
			// insufficient data is reported, never guessed around
			Log.Warn("range planning failed, alerting without suggestions", zap.Error(err))
		} else {
			payload.Suggested = suggested
		}
	}

	err = s.coordinator.Raise(&Alert{
		Kind:      AlertKindPositionUnhealthy,
		Unhealthy: payload,
	})
	if err != nil {
		if errors.Is(err, ErrAlertCooldown) {
			Log.Debug("position alert suppressed by cooldown", zap.Uint64("token_id", t.tokenID))
			return
		}
		Log.Fatal("cannot write alert store", zap.Error(err))
	}
}
