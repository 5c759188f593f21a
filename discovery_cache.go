package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// PoolImmutablesReader is the slice of ContractCaller the cache needs, kept
// narrow so tests can seed metadata without a chain endpoint.
type PoolImmutablesReader interface {
	GetPoolImmutables(ctx context.Context, addr common.Address) (token0, token1 common.Address, feePpm uint32, tickSpacing int32, err error)
}

// DiscoveryCache holds the set of known pools and their identity metadata.
// Which pools exist is assumed stable within a session: Warm fills the cache
// once per process lifetime, polls only re-read prices. Passed in explicitly
// rather than held as module state.
type DiscoveryCache struct {
	memory *cache.Cache
	redis  *redis.Client
	caller PoolImmutablesReader

	order []common.Address
}

func NewDiscoveryCache(redisClient *redis.Client, caller PoolImmutablesReader) *DiscoveryCache {
	return &DiscoveryCache{
		memory: cache.New(cache.NoExpiration, 0),
		redis:  redisClient,
		caller: caller,
	}
}

func PoolMetaCacheKey(addr common.Address) string {
	return fmt.Sprintf("pm:%s", addr.Hex())
}

// Put seeds a pool directly, bypassing redis and chain. Used by Warm and by
// tests.
func (d *DiscoveryCache) Put(meta *PoolMeta) {
	k := PoolMetaCacheKey(meta.Address)
	if _, exists := d.memory.Get(k); !exists {
		d.order = append(d.order, meta.Address)
	}
	d.memory.Set(k, meta, cache.NoExpiration)
}

// GetPool looks up pool metadata: memory first, then redis. A miss in both
// means the pool was never discovered.
func (d *DiscoveryCache) GetPool(addr common.Address) (*PoolMeta, bool) {
	k := PoolMetaCacheKey(addr)
	if meta, ok := d.memory.Get(k); ok {
		return meta.(*PoolMeta), true
	}

	if d.redis == nil {
		return nil, false
	}

	v := &PoolMeta{}
	err := d.redis.Get(context.Background(), k).Scan(v)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			Log.Error("redis get err", zap.Error(err))
		}
		return nil, false
	}

	d.Put(v)
	return v, true
}

// Pools returns all known pools in a stable order (sorted by address after
// Warm), so scan iteration is deterministic for a fixed cache.
func (d *DiscoveryCache) Pools() []*PoolMeta {
	metas := make([]*PoolMeta, 0, len(d.order))
	for _, addr := range d.order {
		if meta, ok := d.memory.Get(PoolMetaCacheKey(addr)); ok {
			metas = append(metas, meta.(*PoolMeta))
		}
	}
	return metas
}

// Warm discovers the configured pools, reading immutables from redis or
// chain. A pool that cannot be discovered is logged and skipped; Warm fails
// only when nothing could be discovered at all.
func (d *DiscoveryCache) Warm(ctx context.Context, pools []*PoolConf) error {
	for _, conf := range pools {
		venue, err := ParseVenue(conf.Venue)
		if err != nil {
			return err
		}

		addr := common.HexToAddress(conf.Address)
		if _, ok := d.GetPool(addr); ok {
			continue
		}

		if d.caller == nil {
			Log.Warn("no chain caller, skipping undiscovered pool", zap.String("pool", addr.Hex()))
			continue
		}

		token0, token1, feePpm, tickSpacing, err := d.caller.GetPoolImmutables(ctx, addr)
		if err != nil {
			Log.Error("pool discovery failed", zap.String("pool", addr.Hex()), zap.Error(err))
			continue
		}

		meta := &PoolMeta{
			Address:     addr,
			Venue:       venue,
			Token0:      token0,
			Token1:      token1,
			FeePpm:      feePpm,
			TickSpacing: tickSpacing,
		}
		d.Put(meta)

		if d.redis != nil {
			if err := d.redis.Set(ctx, PoolMetaCacheKey(addr), meta, 0).Err(); err != nil {
				Log.Error("redis set err", zap.Error(err))
			}
		}
	}

	if len(d.order) == 0 && len(pools) > 0 {
		return errors.New("pool discovery found no pools")
	}

	sort.SliceStable(d.order, func(i, j int) bool {
		return d.order[i].Hex() < d.order[j].Hex()
	})
	return nil
}
