package main

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type fakeImmutablesReader struct {
	pools map[common.Address]*PoolMeta
}

func (f *fakeImmutablesReader) GetPoolImmutables(_ context.Context, addr common.Address) (common.Address, common.Address, uint32, int32, error) {
	meta, ok := f.pools[addr]
	if !ok {
		return common.Address{}, common.Address{}, 0, 0, errors.New("no such pool")
	}
	return meta.Token0, meta.Token1, meta.FeePpm, meta.TickSpacing, nil
}

func TestDiscoveryCache_PutGet(t *testing.T) {
	cache := NewDiscoveryCache(nil, nil)

	addr := common.HexToAddress("0xb000000000000000000000000000000000000001")
	cache.Put(&PoolMeta{Address: addr, Venue: VenueSparkDEX, FeePpm: 3000, TickSpacing: 60})

	meta, ok := cache.GetPool(addr)
	require.True(t, ok)
	require.Equal(t, VenueSparkDEX, meta.Venue)

	_, ok = cache.GetPool(common.HexToAddress("0xb000000000000000000000000000000000000099"))
	require.False(t, ok)

	require.Len(t, cache.Pools(), 1)
}

func TestDiscoveryCache_WarmSkipsFailedPools(t *testing.T) {
	good := common.HexToAddress("0xb000000000000000000000000000000000000001")
	bad := common.HexToAddress("0xb000000000000000000000000000000000000002")

	reader := &fakeImmutablesReader{pools: map[common.Address]*PoolMeta{
		good: {Token0: testWFLRAddr, Token1: testFXRPAddr, FeePpm: 3000, TickSpacing: 60},
	}}
	cache := NewDiscoveryCache(nil, reader)

	err := cache.Warm(context.Background(), []*PoolConf{
		{Venue: "sparkdex", Address: good.Hex()},
		{Venue: "enosys", Address: bad.Hex()},
	})
	require.NoError(t, err)

	require.Len(t, cache.Pools(), 1)
	meta, ok := cache.GetPool(good)
	require.True(t, ok)
	require.Equal(t, uint32(3000), meta.FeePpm)
	require.True(t, IsSameAddress(testWFLRAddr, meta.Token0))
}

func TestDiscoveryCache_WarmRejectsUnknownVenue(t *testing.T) {
	cache := NewDiscoveryCache(nil, &fakeImmutablesReader{})
	err := cache.Warm(context.Background(), []*PoolConf{
		{Venue: "not-a-venue", Address: "0xb000000000000000000000000000000000000001"},
	})
	require.Error(t, err)
}

func TestDiscoveryCache_WarmAllFailed(t *testing.T) {
	cache := NewDiscoveryCache(nil, &fakeImmutablesReader{})
	err := cache.Warm(context.Background(), []*PoolConf{
		{Venue: "sparkdex", Address: "0xb000000000000000000000000000000000000001"},
	})
	require.Error(t, err)
}

func TestParseVenue_Closed(t *testing.T) {
	for _, name := range []string{"sparkdex", "enosys", "blazeswap"} {
		venue, err := ParseVenue(name)
		require.NoError(t, err)
		require.Equal(t, name, venue.String())
	}

	_, err := ParseVenue("uniswap")
	require.Error(t, err)
}
