package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func buildRegistry() *TokenRegistry {
	tokens := make([]*Token, 0, len(G.Tokens))
	for _, conf := range G.Tokens {
		tokens = append(tokens, &Token{
			Address:  common.HexToAddress(conf.Address),
			Symbol:   conf.Symbol,
			Decimals: conf.Decimals,
		})
	}
	return NewTokenRegistry(tokens)
}

// verifyRegistry cross-checks every configured token against its ERC-20
// contract. A wrong decimals value would silently corrupt every price this
// process computes, so a mismatch is fatal.
func verifyRegistry(ctx context.Context, caller *ContractCaller, registry *TokenRegistry) error {
	for _, token := range registry.Tokens() {
		decimals, err := caller.GetTokenDecimals(ctx, token.Address)
		if err != nil {
			return fmt.Errorf("read decimals of %s: %w", token.Address.Hex(), err)
		}
		if decimals != token.Decimals {
			return fmt.Errorf("token %s: configured decimals %d, chain reports %d",
				token.Address.Hex(), token.Decimals, decimals)
		}
		symbol, err := caller.GetTokenSymbol(ctx, token.Address)
		if err != nil {
			return fmt.Errorf("read symbol of %s: %w", token.Address.Hex(), err)
		}
		if symbol != token.Symbol {
			Log.Warn("configured token symbol differs from chain",
				zap.String("address", token.Address.Hex()),
				zap.String("configured", token.Symbol),
				zap.String("chain", symbol))
		}
	}
	return nil
}

func buildVenueManagers() (map[Venue]common.Address, error) {
	managers := make(map[Venue]common.Address, len(G.Venues))
	for _, conf := range G.Venues {
		venue, err := ParseVenue(conf.Name)
		if err != nil {
			return nil, err
		}
		managers[venue] = common.HexToAddress(conf.PositionManager)
	}
	return managers, nil
}

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "show version information")
	var configFile string
	flag.StringVar(&configFile, "c", "config.json", "config file")
	flag.Parse()

	if showVersion {
		fmt.Println(GetVersion())
		os.Exit(0)
	}

	err := LoadConfig(configFile)
	if err != nil {
		panic(err)
	}
	InitLogger()

	registry := buildRegistry()
	base, ok := registry.GetBySymbol(G.Scanner.BaseToken)
	if !ok {
		panic("base token not in token registry: " + G.Scanner.BaseToken)
	}
	intermediates := make([]*Token, 0, len(G.Scanner.Intermediates))
	for _, symbol := range G.Scanner.Intermediates {
		token, ok := registry.GetBySymbol(symbol)
		if !ok {
			panic("intermediate token not in token registry: " + symbol)
		}
		intermediates = append(intermediates, token)
	}

	venueManagers, err := buildVenueManagers()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	caller := NewContractCaller(G.EthRPC.HTTP)
	if err = verifyRegistry(ctx, caller, registry); err != nil {
		panic(err)
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr: G.Redis.Addr,
		DB:   G.Redis.DB,
	})

	discovery := NewDiscoveryCache(redisClient, caller)
	if err = discovery.Warm(ctx, G.Pools); err != nil {
		panic(err)
	}
	Log.Info("pool discovery done", zap.Int("pools", len(discovery.Pools())))

	rocksDB, err := NewRocksDB(G.Store.Path, &RocksDBOptions{
		BlockCacheSize:       1024 * 1024 * 64,
		WriteBufferSize:      1024 * 1024 * 16,
		MaxWriteBufferNumber: 2,
	})
	if err != nil {
		panic(err)
	}
	defer rocksDB.Close()

	oracle := NewPriceOracle(caller, registry)
	scanner := NewTriangleScanner(base, intermediates, G.Scanner)
	coordinator := NewAlertCoordinator(rocksDB, G.Alerts, G.Scanner.TopN)
	history := NewHTTPPriceHistory(G.History)

	scheduler, err := NewScheduler(oracle, discovery, scanner, coordinator, caller, caller, history, registry, venueManagers)
	if err != nil {
		panic(err)
	}
	scheduler.Start(ctx)

	NewAPIServer(coordinator, G.API.Listen).Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	Log.Info("shutting down")
	scheduler.Stop()
}
