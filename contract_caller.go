package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"flare-dex-engine/abi_instance"
)

var (
	ErrEmptyOutput     = errors.New("empty output")
	ErrZeroLiquidity   = errors.New("pool has zero liquidity")
	ErrPoolUnknown     = errors.New("pool tokens not in registry")
	ErrUnknownPosition = errors.New("position does not exist")
)

type CallContractReq struct {
	Address common.Address
	Data    []byte
}

func (r *CallContractReq) String() string {
	return fmt.Sprintf("to=%s data=%d bytes", r.Address.Hex(), len(r.Data))
}

type ContractCaller struct {
	ethClient *ethclient.Client
}

func NewContractCaller(url string) *ContractCaller {
	ethClient, err := ethclient.Dial(url)
	if err != nil {
		panic("failed to connect to chain rpc: " + err.Error())
	}

	return &ContractCaller{
		ethClient: ethClient,
	}
}

func IsRetryableErr(err error) bool {
	errMsg := err.Error()
	if strings.Contains(errMsg, "execution reverted") ||
		strings.Contains(errMsg, "out of gas") ||
		strings.Contains(errMsg, "abi: cannot marshal in to go slice") {
		return false
	}
	return true
}

func (c *ContractCaller) callContract(ctx context.Context, req *CallContractReq) ([]byte, error) {
	bytes, err := c.ethClient.CallContract(
		ctx,
		ethereum.CallMsg{
			To:   &req.Address,
			Data: req.Data,
		},
		nil,
	)

	if err != nil {
		if IsRetryableErr(err) {
			return nil, err
		}
		return nil, retry.Unrecoverable(err)
	}

	return bytes, nil
}

func (c *ContractCaller) CallContract(ctx context.Context, req *CallContractReq) ([]byte, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, chainReadTimeout)
	defer cancel()
	return retry.DoWithData(func() ([]byte, error) {
		return c.callContract(ctxWithTimeout, req)
	}, readAttempts, retryDelay, lastErrOnly, retry.Context(ctxWithTimeout))
}

func (c *ContractCaller) callMethod(ctx context.Context, addr common.Address, contractABI *abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	bytes, err := c.CallContract(ctx, &CallContractReq{Address: addr, Data: data})
	if err != nil {
		return nil, err
	}
	if len(bytes) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrEmptyOutput, addr.Hex(), method)
	}

	return contractABI.Methods[method].Outputs.Unpack(bytes)
}

// GetPoolSnapshot reads slot0 and liquidity in one pass. Callers own the
// zero-liquidity check; a snapshot with Liquidity == 0 is returned as-is.
func (c *ContractCaller) GetPoolSnapshot(ctx context.Context, meta *PoolMeta) (*PoolSnapshot, error) {
	slot0, err := c.callMethod(ctx, meta.Address, abi_instance.PoolABI, "slot0")
	if err != nil {
		return nil, fmt.Errorf("slot0 %s: %w", meta.Address.Hex(), err)
	}

	liq, err := c.callMethod(ctx, meta.Address, abi_instance.PoolABI, "liquidity")
	if err != nil {
		return nil, fmt.Errorf("liquidity %s: %w", meta.Address.Hex(), err)
	}

	sqrtPriceX96 := slot0[0].(*big.Int)
	tick := slot0[1].(*big.Int)

	return &PoolSnapshot{
		Meta:         meta,
		SqrtPriceX96: sqrtPriceX96,
		Tick:         int32(tick.Int64()),
		Liquidity:    liq[0].(*big.Int),
		ReadAt:       time.Now(),
	}, nil
}

// GetPoolImmutables reads the identity fields of a v3-style pool. Called once
// per pool per process, from DiscoveryCache.Warm.
func (c *ContractCaller) GetPoolImmutables(ctx context.Context, addr common.Address) (token0, token1 common.Address, feePpm uint32, tickSpacing int32, err error) {
	out, err := c.callMethod(ctx, addr, abi_instance.PoolABI, "token0")
	if err != nil {
		return
	}
	token0 = out[0].(common.Address)

	out, err = c.callMethod(ctx, addr, abi_instance.PoolABI, "token1")
	if err != nil {
		return
	}
	token1 = out[0].(common.Address)

	out, err = c.callMethod(ctx, addr, abi_instance.PoolABI, "fee")
	if err != nil {
		return
	}
	feePpm = uint32(out[0].(*big.Int).Uint64())

	out, err = c.callMethod(ctx, addr, abi_instance.PoolABI, "tickSpacing")
	if err != nil {
		return
	}
	tickSpacing = int32(out[0].(*big.Int).Int64())
	return
}

func (c *ContractCaller) GetTokenDecimals(ctx context.Context, addr common.Address) (int8, error) {
	out, err := c.callMethod(ctx, addr, abi_instance.ERC20ABI, "decimals")
	if err != nil {
		return 0, err
	}
	return int8(out[0].(uint8)), nil
}

func (c *ContractCaller) GetTokenSymbol(ctx context.Context, addr common.Address) (string, error) {
	out, err := c.callMethod(ctx, addr, abi_instance.ERC20ABI, "symbol")
	if err != nil {
		return "", err
	}
	return out[0].(string), nil
}

// GetPosition reads a concentrated-liquidity position from a venue's
// position manager.
func (c *ContractCaller) GetPosition(ctx context.Context, manager common.Address, tokenID uint64) (*Position, error) {
	out, err := c.callMethod(ctx, manager, abi_instance.PositionManagerABI, "positions", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("positions(%d): %w", tokenID, err)
	}
	if len(out) < 12 {
		return nil, ErrUnknownPosition
	}

	owner, err := c.callMethod(ctx, manager, abi_instance.PositionManagerABI, "ownerOf", new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("ownerOf(%d): %w", tokenID, err)
	}

	return &Position{
		TokenID:   tokenID,
		TickLower: int32(out[5].(*big.Int).Int64()),
		TickUpper: int32(out[6].(*big.Int).Int64()),
		Liquidity: out[7].(*big.Int),
		Owner:     owner[0].(common.Address),
	}, nil
}
