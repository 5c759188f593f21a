package abi_instance

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	ERC20ABIJson = `[{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},{"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`
)

var (
	ERC20ABI *abi.ABI
)

func init() {
	erc20Abi, err := abi.JSON(strings.NewReader(ERC20ABIJson))
	if err != nil {
		panic(err)
	}
	ERC20ABI = &erc20Abi
}
