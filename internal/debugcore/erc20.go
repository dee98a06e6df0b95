package debugcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

var erc20ABI abi.ABI

func init() {
	const erc20 = `[
{"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"recipient","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`
	ab, err := abi.JSON(strings.NewReader(erc20))
	if err != nil {
		panic(fmt.Sprintf("erc20 abi: %v", err))
	}
	erc20ABI = ab
}

// EncodeTransfer packs transfer(to, amount) calldata.
func EncodeTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("transfer", to, amount)
}

// callView runs a read-only token method through the session and unpacks its single output.
func callView(ctx context.Context, s wallet.Session, token common.Address, method string, args ...any) (any, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: pack: %w", method, err)
	}
	ret, err := s.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data})
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", method, err)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%s(): empty return data (no contract at %s?)", method, token.Hex())
	}
	out, err := erc20ABI.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("%s(): unpack: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s(): unexpected %d outputs", method, len(out))
	}
	return out[0], nil
}

func readSymbol(ctx context.Context, s wallet.Session, token common.Address) (string, error) {
	v, err := callView(ctx, s, token, "symbol")
	if err != nil {
		return "", err
	}
	sym, ok := v.(string)
	if !ok {
		return "", errors.New("symbol(): not a string")
	}
	return sym, nil
}

func readDecimals(ctx context.Context, s wallet.Session, token common.Address) (uint8, error) {
	v, err := callView(ctx, s, token, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := v.(uint8)
	if !ok {
		return 0, errors.New("decimals(): not a uint8")
	}
	return d, nil
}

func readBalanceOf(ctx context.Context, s wallet.Session, token, owner common.Address) (*big.Int, error) {
	v, err := callView(ctx, s, token, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	bal, ok := v.(*big.Int)
	if !ok {
		return nil, errors.New("balanceOf(): not a uint256")
	}
	return bal, nil
}
