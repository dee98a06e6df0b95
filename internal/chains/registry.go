package chains

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Chain is one network the debugger can run against.
type Chain struct {
	ID             uint64
	Name           string
	NativeSymbol   string
	NativeDecimals uint8
	Token          common.Address // USDC on this network
	TokenSymbol    string         // fallback when symbol() cannot be read
	DefaultRPC     string
	Explorer       string
}

// Chain ids of the supported networks.
const (
	BaseID uint64 = 8453
	CeloID uint64 = 42220
)

var supported = []Chain{
	{
		ID:             BaseID,
		Name:           "Base",
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		Token:          common.HexToAddress("0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"),
		TokenSymbol:    "USDC",
		DefaultRPC:     "https://mainnet.base.org",
		Explorer:       "https://basescan.org",
	},
	{
		ID:             CeloID,
		Name:           "Celo",
		NativeSymbol:   "CELO",
		NativeDecimals: 18,
		Token:          common.HexToAddress("0xceba9300f2b948710d2653dd7b07f33a8b32118c"),
		TokenSymbol:    "USDC",
		DefaultRPC:     "https://forno.celo.org",
		Explorer:       "https://celoscan.io",
	},
}

// Supported returns the networks in display order. The slice is a copy.
func Supported() []Chain {
	out := make([]Chain, len(supported))
	copy(out, supported)
	return out
}

// Lookup finds a supported chain by id.
func Lookup(id uint64) (Chain, bool) {
	for _, c := range supported {
		if c.ID == id {
			return c, true
		}
	}
	return Chain{}, false
}

// TokenAddress returns the token contract for a chain id.
func TokenAddress(id uint64) (common.Address, bool) {
	c, ok := Lookup(id)
	if !ok {
		return common.Address{}, false
	}
	return c.Token, true
}

// IsSupported reports whether id is in the registry.
func IsSupported(id uint64) bool {
	_, ok := Lookup(id)
	return ok
}

// TxURL links a transaction hash on the chain's block explorer.
func (c Chain) TxURL(hash common.Hash) string {
	if c.Explorer == "" {
		return ""
	}
	return strings.TrimRight(c.Explorer, "/") + "/tx/" + hash.Hex()
}
