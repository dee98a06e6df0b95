package debugcore

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

const (
	textLoading         = "Loading..."
	textBalanceError    = "Error loading balance"
	textDecimalsError   = "Error loading decimals"
	textSymbolPending   = "..."
	rpcWarning          = "⚠️ Some contract data failed to load (this may indicate RPC issues)"
	fallbackTokenSymbol = "USDC"
)

// AccountInfo reads the native balance and the token's symbol, decimals and
// balanceOf for one account on one chain. The four reads are independent and
// may land at different block heights.
type AccountInfo struct {
	panel

	session wallet.Session
	chain   chains.Chain
	account common.Address

	native   Query[*big.Int]
	symbol   Query[string]
	decimals Query[uint8]
	balance  Query[*big.Int]
}

func newAccountInfo(ctx context.Context, s wallet.Session, chain chains.Chain, account common.Address, onChange func()) *AccountInfo {
	return &AccountInfo{
		panel:   panel{ctx: ctx, onChange: onChange},
		session: s,
		chain:   chain,
		account: account,
	}
}

// Refresh starts all four reads.
func (a *AccountInfo) Refresh() {
	token := a.chain.Token
	load(&a.panel, &a.native, func(ctx context.Context) (*big.Int, error) {
		return a.session.BalanceAt(ctx, a.account)
	}, nil)
	load(&a.panel, &a.symbol, func(ctx context.Context) (string, error) {
		return readSymbol(ctx, a.session, token)
	}, nil)
	load(&a.panel, &a.decimals, func(ctx context.Context) (uint8, error) {
		return readDecimals(ctx, a.session, token)
	}, nil)
	load(&a.panel, &a.balance, func(ctx context.Context) (*big.Int, error) {
		return readBalanceOf(ctx, a.session, token, a.account)
	}, nil)
}

func (a *AccountInfo) Chain() chains.Chain { return a.chain }
func (a *AccountInfo) Account() common.Address { return a.account }
func (a *AccountInfo) TokenAddress() common.Address { return a.chain.Token }
func (a *AccountInfo) NativeSymbol() string { return a.chain.NativeSymbol }
func (a *AccountInfo) TokenAddressText() string { return a.chain.Token.Hex() }

// Statuses returns native, symbol, decimals and balance status in that order.
func (a *AccountInfo) Statuses() (native, symbol, decimals, balance Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.native.Status, a.symbol.Status, a.decimals.Status, a.balance.Status
}

func (a *AccountInfo) NativeBalanceText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.native.Status {
	case StatusSuccess:
		return FormatUnits(a.native.Value, int(a.chain.NativeDecimals))
	case StatusError:
		return textBalanceError
	default:
		return textLoading
	}
}

// TokenBalanceText needs both balanceOf and decimals. Until decimals succeeds
// the balance cannot be scaled and the decimals error text is shown.
func (a *AccountInfo) TokenBalanceText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.balance.Status {
	case StatusSuccess:
	case StatusError:
		return textBalanceError
	default:
		return textLoading
	}
	if a.decimals.Status != StatusSuccess {
		return textDecimalsError
	}
	return FormatUnits(a.balance.Value, int(a.decimals.Value))
}

func (a *AccountInfo) TokenSymbolText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.symbol.Status {
	case StatusSuccess:
		if a.symbol.Value != "" {
			return a.symbol.Value
		}
		return fallbackTokenSymbol
	case StatusError:
		return fallbackTokenSymbol
	default:
		return textSymbolPending
	}
}

// Warning is non-empty when any of the four reads failed.
func (a *AccountInfo) Warning() string {
	n, s, d, b := a.Statuses()
	for _, st := range []Status{n, s, d, b} {
		if st == StatusError {
			return rpcWarning
		}
	}
	return ""
}

// Errors lists the read errors for the log window.
func (a *AccountInfo) Errors() []error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []error
	for _, e := range []error{a.native.Err, a.symbol.Err, a.decimals.Err, a.balance.Err} {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
