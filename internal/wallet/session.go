package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNotConnected     = errors.New("wallet not connected")
	ErrNoChain          = errors.New("no active chain")
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrChainMismatch    = errors.New("rpc endpoint reports a different chain id")
)

// Session is the wallet/chain collaborator the debugger drives.
// All network access goes through it so tests can substitute a fake.
type Session interface {
	Connect(ctx context.Context, c Connector) (common.Address, error)
	Connected() bool
	Account() (common.Address, bool)
	// ChainID returns the active chain id, 0 when undefined.
	ChainID() uint64
	SwitchChain(ctx context.Context, chainID uint64) error

	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CreateAccessList(ctx context.Context, msg ethereum.CallMsg) (*AccessListResult, error)

	SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error)
	// WaitForReceipt polls the chain the transaction was sent on, which may
	// no longer be the active one.
	WaitForReceipt(ctx context.Context, chainID uint64, hash common.Hash) (*types.Receipt, error)
}

// TxRequest is a contract write from the connected account.
// Gas == 0 lets the session estimate it.
type TxRequest struct {
	To    common.Address
	Data  []byte
	Value *big.Int
	Gas   uint64
}

// AccessListResult is the decoded eth_createAccessList response.
// Error carries the in-band "error" field, which some nodes set instead of failing the call.
type AccessListResult struct {
	List    types.AccessList
	GasUsed uint64
	Error   string
}

// StorageKeyCount sums storage slots over all tuples.
func (r *AccessListResult) StorageKeyCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, t := range r.List {
		n += len(t.StorageKeys)
	}
	return n
}
