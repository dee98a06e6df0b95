package debugcore

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

var testAccount = common.HexToAddress("0x00000000000000000000000000000000000000a1")

// mockSession is an in-memory wallet.Session. Gates, when set, hold the
// matching call until closed so tests can observe pending states.
type mockSession struct {
	mu sync.Mutex

	connected bool
	account   common.Address
	chainID   uint64
	connErr   error
	switchErr error

	native    *big.Int
	nativeErr error
	symbol    string
	symbolErr error
	decimals  uint8
	decErr    error
	decGate   chan struct{}
	tokenBal  *big.Int
	balErr    error

	gas     uint64
	gasErr  error
	gasGate chan struct{}

	sendErr       error
	receiptStatus uint64
	receiptErr    error
	receiptGate   chan struct{}
	al            *wallet.AccessListResult

	sent      []wallet.TxRequest
	estimates int
	switches  []uint64
	waitedOn  []uint64
}

func newMockSession() *mockSession {
	return &mockSession{
		connected:     true,
		account:       testAccount,
		chainID:       chains.BaseID,
		native:        big.NewInt(1_500_000_000_000_000_000),
		symbol:        "USDC",
		decimals:      6,
		tokenBal:      big.NewInt(12_340_000),
		gas:           51_234,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (m *mockSession) Connect(ctx context.Context, c wallet.Connector) (common.Address, error) {
	if m.connErr != nil {
		return common.Address{}, m.connErr
	}
	if _, err := c.Key(ctx); err != nil {
		return common.Address{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return m.account, nil
}

func (m *mockSession) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockSession) Account() (common.Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account, m.connected
}

func (m *mockSession) ChainID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chainID
}

func (m *mockSession) SwitchChain(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switches = append(m.switches, id)
	if m.switchErr != nil {
		return m.switchErr
	}
	if !chains.IsSupported(id) {
		return wallet.ErrUnsupportedChain
	}
	m.chainID = id
	return nil
}

func (m *mockSession) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	return m.native, m.nativeErr
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockSession) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	sel := msg.Data[:4]
	method := func(name string) bool { return bytes.Equal(sel, erc20ABI.Methods[name].ID) }
	switch {
	case method("symbol"):
		if m.symbolErr != nil {
			return nil, m.symbolErr
		}
		return erc20ABI.Methods["symbol"].Outputs.Pack(m.symbol)
	case method("decimals"):
		if err := wait(ctx, m.decGate); err != nil {
			return nil, err
		}
		if m.decErr != nil {
			return nil, m.decErr
		}
		return erc20ABI.Methods["decimals"].Outputs.Pack(m.decimals)
	case method("balanceOf"):
		if m.balErr != nil {
			return nil, m.balErr
		}
		return erc20ABI.Methods["balanceOf"].Outputs.Pack(m.tokenBal)
	}
	return nil, errors.New("unexpected call")
}

func (m *mockSession) EstimateGas(ctx context.Context, _ ethereum.CallMsg) (uint64, error) {
	m.mu.Lock()
	m.estimates++
	m.mu.Unlock()
	if err := wait(ctx, m.gasGate); err != nil {
		return 0, err
	}
	return m.gas, m.gasErr
}

func (m *mockSession) CreateAccessList(context.Context, ethereum.CallMsg) (*wallet.AccessListResult, error) {
	if m.al == nil {
		return nil, errors.New("method not found")
	}
	return m.al, nil
}

func (m *mockSession) SendTransaction(_ context.Context, req wallet.TxRequest) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return common.Hash{}, m.sendErr
	}
	m.sent = append(m.sent, req)
	return gethcrypto.Keccak256Hash(req.Data, big.NewInt(int64(len(m.sent))).Bytes()), nil
}

func (m *mockSession) WaitForReceipt(ctx context.Context, chainID uint64, hash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	m.waitedOn = append(m.waitedOn, chainID)
	m.mu.Unlock()
	if err := wait(ctx, m.receiptGate); err != nil {
		return nil, err
	}
	if m.receiptErr != nil {
		return nil, m.receiptErr
	}
	return &types.Receipt{Status: m.receiptStatus, TxHash: hash, BlockNumber: big.NewInt(5), GasUsed: 40_000}, nil
}

func (m *mockSession) sentRequests() []wallet.TxRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wallet.TxRequest{}, m.sent...)
}
