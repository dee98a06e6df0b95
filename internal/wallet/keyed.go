package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/chains"
)

// Options configures a KeyedSession.
type Options struct {
	// RPCURL resolves the endpoint for a chain id.
	RPCURL func(chainID uint64) string
	// InitialChainID is switched to right after Connect; 0 leaves the chain undefined.
	InitialChainID uint64
	// AttachAccessList makes SendTransaction call eth_createAccessList and attach
	// the result before signing, the way the wallet provider under test does.
	AttachAccessList bool
	BaseFeeMul       int64
	TipFloorGwei     int64
	RPCTimeout       time.Duration
	ReceiptTimeout   time.Duration
	Dial             DialFunc
	Logf             func(format string, a ...any)
}

// KeyedSession is a Session that signs locally with a private key and talks
// to one RPC endpoint per active chain.
type KeyedSession struct {
	opts Options

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	account common.Address
	chainID uint64
	backend Backend
}

// NewKeyedSession returns a disconnected session.
func NewKeyedSession(opts Options) *KeyedSession {
	if opts.Dial == nil {
		opts.Dial = DialRPC
	}
	if opts.RPCURL == nil {
		opts.RPCURL = func(id uint64) string {
			if c, ok := chains.Lookup(id); ok {
				return c.DefaultRPC
			}
			return ""
		}
	}
	if opts.BaseFeeMul <= 0 {
		opts.BaseFeeMul = 2
	}
	if opts.ReceiptTimeout <= 0 {
		opts.ReceiptTimeout = 2 * time.Minute
	}
	return &KeyedSession{opts: opts}
}

func (s *KeyedSession) logf(format string, a ...any) {
	if s.opts.Logf != nil {
		s.opts.Logf(format, a...)
	}
}

func (s *KeyedSession) Connect(ctx context.Context, c Connector) (common.Address, error) {
	if c == nil {
		return common.Address{}, errors.New("no connector")
	}
	prv, err := c.Key(ctx)
	if err != nil {
		return common.Address{}, err
	}
	addr := gethcrypto.PubkeyToAddress(prv.PublicKey)

	s.mu.Lock()
	s.key = prv
	s.account = addr
	s.mu.Unlock()

	log.Info("Wallet connected", "connector", c.Name(), "account", addr)
	s.logf("connected %s via %s", addr.Hex(), c.Name())

	if s.opts.InitialChainID != 0 {
		if err := s.SwitchChain(ctx, s.opts.InitialChainID); err != nil {
			// The session stays connected with an undefined chain; the user can pick one.
			log.Warn("Initial chain switch failed", "chain", s.opts.InitialChainID, "err", err)
			s.logf("initial switch to %d failed: %v", s.opts.InitialChainID, err)
		}
	}
	return addr, nil
}

func (s *KeyedSession) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key != nil
}

func (s *KeyedSession) Account() (common.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.key != nil
}

func (s *KeyedSession) ChainID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chainID
}

// SwitchChain dials the chain's endpoint and checks eth_chainId before making it active.
// On failure the previous chain stays active.
func (s *KeyedSession) SwitchChain(ctx context.Context, chainID uint64) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	if !chains.IsSupported(chainID) {
		return fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	url := s.opts.RPCURL(chainID)
	if url == "" {
		return fmt.Errorf("no rpc url for chain %d", chainID)
	}
	b, err := s.opts.Dial(ctx, url)
	if err != nil {
		return err
	}
	cctx, cancel := s.rpcCtx(ctx)
	remote, err := b.ChainID(cctx)
	cancel()
	if err != nil {
		b.Close()
		return fmt.Errorf("eth_chainId: %w", err)
	}
	if remote.Uint64() != chainID {
		b.Close()
		return fmt.Errorf("%w: want %d, got %s", ErrChainMismatch, chainID, remote)
	}

	s.mu.Lock()
	old := s.backend
	s.backend = b
	s.chainID = chainID
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
	log.Info("Switched chain", "chain", chainID, "rpc", url)
	s.logf("switched to chain %d (%s)", chainID, url)
	return nil
}

// Close releases the active RPC connection.
func (s *KeyedSession) Close() {
	s.mu.Lock()
	b := s.backend
	s.backend = nil
	s.chainID = 0
	s.mu.Unlock()
	if b != nil {
		b.Close()
	}
}

func (s *KeyedSession) active() (Backend, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, 0, ErrNotConnected
	}
	if s.backend == nil || s.chainID == 0 {
		return nil, 0, ErrNoChain
	}
	return s.backend, s.chainID, nil
}

func (s *KeyedSession) rpcCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.RPCTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RPCTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *KeyedSession) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	b, _, err := s.active()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.rpcCtx(ctx)
	defer cancel()
	return withRetry(ctx, func(ctx context.Context) (*big.Int, error) {
		return b.BalanceAt(ctx, account, nil)
	})
}

func (s *KeyedSession) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	b, _, err := s.active()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.rpcCtx(ctx)
	defer cancel()
	return withRetry(ctx, func(ctx context.Context) ([]byte, error) {
		return b.CallContract(ctx, msg, nil)
	})
}

func (s *KeyedSession) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	b, _, err := s.active()
	if err != nil {
		return 0, err
	}
	ctx, cancel := s.rpcCtx(ctx)
	defer cancel()
	return withRetry(ctx, func(ctx context.Context) (uint64, error) {
		return b.EstimateGas(ctx, msg)
	})
}

func (s *KeyedSession) CreateAccessList(ctx context.Context, msg ethereum.CallMsg) (*AccessListResult, error) {
	b, _, err := s.active()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.rpcCtx(ctx)
	defer cancel()
	al, gasUsed, vmErr, err := b.CreateAccessList(ctx, msg)
	if err != nil {
		return nil, err
	}
	res := &AccessListResult{GasUsed: gasUsed, Error: vmErr}
	if al != nil {
		res.List = *al
	}
	return res, nil
}

// Snapshot reads head, base fee and suggested tip of the active chain.
func (s *KeyedSession) Snapshot(ctx context.Context) (NetworkSnapshot, error) {
	b, id, err := s.active()
	if err != nil {
		return NetworkSnapshot{}, err
	}
	ctx, cancel := s.rpcCtx(ctx)
	defer cancel()
	baseFee, head, err := latestBaseFee(ctx, b)
	if err != nil {
		return NetworkSnapshot{}, fmt.Errorf("head: %w", err)
	}
	tip, err := b.SuggestGasTipCap(ctx)
	if err != nil {
		tip = big.NewInt(0)
	}
	return NetworkSnapshot{ChainID: id, Head: head.Uint64(), BaseFee: baseFee, Tip: tip}, nil
}

// SendTransaction builds, signs and broadcasts an EIP-1559 transaction from the
// connected account. With AttachAccessList set, a failing eth_createAccessList
// fails the send before anything is signed.
func (s *KeyedSession) SendTransaction(ctx context.Context, req TxRequest) (common.Hash, error) {
	b, chainID, err := s.active()
	if err != nil {
		return common.Hash{}, err
	}
	s.mu.RLock()
	prv, from := s.key, s.account
	s.mu.RUnlock()

	ctx, cancel := s.rpcCtx(ctx)
	defer cancel()

	nonce, err := b.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("nonce: %w", err)
	}
	fees, err := suggestFees(ctx, b, s.opts.BaseFeeMul, s.opts.TipFloorGwei)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fees: %w", err)
	}
	s.logf("fees: baseFee=%s gwei tip=%s gwei feeCap=%s gwei", FmtGwei(fees.BaseFee), FmtGwei(fees.Tip), FmtGwei(fees.FeeCap))

	to := req.To
	msg := ethereum.CallMsg{
		From:      from,
		To:        &to,
		Value:     req.Value,
		Data:      req.Data,
		GasFeeCap: fees.FeeCap,
		GasTipCap: fees.Tip,
		Gas:       req.Gas,
	}

	var al types.AccessList
	if s.opts.AttachAccessList {
		s.logf("eth_createAccessList from=%s to=%s", from.Hex(), to.Hex())
		list, gasUsed, vmErr, err := b.CreateAccessList(ctx, msg)
		if err != nil {
			log.Warn("eth_createAccessList failed", "chain", chainID, "err", err)
			return common.Hash{}, fmt.Errorf("eth_createAccessList: %w", err)
		}
		if vmErr != "" {
			log.Warn("eth_createAccessList reported an error", "chain", chainID, "err", vmErr)
			return common.Hash{}, fmt.Errorf("eth_createAccessList: %s", vmErr)
		}
		if list != nil {
			al = *list
		}
		msg.AccessList = al
		s.logf("access list: %d tuples, gasUsed=%d", len(al), gasUsed)
	}

	gas := req.Gas
	if gas == 0 {
		gas, err = b.EstimateGas(ctx, msg)
		if err != nil {
			return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
		}
		s.logf("implicit gas estimate: %d", gas)
	}

	cid := new(big.Int).SetUint64(chainID)
	tx := buildDynamicTx(cid, nonce, &to, req.Value, gas, fees.Tip, fees.FeeCap, req.Data, al)
	signed, err := signTx(tx, cid, prv)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign: %w", err)
	}
	log.Debug("Sending transaction", "chain", chainID, "hash", signed.Hash(), "raw", txAsHex(signed))
	if err := b.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send: %w", err)
	}
	log.Info("Transaction sent", "chain", chainID, "hash", signed.Hash(), "nonce", nonce, "gas", gas)
	s.logf("sent %s nonce=%d gas=%d", signed.Hash().Hex(), nonce, gas)
	return signed.Hash(), nil
}

// receiptPollInterval is how often WaitForReceipt asks for the receipt.
var receiptPollInterval = time.Second

// WaitForReceipt polls chainID for the receipt until it appears or
// ReceiptTimeout passes. It dials its own connection, so switching the
// active chain meanwhile neither closes it nor redirects the poll.
func (s *KeyedSession) WaitForReceipt(ctx context.Context, chainID uint64, hash common.Hash) (*types.Receipt, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}
	url := s.opts.RPCURL(chainID)
	if url == "" {
		return nil, fmt.Errorf("no rpc url for chain %d", chainID)
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReceiptTimeout)
	defer cancel()
	b, err := s.opts.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	r, err := waitMined(ctx, b, hash)
	if err != nil {
		return nil, fmt.Errorf("wait receipt %s: %w", hash.Hex(), err)
	}
	return r, nil
}

func waitMined(ctx context.Context, b Backend, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()
	for {
		receipt, err := b.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if errors.Is(err, ethereum.NotFound) {
			log.Trace("Transaction not yet mined", "hash", hash)
		} else {
			log.Trace("Receipt retrieval failed", "hash", hash, "err", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
