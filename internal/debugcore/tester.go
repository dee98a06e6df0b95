package debugcore

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

// Phase is the lifecycle of the one tracked transfer attempt.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhasePending: built and handed to the session, no hash yet.
	PhasePending
	// PhaseConfirming: broadcast, waiting for the receipt.
	PhaseConfirming
	PhaseConfirmed
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseConfirming:
		return "confirming"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrReverted is the outcome error for a mined transfer with status 0.
var ErrReverted = errors.New("transaction reverted")

// Tester sends a fixed token amount from the account to itself, optionally
// with a gas limit estimated beforehand.
type Tester struct {
	panel

	session wallet.Session
	chain   chains.Chain
	account common.Address
	store   *OutcomeStore
	opts    Options

	usePreEstimatedGas bool
	decimals           Query[uint8]
	gas                Query[uint64]
	phase              Phase
	hash               common.Hash
}

func newTester(ctx context.Context, s wallet.Session, chain chains.Chain, account common.Address, store *OutcomeStore, opts Options, onChange func()) *Tester {
	return &Tester{
		panel:   panel{ctx: ctx, onChange: onChange},
		session: s,
		chain:   chain,
		account: account,
		store:   store,
		opts:    opts.withDefaults(),
	}
}

// Start loads decimals; the gas estimate follows when the toggle is on.
func (t *Tester) Start() {
	load(&t.panel, &t.decimals, func(ctx context.Context) (uint8, error) {
		return readDecimals(ctx, t.session, t.chain.Token)
	}, t.maybeEstimate)
}

func (t *Tester) Chain() chains.Chain { return t.chain }

// SendAmount is the configured decimal amount, e.g. "0.01".
func (t *Tester) SendAmount() string { return t.opts.SendAmount }

func (t *Tester) Description() string {
	return fmt.Sprintf("This will send %s %s to yourself. The wallet will attempt to create an access list behind the scenes.",
		t.opts.SendAmount, t.chain.TokenSymbol)
}

func (t *Tester) UsePreEstimatedGas() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usePreEstimatedGas
}

// SetUsePreEstimatedGas flips the toggle. Turning it on estimates as soon as
// decimals are known; turning it off forgets the estimate.
func (t *Tester) SetUsePreEstimatedGas(on bool) {
	t.mu.Lock()
	if t.usePreEstimatedGas == on {
		t.mu.Unlock()
		return
	}
	t.usePreEstimatedGas = on
	if !on {
		reset(&t.gas)
	}
	t.mu.Unlock()
	t.changed()
	if on {
		t.maybeEstimate()
	}
}

func (t *Tester) maybeEstimate() {
	t.mu.Lock()
	ready := t.usePreEstimatedGas && t.decimalsReadyLocked() && t.gas.Status != StatusPending
	t.mu.Unlock()
	if !ready {
		return
	}
	req, ok := t.transferRequest()
	if !ok {
		// Nothing to estimate; settle the slot so the guard does not hold forever.
		t.mu.Lock()
		reset(&t.gas)
		t.gas.Status, t.gas.Err = StatusError, fmt.Errorf("build transfer of %q", t.opts.SendAmount)
		t.mu.Unlock()
		t.changed()
		return
	}
	load(&t.panel, &t.gas, func(ctx context.Context) (uint64, error) {
		return t.session.EstimateGas(ctx, ethereum.CallMsg{From: t.account, To: &req.To, Data: req.Data})
	}, nil)
}

// transferRequest builds transfer(self, amount) with the live decimals.
func (t *Tester) transferRequest() (wallet.TxRequest, bool) {
	t.mu.Lock()
	ready, dec := t.decimalsReadyLocked(), t.decimals.Value
	t.mu.Unlock()
	if !ready {
		return wallet.TxRequest{}, false
	}
	amount, err := ParseUnits(t.opts.SendAmount, int(dec))
	if err != nil {
		return wallet.TxRequest{}, false
	}
	data, err := EncodeTransfer(t.account, amount)
	if err != nil {
		return wallet.TxRequest{}, false
	}
	return wallet.TxRequest{To: t.chain.Token, Data: data}, true
}

// DecimalsStatus and GasStatus expose the two slots the submit guard reads.
func (t *Tester) DecimalsStatus() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.decimals.Status
}

func (t *Tester) GasStatus() (Status, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gas.Status, t.gas.Value
}

func (t *Tester) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Hash of the last broadcast attempt.
func (t *Tester) Hash() (common.Hash, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hash, t.hash != (common.Hash{})
}

// decimalsReadyLocked treats a zero decimals answer as not loaded.
func (t *Tester) decimalsReadyLocked() bool {
	return t.decimals.Status == StatusSuccess && t.decimals.Value > 0
}

// estimatingLocked is true from the moment the toggle is on until the
// estimate settles, including while it waits for decimals.
func (t *Tester) estimatingLocked() bool {
	return t.usePreEstimatedGas && t.gas.Status != StatusSuccess && t.gas.Status != StatusError
}

func (t *Tester) canSubmitLocked() bool {
	if t.phase == PhasePending || t.phase == PhaseConfirming {
		return false
	}
	return t.decimalsReadyLocked() && !t.estimatingLocked()
}

// CanSubmit is the enabled state of the submit button.
func (t *Tester) CanSubmit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canSubmitLocked()
}

// Submit starts one transfer attempt and reports whether it did. It does
// nothing while decimals are unknown, while a pre-estimate has not settled
// or while a previous attempt is still in flight.
func (t *Tester) Submit(ctx context.Context) bool {
	t.mu.Lock()
	if !t.canSubmitLocked() {
		t.mu.Unlock()
		return false
	}
	dec := t.decimals.Value
	var gas uint64
	if t.usePreEstimatedGas && t.gas.Status == StatusSuccess {
		gas = t.gas.Value
	}
	t.phase = PhasePending
	t.hash = common.Hash{}
	t.mu.Unlock()
	t.changed()

	amount, err := ParseUnits(t.opts.SendAmount, int(dec))
	if err == nil {
		var data []byte
		if data, err = EncodeTransfer(t.account, amount); err == nil {
			t.wg.Add(1)
			go func() {
				defer t.wg.Done()
				t.send(ctx, wallet.TxRequest{To: t.chain.Token, Data: data, Gas: gas})
			}()
			return true
		}
	}
	t.finish(PhaseFailed, t.errorOutcome(fmt.Errorf("build transfer: %w", err), common.Hash{}))
	return true
}

func (t *Tester) send(ctx context.Context, req wallet.TxRequest) {
	t.opts.logf("[%s] transfer %s %s to self gas=%d", t.chain.Name, t.opts.SendAmount, t.chain.TokenSymbol, req.Gas)
	hash, err := t.session.SendTransaction(ctx, req)
	if err != nil {
		log.Warn("Transfer failed", "chain", t.chain.ID, "err", err)
		t.opts.logf("[%s] send failed: %v", t.chain.Name, err)
		t.finish(PhaseFailed, t.errorOutcome(err, common.Hash{}))
		return
	}

	t.mu.Lock()
	t.phase = PhaseConfirming
	t.hash = hash
	t.mu.Unlock()
	t.changed()
	t.opts.logf("[%s] sent %s, waiting for receipt", t.chain.Name, hash.Hex())

	receipt, err := t.session.WaitForReceipt(ctx, t.chain.ID, hash)
	switch {
	case err != nil:
		t.opts.logf("[%s] receipt: %v", t.chain.Name, err)
		t.finish(PhaseFailed, t.errorOutcome(err, hash))
	case receipt.Status != types.ReceiptStatusSuccessful:
		t.opts.logf("[%s] %s reverted in block %s", t.chain.Name, hash.Hex(), blockOf(receipt))
		t.finish(PhaseFailed, t.errorOutcome(fmt.Errorf("%w in block %s", ErrReverted, blockOf(receipt)), hash))
	default:
		t.opts.logf("[%s] %s confirmed in block %s, gasUsed=%d", t.chain.Name, hash.Hex(), blockOf(receipt), receipt.GasUsed)
		log.Info("Transfer confirmed", "chain", t.chain.ID, "hash", hash, "block", blockOf(receipt))
		t.finish(PhaseConfirmed, Outcome{
			ID:        t.opts.NewID(),
			Type:      OutcomeSuccess,
			ChainID:   t.chain.ID,
			ChainName: t.chain.Name,
			Timestamp: t.opts.Now(),
			Hash:      hash,
			Receipt:   receipt,
		})
	}
}

func blockOf(r *types.Receipt) string {
	if r == nil || r.BlockNumber == nil {
		return "?"
	}
	return r.BlockNumber.String()
}

func (t *Tester) errorOutcome(err error, hash common.Hash) Outcome {
	msg := err.Error()
	if msg == "" {
		msg = "unknown error"
	}
	return Outcome{
		ID:        t.opts.NewID(),
		Type:      OutcomeError,
		ChainID:   t.chain.ID,
		ChainName: t.chain.Name,
		Timestamp: t.opts.Now(),
		Hash:      hash,
		Error:     msg,
	}
}

// finish settles the attempt. The outcome is recorded even when the panel was
// torn down by a network switch meanwhile; it keeps the attempt's own chain.
func (t *Tester) finish(phase Phase, o Outcome) {
	t.mu.Lock()
	t.phase = phase
	t.mu.Unlock()
	t.store.Set(o)
	t.changed()
}

// ButtonLabel mirrors the submit button text for the current state.
func (t *Tester) ButtonLabel() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var label string
	switch t.phase {
	case PhasePending:
		label = "Preparing Transaction..."
	case PhaseConfirming:
		label = "Confirming Transaction..."
	}
	if t.estimatingLocked() {
		return label + "Estimating Gas..."
	}
	if label != "" {
		return label
	}
	return fmt.Sprintf("Test %s %s Transfer on %s", t.opts.SendAmount, t.chain.TokenSymbol, t.chain.Name)
}

// GasStatusText is the line under the toggle; empty while the toggle is off.
func (t *Tester) GasStatusText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.usePreEstimatedGas {
		return ""
	}
	switch t.gas.Status {
	case StatusSuccess:
		if t.gas.Value > 0 {
			return fmt.Sprintf("✅ Estimated gas: %d", t.gas.Value)
		}
		return ""
	case StatusError:
		return "❌ Gas estimation failed (this indicates RPC issues)"
	default:
		// Idle here only means the estimate waits for decimals.
		return "⏳ Estimating gas..."
	}
}

// GasError is the estimate failure, if any.
func (t *Tester) GasError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gas.Err
}

// ProbeAccessList runs eth_createAccessList on the prepared transfer directly,
// outside the send path, so the node's answer can be inspected.
func (t *Tester) ProbeAccessList(ctx context.Context) (*wallet.AccessListResult, error) {
	req, ok := t.transferRequest()
	if !ok {
		return nil, errors.New("token decimals not loaded")
	}
	msg := ethereum.CallMsg{From: t.account, To: &req.To, Data: req.Data, Value: big.NewInt(0)}
	res, err := t.session.CreateAccessList(ctx, msg)
	if err != nil {
		t.opts.logf("[%s] eth_createAccessList probe: %v", t.chain.Name, err)
		return nil, fmt.Errorf("eth_createAccessList: %w", err)
	}
	t.opts.logf("[%s] eth_createAccessList probe: %d tuples, %d slots, gasUsed=%d error=%q",
		t.chain.Name, len(res.List), res.StorageKeyCount(), res.GasUsed, res.Error)
	return res, nil
}
