package debugcore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcomeLog struct {
	mu  sync.Mutex
	all []Outcome
}

func (l *outcomeLog) record(o Outcome) {
	l.mu.Lock()
	l.all = append(l.all, o)
	l.mu.Unlock()
}

func (l *outcomeLog) list() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Outcome{}, l.all...)
}

func newTestDebugger(t *testing.T, m *mockSession) (*Debugger, Panels, *outcomeLog) {
	t.Helper()
	d := NewDebugger(m, Options{})
	t.Cleanup(d.Close)
	log := &outcomeLog{}
	d.Outcomes().Subscribe(log.record)
	p, ok := d.Panels()
	require.True(t, ok)
	return d, p, log
}

func TestSubmitWithoutDecimalsDoesNothing(t *testing.T) {
	m := newMockSession()
	m.decGate = make(chan struct{})
	_, p, log := newTestDebugger(t, m)

	assert.Equal(t, StatusPending, p.Tester.DecimalsStatus())
	assert.False(t, p.Tester.CanSubmit())
	assert.False(t, p.Tester.Submit(context.Background()))

	close(m.decGate)
	p.Tester.Wait()
	assert.Empty(t, m.sentRequests())
	assert.Empty(t, log.list())
	assert.Equal(t, PhaseIdle, p.Tester.Phase())
}

func TestSubmitWhenDecimalsFailDoesNothing(t *testing.T) {
	m := newMockSession()
	m.decErr = errors.New("execution reverted")
	_, p, log := newTestDebugger(t, m)
	p.Tester.Wait()

	assert.Equal(t, StatusError, p.Tester.DecimalsStatus())
	assert.False(t, p.Tester.Submit(context.Background()))
	assert.Empty(t, m.sentRequests())
	assert.Empty(t, log.list())
}

func TestSubmitSuccess(t *testing.T) {
	m := newMockSession()
	_, p, log := newTestDebugger(t, m)
	p.Tester.Wait()
	require.True(t, p.Tester.CanSubmit())

	submitted := time.Now()
	require.True(t, p.Tester.Submit(context.Background()))
	p.Tester.Wait()

	outs := log.list()
	require.Len(t, outs, 1)
	o := outs[0]
	assert.Equal(t, OutcomeSuccess, o.Type)
	assert.NotEqual(t, common.Hash{}, o.Hash)
	assert.False(t, o.Timestamp.Before(submitted))
	assert.Equal(t, chainsBase().ID, o.ChainID)
	assert.Equal(t, "Base", o.ChainName)
	require.NotNil(t, o.Receipt)
	assert.NotEmpty(t, o.ID)

	sent := m.sentRequests()
	require.Len(t, sent, 1)
	assert.Equal(t, chainsBase().Token, sent[0].To)
	assert.Zero(t, sent[0].Gas, "gas left to the wallet when the toggle is off")
	want, err := EncodeTransfer(testAccount, mustParse(t, "0.01", 6))
	require.NoError(t, err)
	assert.Equal(t, want, sent[0].Data)

	assert.Equal(t, PhaseConfirmed, p.Tester.Phase())
	h, ok := p.Tester.Hash()
	assert.True(t, ok)
	assert.Equal(t, o.Hash, h)

	latest, ok := p.Tester.store.Latest()
	require.True(t, ok)
	assert.Equal(t, o.ID, latest.ID)
}

func TestSubmitErrors(t *testing.T) {
	cases := []struct {
		name  string
		setup func(m *mockSession)
		want  string
		hash  bool
	}{
		{"rejected", func(m *mockSession) { m.sendErr = errors.New("eth_createAccessList: execution reverted") }, "eth_createAccessList", false},
		{"reverted", func(m *mockSession) { m.receiptStatus = types.ReceiptStatusFailed }, "transaction reverted in block 5", true},
		{"receipt timeout", func(m *mockSession) { m.receiptErr = context.DeadlineExceeded }, "deadline exceeded", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMockSession()
			tc.setup(m)
			_, p, log := newTestDebugger(t, m)
			p.Tester.Wait()

			require.True(t, p.Tester.Submit(context.Background()))
			p.Tester.Wait()

			outs := log.list()
			require.Len(t, outs, 1)
			assert.Equal(t, OutcomeError, outs[0].Type)
			assert.NotEmpty(t, outs[0].Error)
			assert.Contains(t, outs[0].Error, tc.want)
			assert.Equal(t, tc.hash, outs[0].HasHash())
			assert.Equal(t, PhaseFailed, p.Tester.Phase())
			assert.True(t, p.Tester.CanSubmit(), "a settled attempt re-enables submit")
		})
	}
}

func TestPreEstimatePendingBlocksSubmit(t *testing.T) {
	m := newMockSession()
	m.gasGate = make(chan struct{})
	_, p, log := newTestDebugger(t, m)
	p.Tester.Wait()

	assert.Equal(t, "", p.Tester.GasStatusText())
	p.Tester.SetUsePreEstimatedGas(true)
	st, _ := p.Tester.GasStatus()
	assert.Equal(t, StatusPending, st)
	assert.Equal(t, "⏳ Estimating gas...", p.Tester.GasStatusText())
	assert.Equal(t, "Estimating Gas...", p.Tester.ButtonLabel())
	assert.False(t, p.Tester.CanSubmit())
	assert.False(t, p.Tester.Submit(context.Background()))
	assert.Empty(t, m.sentRequests())

	close(m.gasGate)
	p.Tester.Wait()
	assert.Equal(t, "✅ Estimated gas: 51234", p.Tester.GasStatusText())
	require.True(t, p.Tester.Submit(context.Background()))
	p.Tester.Wait()

	sent := m.sentRequests()
	require.Len(t, sent, 1)
	assert.Equal(t, uint64(51_234), sent[0].Gas)
	assert.Len(t, log.list(), 1)
}

func TestPreEstimateFailureDoesNotBlock(t *testing.T) {
	m := newMockSession()
	m.gasErr = errors.New("rpc error")
	_, p, _ := newTestDebugger(t, m)
	p.Tester.Wait()

	p.Tester.SetUsePreEstimatedGas(true)
	p.Tester.Wait()
	assert.Equal(t, "❌ Gas estimation failed (this indicates RPC issues)", p.Tester.GasStatusText())
	assert.Error(t, p.Tester.GasError())
	require.True(t, p.Tester.Submit(context.Background()))
	p.Tester.Wait()
	require.Len(t, m.sentRequests(), 1)
	assert.Zero(t, m.sentRequests()[0].Gas)

	p.Tester.SetUsePreEstimatedGas(false)
	assert.Equal(t, "", p.Tester.GasStatusText())
	st, _ := p.Tester.GasStatus()
	assert.Equal(t, StatusIdle, st)
}

func TestToggleBeforeDecimalsWaitsForThem(t *testing.T) {
	m := newMockSession()
	m.decGate = make(chan struct{})
	_, p, _ := newTestDebugger(t, m)

	p.Tester.SetUsePreEstimatedGas(true)
	assert.Equal(t, "⏳ Estimating gas...", p.Tester.GasStatusText())
	assert.Equal(t, "Estimating Gas...", p.Tester.ButtonLabel())
	assert.False(t, p.Tester.CanSubmit())

	close(m.decGate)
	p.Tester.Wait()
	st, gas := p.Tester.GasStatus()
	assert.Equal(t, StatusSuccess, st)
	assert.Equal(t, uint64(51_234), gas)
}

func TestSubmitFromChangeCallbackWaitsForEstimate(t *testing.T) {
	m := newMockSession()
	m.decGate = make(chan struct{})
	m.gasGate = make(chan struct{})
	d, p, log := newTestDebugger(t, m)

	var early atomic.Int32
	d.OnChange(func() {
		st, _ := p.Tester.GasStatus()
		if p.Tester.Submit(context.Background()) && st != StatusSuccess {
			early.Add(1)
		}
	})
	p.Tester.SetUsePreEstimatedGas(true)

	close(m.decGate)
	require.Eventually(t, func() bool {
		st, _ := p.Tester.GasStatus()
		return st == StatusPending
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, m.sentRequests(), "decimals alone do not open the guard")

	close(m.gasGate)
	require.Eventually(t, func() bool { return len(log.list()) == 1 }, time.Second, 5*time.Millisecond)
	p.Tester.Wait()

	assert.Zero(t, early.Load())
	sent := m.sentRequests()
	require.Len(t, sent, 1)
	assert.Equal(t, uint64(51_234), sent[0].Gas)
}

func TestZeroDecimalsIsNotSubmittable(t *testing.T) {
	m := newMockSession()
	m.decimals = 0
	_, p, log := newTestDebugger(t, m)
	p.Tester.Wait()

	assert.Equal(t, StatusSuccess, p.Tester.DecimalsStatus())
	assert.False(t, p.Tester.CanSubmit())
	assert.False(t, p.Tester.Submit(context.Background()))
	_, err := p.Tester.ProbeAccessList(context.Background())
	assert.Error(t, err)
	assert.Empty(t, m.sentRequests())
	assert.Empty(t, log.list())
}

func TestOverlappingSubmitIsGuarded(t *testing.T) {
	m := newMockSession()
	_, p, log := newTestDebugger(t, m)
	p.Tester.Wait()

	m.mu.Lock() // holds SendTransaction
	require.True(t, p.Tester.Submit(context.Background()))
	assert.Equal(t, PhasePending, p.Tester.Phase())
	assert.Equal(t, "Preparing Transaction...", p.Tester.ButtonLabel())
	assert.False(t, p.Tester.Submit(context.Background()))
	m.mu.Unlock()

	p.Tester.Wait()
	assert.Len(t, m.sentRequests(), 1)
	assert.Len(t, log.list(), 1)
}

func TestButtonLabelIdle(t *testing.T) {
	m := newMockSession()
	_, p, _ := newTestDebugger(t, m)
	p.Tester.Wait()
	assert.Equal(t, "Test 0.01 USDC Transfer on Base", p.Tester.ButtonLabel())
	assert.Contains(t, p.Tester.Description(), "0.01 USDC to yourself")
}

func TestProbeAccessList(t *testing.T) {
	m := newMockSession()
	_, p, _ := newTestDebugger(t, m)
	p.Tester.Wait()

	_, err := p.Tester.ProbeAccessList(context.Background())
	assert.ErrorContains(t, err, "eth_createAccessList: method not found")

	m.al = &walletResult
	res, err := p.Tester.ProbeAccessList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(31_000), res.GasUsed)
}
