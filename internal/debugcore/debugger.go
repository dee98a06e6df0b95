package debugcore

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

// Panels are the per-network views of one generation.
type Panels struct {
	Chain      chains.Chain
	Account    *AccountInfo
	Tester     *Tester
	Generation uint64
}

// Debugger composes the switcher and the per-network panels and owns the
// latest outcome. Panels are rebuilt whenever the session's chain or account
// changes; loads and attempts of an older generation are discarded.
type Debugger struct {
	session  wallet.Session
	opts     Options
	store    *OutcomeStore
	switcher *Switcher

	mu        sync.Mutex
	gen       uint64
	chainID   uint64
	account   common.Address
	cancel    context.CancelFunc
	panels    *Panels
	observers []func()
}

func NewDebugger(s wallet.Session, opts Options) *Debugger {
	opts = opts.withDefaults()
	d := &Debugger{
		session:  s,
		opts:     opts,
		store:    NewOutcomeStore(),
		switcher: NewSwitcher(s, opts),
	}
	d.store.Subscribe(func(o Outcome) {
		log.Info("Outcome", "type", o.Type, "chain", o.ChainID, "hash", o.Hash, "err", o.Error)
		d.notify()
	})
	return d
}

func (d *Debugger) Outcomes() *OutcomeStore { return d.store }
func (d *Debugger) Switcher() *Switcher { return d.switcher }

func (d *Debugger) Current() (chains.Chain, bool) { return d.switcher.Current() }

// OnChange registers fn to run on any state change. It may run on any goroutine.
func (d *Debugger) OnChange(fn func()) {
	d.mu.Lock()
	d.observers = append(d.observers, fn)
	d.mu.Unlock()
}

func (d *Debugger) notify() {
	d.mu.Lock()
	obs := append([]func(){}, d.observers...)
	d.mu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

func (d *Debugger) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gen
}

// Sync rebuilds the panels if the session moved to another chain or account
// and reports whether it did.
func (d *Debugger) Sync() bool {
	id := d.session.ChainID()
	acct, hasAcct := d.session.Account()

	d.mu.Lock()
	if d.gen > 0 && id == d.chainID && acct == d.account {
		d.mu.Unlock()
		return false
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
	d.chainID, d.account, d.panels = id, acct, nil

	chain, supported := chains.Lookup(id)
	var p *Panels
	if supported && hasAcct {
		ctx, cancel := context.WithCancel(context.Background())
		d.cancel = cancel
		p = &Panels{
			Chain:      chain,
			Account:    newAccountInfo(ctx, d.session, chain, acct, d.notify),
			Tester:     newTester(ctx, d.session, chain, acct, d.store, d.opts, d.notify),
			Generation: d.gen,
		}
		d.panels = p
	}
	gen := d.gen
	d.mu.Unlock()

	if p != nil {
		log.Debug("Panels rebuilt", "chain", chain.ID, "generation", gen)
		d.opts.logf("[%s] loading account %s (generation %d)", chain.Name, acct.Hex(), gen)
		p.Account.Refresh()
		p.Tester.Start()
	}
	d.notify()
	return true
}

// Panels returns the current panels. They exist only while the active chain
// is supported and an account is connected.
func (d *Debugger) Panels() (Panels, bool) {
	d.Sync()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.panels == nil {
		return Panels{}, false
	}
	return *d.panels, true
}

// Select asks the session to switch and rebuilds the panels for whatever
// chain the session ends up on.
func (d *Debugger) Select(ctx context.Context, chainID uint64) error {
	err := d.switcher.Switch(ctx, chainID)
	if !d.Sync() {
		d.notify()
	}
	return err
}

// Result renders the latest outcome. It is shown alongside the panels only.
func (d *Debugger) Result() (ResultView, bool) {
	if _, ok := d.Panels(); !ok {
		return ResultView{}, false
	}
	o, ok := d.store.Latest()
	if !ok {
		return ResultView{}, false
	}
	return RenderResult(o), true
}

// Close cancels the current generation.
func (d *Debugger) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.panels = nil
}
