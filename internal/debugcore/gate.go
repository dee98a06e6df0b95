package debugcore

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

// ErrNoConnector is returned by Connect when nothing is configured to produce a key.
var ErrNoConnector = errors.New("no wallet connector configured")

// Gate offers the connect action until the session has an account and then
// hands over to the Debugger.
type Gate struct {
	session    wallet.Session
	connectors []wallet.Connector
	opts       Options

	mu  sync.Mutex
	dbg *Debugger
}

func NewGate(s wallet.Session, connectors []wallet.Connector, opts Options) *Gate {
	return &Gate{session: s, connectors: connectors, opts: opts.withDefaults()}
}

func (g *Gate) Connected() bool { return g.session.Connected() }

func (g *Gate) Account() (common.Address, bool) { return g.session.Account() }

// ConnectLabel names the action after the first connector.
func (g *Gate) ConnectLabel() string {
	if len(g.connectors) == 0 {
		return "Connect Wallet"
	}
	return "Connect Wallet (" + g.connectors[0].Name() + ")"
}

// Connect runs the first connector once. Failures are returned as-is.
func (g *Gate) Connect(ctx context.Context) (common.Address, error) {
	if len(g.connectors) == 0 {
		return common.Address{}, ErrNoConnector
	}
	c := g.connectors[0]
	g.opts.logf("connecting via %s", c.Name())
	addr, err := g.session.Connect(ctx, c)
	if err != nil {
		log.Warn("Connect failed", "connector", c.Name(), "err", err)
		g.opts.logf("connect failed: %v", err)
		return common.Address{}, err
	}
	g.opts.logf("connected: %s", addr.Hex())
	return addr, nil
}

// Debugger is nil until the session is connected.
func (g *Gate) Debugger() *Debugger {
	if !g.session.Connected() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dbg == nil {
		g.dbg = NewDebugger(g.session, g.opts)
	}
	return g.dbg
}
