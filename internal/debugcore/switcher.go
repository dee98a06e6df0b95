package debugcore

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

// NetworkOption is one switcher button.
type NetworkOption struct {
	Chain  chains.Chain
	Active bool
	Label  string
}

// Switcher lists the supported networks and forwards switch requests to the
// session. The session decides which network ends up active.
type Switcher struct {
	session wallet.Session
	opts    Options
}

func NewSwitcher(s wallet.Session, opts Options) *Switcher {
	return &Switcher{session: s, opts: opts.withDefaults()}
}

// Current is the registry entry for the session's active chain.
func (sw *Switcher) Current() (chains.Chain, bool) {
	return chains.Lookup(sw.session.ChainID())
}

func (sw *Switcher) Options() []NetworkOption {
	cur, ok := sw.Current()
	var out []NetworkOption
	for _, c := range chains.Supported() {
		active := ok && cur.ID == c.ID
		label := c.Name
		if active {
			label += " ✓"
		}
		out = append(out, NetworkOption{Chain: c, Active: active, Label: label})
	}
	return out
}

// CurrentLabel is empty while the active chain is undefined or unsupported.
func (sw *Switcher) CurrentLabel() string {
	cur, ok := sw.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Current: %s (Chain ID: %d)", cur.Name, cur.ID)
}

// Switch asks the session to change network. There is no local validation;
// an unsupported id comes back as the session's error.
func (sw *Switcher) Switch(ctx context.Context, chainID uint64) error {
	name := fmt.Sprint(chainID)
	if c, ok := chains.Lookup(chainID); ok {
		name = c.Name
	}
	sw.opts.logf("switch network -> %s", name)
	if err := sw.session.SwitchChain(ctx, chainID); err != nil {
		log.Warn("Network switch failed", "chain", chainID, "err", err)
		sw.opts.logf("switch to %s failed: %v", name, err)
		return err
	}
	log.Info("Network switched", "chain", chainID)
	return nil
}
