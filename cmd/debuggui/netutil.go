package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fyne.io/fyne/v2/widget"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/debugcore"
	"github.com/ligun0805/accesslist-debug/internal/telemetry"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

// transferGas is a typical USDC transfer on both networks, used for the fee preview.
const transferGas = 65_000

// isRPCTimeout detects common timeout/cancellation substrings.
func isRPCTimeout(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "deadline exceeded") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "timed out") ||
		strings.Contains(s, "context canceled")
}

// refreshNetworkLine updates the footer with the active chain's fee market.
func refreshNetworkLine(sess *wallet.KeyedSession, lbl *widget.Label) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	snap, err := sess.Snapshot(ctx)
	if err != nil {
		msg := err.Error()
		if isRPCTimeout(err) {
			msg = "rpc timeout"
		}
		lbl.SetText("[net] " + msg)
		tel.Add(telemetry.Item{Action: "snapshot", ChainID: sess.ChainID(), Error: err.Error()})
		return
	}
	name, symbol, decimals := fmt.Sprint(snap.ChainID), "ETH", 18
	if c, ok := chains.Lookup(snap.ChainID); ok {
		name, symbol, decimals = c.Name, c.NativeSymbol, int(c.NativeDecimals)
	}
	perGas := new(big.Int).Add(snap.BaseFee, snap.Tip)
	fee := debugcore.FormatUnits(perGas.Mul(perGas, big.NewInt(transferGas)), decimals)
	lbl.SetText(fmt.Sprintf("[net] %s · head %d · baseFee: %s gwei · tip: %s gwei · transfer(≈%d gas): %s %s",
		name, snap.Head, wallet.FmtGwei(snap.BaseFee), wallet.FmtGwei(snap.Tip), transferGas, fee, symbol))
	tel.Add(telemetry.Item{Action: "snapshot", ChainID: snap.ChainID, OK: true})
}
