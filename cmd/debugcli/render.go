package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ligun0805/accesslist-debug/internal/debugcore"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

var (
	colorBlue   = lipgloss.Color("#89b4fa")
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorRed    = lipgloss.Color("#f38ba8")
	colorYellow = lipgloss.Color("#f9e2af")
	colorMuted  = lipgloss.Color("#7f849c")

	titleStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle  = lipgloss.NewStyle().Foreground(colorRed)
	activeNet  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func box(border lipgloss.Color, title string, lines ...string) string {
	body := append([]string{titleStyle.Render(title)}, lines...)
	return boxStyle.BorderForeground(border).Render(strings.Join(body, "\n"))
}

func renderSwitcher(sw *debugcore.Switcher) string {
	var opts []string
	for _, o := range sw.Options() {
		if o.Active {
			opts = append(opts, activeNet.Render("["+o.Label+"]"))
		} else {
			opts = append(opts, mutedStyle.Render(" "+o.Label+" "))
		}
	}
	return box(colorBlue, "🌐 Network Selection", strings.Join(opts, "  "), sw.CurrentLabel())
}

func renderAccount(p debugcore.Panels) string {
	a := p.Account
	lines := []string{
		fmt.Sprintf("Native Token: %s %s", a.NativeBalanceText(), a.NativeSymbol()),
		fmt.Sprintf("%s: %s %s", p.Chain.TokenSymbol, a.TokenBalanceText(), a.TokenSymbolText()),
		mutedStyle.Render(fmt.Sprintf("%s Contract: %s", p.Chain.TokenSymbol, a.TokenAddressText())),
	}
	if w := a.Warning(); w != "" {
		lines = append(lines, warnStyle.Render(w))
	}
	return box(colorBlue, "💰 Account Balances", lines...)
}

func renderTester(t *debugcore.Tester) string {
	toggle := "off"
	if t.UsePreEstimatedGas() {
		toggle = "on"
	}
	lines := []string{
		t.Description(),
		fmt.Sprintf("Pre-estimate gas: %s  %s", toggle, t.GasStatusText()),
		fmt.Sprintf("Action: %s", t.ButtonLabel()),
	}
	if h, ok := t.Hash(); ok {
		lines = append(lines, "Transaction Hash: "+h.Hex())
	}
	return box(colorYellow, "🧪 Transaction Test", lines...)
}

func renderResult(r debugcore.ResultView) string {
	border := colorGreen
	lines := append([]string(nil), r.Lines...)
	if r.IsError {
		border = colorRed
		lines = append(lines, warnStyle.Render(r.Detail))
		if r.Hint != "" {
			lines = append(lines, "Hint: "+r.Hint)
		}
	}
	if r.Link != "" {
		lines = append(lines, mutedStyle.Render(r.Link))
	}
	return box(border, r.Title, lines...)
}

func renderProbe(chain string, res *wallet.AccessListResult) string {
	border := colorGreen
	lines := []string{
		fmt.Sprintf("Chain: %s", chain),
		fmt.Sprintf("gasUsed: %d", res.GasUsed),
		fmt.Sprintf("tuples: %d, storage keys: %d", len(res.List), res.StorageKeyCount()),
	}
	if res.Error != "" {
		border = colorRed
		lines = append(lines, warnStyle.Render("error: "+res.Error))
	}
	for _, t := range res.List {
		lines = append(lines, t.Address.Hex())
		for _, k := range t.StorageKeys {
			lines = append(lines, mutedStyle.Render("  "+k.Hex()))
		}
	}
	return box(border, "eth_createAccessList", lines...)
}
