package main

import (
	"context"
	"fmt"
	"image/color"
	"net/url"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/debugcore"
	"github.com/ligun0805/accesslist-debug/internal/telemetry"
)

var (
	successBg = tint(confirmedColor, 60)
	errorBg   = tint(failedColor, 60)
	testerBg  = tint(testerColor, 28)
)

func tint(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}

// debuggerView renders the switcher, the per-network panels and the latest result.
type debuggerView struct {
	w         fyne.Window
	d         *debugcore.Debugger
	logs      *logView
	onNetwork func()

	mu         sync.Mutex
	root       *fyne.Container
	netButtons *fyne.Container
	currentLbl *widget.Label
	panelsBox  *fyne.Container
	resultBox  *fyne.Container
	gen        uint64
	pv         *panelView
}

func newDebuggerView(w fyne.Window, d *debugcore.Debugger, logs *logView, onNetwork func()) *debuggerView {
	v := &debuggerView{w: w, d: d, logs: logs, onNetwork: onNetwork}
	v.netButtons = container.NewHBox()
	v.currentLbl = widget.NewLabel("")
	v.panelsBox = container.NewVBox()
	v.resultBox = container.NewVBox()
	switcher := widget.NewCard("🌐 Network Selection", "", container.NewVBox(v.netButtons, v.currentLbl))
	v.root = container.NewVBox(switcher, v.panelsBox, v.resultBox)
	return v
}

func (v *debuggerView) selectNetwork(c chains.Chain) {
	go func() {
		err := v.d.Select(context.Background(), c.ID)
		tel.Add(telemetry.Item{Action: "switch", ChainID: c.ID, OK: err == nil, Error: telemetry.ErrString(err)})
		if err != nil {
			dialog.ShowError(fmt.Errorf("switch to %s: %w", c.Name, err), v.w)
			return
		}
		v.onNetwork()
	}()
}

// update redraws from controller state. Panels() may rebuild and re-enter
// update through OnChange, so it is called before taking the view lock.
func (v *debuggerView) update() {
	p, hasPanels := v.d.Panels()
	result, hasResult := v.d.Result()

	v.mu.Lock()
	defer v.mu.Unlock()

	var buttons []fyne.CanvasObject
	for _, opt := range v.d.Switcher().Options() {
		opt := opt
		b := widget.NewButton(opt.Label, func() { v.selectNetwork(opt.Chain) })
		if opt.Active {
			b.Importance = widget.SuccessImportance
		}
		buttons = append(buttons, b)
	}
	v.netButtons.Objects = buttons
	v.netButtons.Refresh()
	v.currentLbl.SetText(v.d.Switcher().CurrentLabel())

	if !hasPanels {
		v.gen, v.pv = 0, nil
		v.panelsBox.Objects = nil
	} else if p.Generation != v.gen {
		v.gen = p.Generation
		v.pv = newPanelView(v.w, v.logs, p)
		v.panelsBox.Objects = []fyne.CanvasObject{v.pv.root}
	}
	if v.pv != nil {
		v.pv.refresh()
	}
	v.panelsBox.Refresh()

	v.resultBox.Objects = nil
	if hasPanels && hasResult {
		v.resultBox.Objects = []fyne.CanvasObject{resultCard(result)}
	}
	v.resultBox.Refresh()
}

// panelView holds the widgets of one panel generation.
type panelView struct {
	p    debugcore.Panels
	root fyne.CanvasObject

	nativeLbl   *widget.Label
	tokenLbl    *widget.Label
	contractLbl *widget.Label
	warnLbl     *widget.Label

	gasLbl   *widget.Label
	sendBtn  *widget.Button
	probeBtn *widget.Button
	hashLbl  *widget.Label
}

func newPanelView(w fyne.Window, logs *logView, p debugcore.Panels) *panelView {
	pv := &panelView{p: p}

	pv.nativeLbl = widget.NewLabel("")
	pv.tokenLbl = widget.NewLabel("")
	pv.contractLbl = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	pv.warnLbl = widget.NewLabel("")
	pv.warnLbl.Importance = widget.DangerImportance
	pv.warnLbl.Wrapping = fyne.TextWrapWord
	account := widget.NewCard("💰 Account Balances", "", container.NewVBox(
		pv.nativeLbl, pv.tokenLbl, pv.contractLbl, pv.warnLbl,
	))

	t := p.Tester
	desc := widget.NewLabel(t.Description())
	desc.Wrapping = fyne.TextWrapWord
	gasCheck := widget.NewCheck("Pre-estimate gas", nil)
	gasCheck.SetChecked(t.UsePreEstimatedGas())
	gasCheck.OnChanged = func(b bool) { t.SetUsePreEstimatedGas(b) }
	pv.gasLbl = widget.NewLabel("")
	hint := widget.NewLabel("💡 This fetches gas beforehand to see if it fixes the issue with eth_createAccessList")
	hint.Wrapping = fyne.TextWrapWord
	hint.Importance = widget.LowImportance

	pv.sendBtn = widget.NewButtonWithIcon("", theme.MailSendIcon(), func() {
		t.Submit(context.Background())
	})
	pv.sendBtn.Importance = widget.DangerImportance
	pv.probeBtn = widget.NewButtonWithIcon("Probe eth_createAccessList", theme.SearchIcon(), func() {
		go probe(w, logs, t)
	})
	pv.hashLbl = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})

	testerBox := container.NewVBox(
		desc,
		container.NewVBox(gasCheck, pv.gasLbl, hint),
		container.NewGridWithColumns(2, pv.sendBtn, pv.probeBtn),
		pv.hashLbl,
	)
	tester := widget.NewCard("🧪 Transaction Test", "", testerBox)
	testerTint := canvas.NewRectangle(testerBg)

	pv.root = container.NewVBox(account, container.NewStack(testerTint, tester))
	return pv
}

func (pv *panelView) refresh() {
	a, t := pv.p.Account, pv.p.Tester
	pv.nativeLbl.SetText(fmt.Sprintf("Native Token: %s %s", a.NativeBalanceText(), a.NativeSymbol()))
	pv.tokenLbl.SetText(fmt.Sprintf("%s: %s %s", pv.p.Chain.TokenSymbol, a.TokenBalanceText(), a.TokenSymbolText()))
	pv.contractLbl.SetText(fmt.Sprintf("%s Contract: %s", pv.p.Chain.TokenSymbol, a.TokenAddressText()))
	pv.warnLbl.SetText(a.Warning())

	pv.gasLbl.SetText(t.GasStatusText())
	pv.sendBtn.SetText(t.ButtonLabel())
	if t.CanSubmit() {
		pv.sendBtn.Enable()
	} else {
		pv.sendBtn.Disable()
	}
	if t.DecimalsStatus() == debugcore.StatusSuccess {
		pv.probeBtn.Enable()
	} else {
		pv.probeBtn.Disable()
	}
	if h, ok := t.Hash(); ok {
		pv.hashLbl.SetText("Transaction Hash: " + h.Hex())
	} else {
		pv.hashLbl.SetText("")
	}
}

func resultCard(r debugcore.ResultView) fyne.CanvasObject {
	items := []fyne.CanvasObject{}
	for _, l := range r.Lines {
		items = append(items, widget.NewLabel(l))
	}
	if r.IsError {
		detail := widget.NewLabelWithStyle(r.Detail, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
		detail.Wrapping = fyne.TextWrapWord
		items = append(items, detail)
		if r.Hint != "" {
			items = append(items, widget.NewLabel("Hint: "+r.Hint))
		}
	}
	if r.Link != "" {
		if u, err := url.Parse(r.Link); err == nil {
			items = append(items, widget.NewHyperlink("View on explorer", u))
		}
	}
	bg := successBg
	if r.IsError {
		bg = errorBg
	}
	card := widget.NewCard(r.Title, "", container.NewVBox(items...))
	return container.NewStack(canvas.NewRectangle(bg), card)
}

func probe(w fyne.Window, logs *logView, t *debugcore.Tester) {
	res, err := t.ProbeAccessList(context.Background())
	it := telemetry.Item{Action: "eth_createAccessList", ChainID: t.Chain().ID, OK: err == nil && res.Error == ""}
	if err != nil {
		it.Error = err.Error()
		tel.Add(it)
		dialog.ShowError(err, w)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Chain: %s\ngasUsed: %d\ntuples: %d, storage keys: %d\n", t.Chain().Name, res.GasUsed, len(res.List), res.StorageKeyCount())
	if res.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", res.Error)
		it.Error = res.Error
	}
	for _, tuple := range res.List {
		fmt.Fprintf(&b, "\n%s\n", tuple.Address.Hex())
		for _, k := range tuple.StorageKeys {
			fmt.Fprintf(&b, "  %s\n", k.Hex())
		}
	}
	it.Raw = b.String()
	tel.Add(it)
	logs.Append("probe result:\n" + b.String())
	dialog.ShowInformation("eth_createAccessList", b.String(), w)
}
