package main

import (
	"context"
	"fmt"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/config"
	"github.com/ligun0805/accesslist-debug/internal/debugcore"
	"github.com/ligun0805/accesslist-debug/internal/logging"
	"github.com/ligun0805/accesslist-debug/internal/telemetry"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

// tel collects connect, switch, probe, snapshot and transfer records for export.
var tel = telemetry.NewStore()

func main() {
	hideConsoleWindow()

	config.LoadDotEnv()
	cfg := config.Load(config.FromEnviron())
	logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	a := app.NewWithID("io.github.ligun0805.accesslist-debug")
	curTheme := makeTheme("dark", false)
	a.Settings().SetTheme(curTheme)

	w := a.NewWindow("Access List Debug")
	logs := newLogView(a)
	w.SetOnClosed(logs.Close)
	w.Resize(fyne.NewSize(980, 760))

	sess := wallet.NewKeyedSession(wallet.Options{
		RPCURL:           cfg.RPCURL,
		InitialChainID:   cfg.DefaultChainID,
		AttachAccessList: cfg.AttachAccessList,
		BaseFeeMul:       cfg.BaseFeeMul,
		TipFloorGwei:     cfg.TipGwei,
		RPCTimeout:       cfg.RPCTimeout,
		ReceiptTimeout:   cfg.ReceiptTimeout,
		Logf:             logs.Logf,
	})
	defer sess.Close()

	connectors := wallet.DefaultConnectors(cfg.PrivateKeyHex, cfg.KeystoreFile, cfg.KeystorePassword, promptSecret(w))
	gate := debugcore.NewGate(sess, connectors, debugcore.Options{
		SendAmount: cfg.TokenSendAmount,
		Logf:       logs.Logf,
	})
	log.Info("Starting GUI", "chain", cfg.DefaultChainID, "accessList", cfg.AttachAccessList)

	themeSelect := widget.NewSelect([]string{"Dark", "Light"}, func(s string) {
		mode := "dark"
		if s == "Light" {
			mode = "light"
		}
		curTheme = makeTheme(mode, curTheme.(*appTheme).compact)
		a.Settings().SetTheme(curTheme)
	})
	themeSelect.SetSelected("Dark")
	compactCheck := widget.NewCheck("Compact", func(b bool) {
		curTheme = makeTheme(curTheme.(*appTheme).mode, b)
		a.Settings().SetTheme(curTheme)
	})
	logsBtn := widget.NewButtonWithIcon("Logs", theme.ListIcon(), logs.Show)

	header := container.NewBorder(nil, nil, nil,
		container.NewHBox(themeSelect, compactCheck, logsBtn),
		container.NewVBox(
			widget.NewLabelWithStyle("🔍 Wallet Access List Debug Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabel("Test eth_createAccessList behavior on Base vs Celo"),
		),
	)

	// ---------- Footer: network snapshot ----------
	netLineLbl := widget.NewLabel("[net] baseFee: — gwei · tip: — gwei")
	updateNetwork := func() { go refreshNetworkLine(sess, netLineLbl) }
	netFooter := container.NewBorder(nil, nil, nil,
		widget.NewButton("UPDATE NETWORK", updateNetwork),
		container.NewPadded(netLineLbl),
	)

	body := container.NewStack()
	var dv *debuggerView

	showDebugger := func() {
		d := gate.Debugger()
		if d == nil {
			return
		}
		if dv == nil {
			dv = newDebuggerView(w, d, logs, updateNetwork)
			d.OnChange(dv.update)
			d.Outcomes().Subscribe(tel.RecordOutcome)
			acct, _ := gate.Account()
			connected := widget.NewLabelWithStyle("✅ Connected: "+acct.Hex(), fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
			body.Objects = []fyne.CanvasObject{
				container.NewBorder(connected, nil, nil, nil, container.NewVScroll(dv.root)),
			}
			body.Refresh()
		}
		dv.update()
		updateNetwork()
	}

	var connectBtn *widget.Button
	connectBtn = widget.NewButtonWithIcon(gate.ConnectLabel(), theme.LoginIcon(), func() {
		connectBtn.Disable()
		go func() {
			defer connectBtn.Enable()
			addr, err := gate.Connect(context.Background())
			tel.Add(telemetry.Item{Action: "connect", OK: err == nil, Error: telemetry.ErrString(err), Account: addr.Hex()})
			if err != nil {
				dialog.ShowError(fmt.Errorf("connect: %w", err), w)
				return
			}
			showDebugger()
		}()
	})
	connectBtn.Importance = widget.HighImportance
	body.Objects = []fyne.CanvasObject{container.NewCenter(connectBtn)}

	bg := canvas.NewLinearGradient(color.NRGBA{12, 16, 24, 255}, color.NRGBA{20, 28, 40, 255}, 90)
	w.SetContent(container.NewStack(
		bg,
		container.NewBorder(container.NewPadded(header), netFooter, nil, nil, container.NewPadded(body)),
	))
	w.ShowAndRun()
}
