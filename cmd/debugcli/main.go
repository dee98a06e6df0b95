package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ligun0805/accesslist-debug/internal/chains"
	"github.com/ligun0805/accesslist-debug/internal/config"
	"github.com/ligun0805/accesslist-debug/internal/debugcore"
	"github.com/ligun0805/accesslist-debug/internal/logging"
	"github.com/ligun0805/accesslist-debug/internal/telemetry"
	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

var tel = telemetry.NewStore()

const help = `commands:
  connect               connect the configured wallet
  switch <base|celo|id> switch network
  show                  print panels and the latest result
  gas <on|off>          toggle gas pre-estimation
  send                  send the test transfer to yourself and wait for the result
  probe                 call eth_createAccessList for the transfer and print it
  net                   print head, base fee and tip of the active chain
  env                   print the configuration
  export [dir]          write the session telemetry as JSON (default ./log_data)
  quit`

func main() {
	config.LoadDotEnv()
	cfg := config.Load(config.FromEnviron())
	logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	logf := func(f string, args ...any) { fmt.Println(mutedStyle.Render(fmt.Sprintf(f, args...))) }

	sess := wallet.NewKeyedSession(wallet.Options{
		RPCURL:           cfg.RPCURL,
		InitialChainID:   cfg.DefaultChainID,
		AttachAccessList: cfg.AttachAccessList,
		BaseFeeMul:       cfg.BaseFeeMul,
		TipFloorGwei:     cfg.TipGwei,
		RPCTimeout:       cfg.RPCTimeout,
		ReceiptTimeout:   cfg.ReceiptTimeout,
		Logf:             logf,
	})
	defer sess.Close()

	connectors := wallet.DefaultConnectors(cfg.PrivateKeyHex, cfg.KeystoreFile, cfg.KeystorePassword, secretPrompt(reader))
	gate := debugcore.NewGate(sess, connectors, debugcore.Options{SendAmount: cfg.TokenSendAmount, Logf: logf})

	fmt.Println(titleStyle.Render("🔍 Wallet Access List Debug Tool"))
	fmt.Println("Test eth_createAccessList behavior on Base vs Celo")
	printConfig(cfg)
	fmt.Println(help)

	for {
		line, err := readLine(reader, "\n> ")
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			die(err.Error())
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]
		if cmd == "quit" || cmd == "exit" || cmd == "q" {
			return
		}
		if err := run(ctx, gate, sess, cfg, cmd, args); err != nil {
			fmt.Println(warnStyle.Render("[!] " + err.Error()))
		}
	}
}

func run(ctx context.Context, gate *debugcore.Gate, sess *wallet.KeyedSession, cfg config.Settings, cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		fmt.Println(help)
		return nil
	case "env":
		printConfig(cfg)
		return nil
	case "connect":
		if gate.Connected() {
			acct, _ := gate.Account()
			fmt.Println("already connected:", acct.Hex())
			return nil
		}
		fmt.Println(gate.ConnectLabel() + "...")
		addr, err := gate.Connect(ctx)
		tel.Add(telemetry.Item{Action: "connect", Account: addr.Hex(), OK: err == nil, Error: telemetry.ErrString(err)})
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		fmt.Println("✅ Connected:", addr.Hex())
		d := gate.Debugger()
		d.Outcomes().Subscribe(tel.RecordOutcome)
		return show(d)
	case "net":
		return printNetwork(ctx, sess)
	case "export":
		dir := "log_data"
		if len(args) > 0 {
			dir = args[0]
		}
		path, err := tel.WriteJSON(dir)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Printf("telemetry (%d items) saved to %s\n", tel.Len(), path)
		return nil
	}

	d := gate.Debugger()
	if d == nil {
		return errors.New("not connected, run 'connect' first")
	}
	switch cmd {
	case "show":
		return show(d)
	case "switch":
		if len(args) != 1 {
			return errors.New("usage: switch <base|celo|chain id>")
		}
		id, err := parseChain(args[0])
		if err != nil {
			return err
		}
		err = d.Select(ctx, id)
		tel.Add(telemetry.Item{Action: "switch", ChainID: id, OK: err == nil, Error: telemetry.ErrString(err)})
		if err != nil {
			return fmt.Errorf("switch: %w", err)
		}
		return show(d)
	case "gas":
		p, ok := d.Panels()
		if !ok {
			return errors.New("unsupported network")
		}
		on := !p.Tester.UsePreEstimatedGas()
		if len(args) == 1 {
			on = yes(args[0])
		}
		p.Tester.SetUsePreEstimatedGas(on)
		p.Tester.Wait()
		fmt.Println(renderTester(p.Tester))
		return nil
	case "send":
		p, ok := d.Panels()
		if !ok {
			return errors.New("unsupported network")
		}
		p.Tester.Wait()
		if !p.Tester.Submit(ctx) {
			return fmt.Errorf("cannot send yet: %s", p.Tester.ButtonLabel())
		}
		fmt.Println(p.Tester.ButtonLabel() + "...")
		p.Tester.Wait()
		if r, ok := d.Result(); ok {
			fmt.Println(renderResult(r))
		}
		p.Account.Refresh()
		return nil
	case "probe":
		p, ok := d.Panels()
		if !ok {
			return errors.New("unsupported network")
		}
		p.Tester.Wait()
		res, err := p.Tester.ProbeAccessList(ctx)
		it := telemetry.Item{Action: "eth_createAccessList", ChainID: p.Chain.ID, OK: err == nil && res.Error == ""}
		if err != nil {
			it.Error = err.Error()
			tel.Add(it)
			return fmt.Errorf("probe: %w", err)
		}
		it.Error = res.Error
		tel.Add(it)
		fmt.Println(renderProbe(p.Chain.Name, res))
		return nil
	}
	return fmt.Errorf("unknown command %q (try 'help')", cmd)
}

// show waits for the panels to settle and prints them.
func show(d *debugcore.Debugger) error {
	fmt.Println(renderSwitcher(d.Switcher()))
	p, ok := d.Panels()
	if !ok {
		log.Debug("No panels for current network")
		return nil
	}
	p.Account.Wait()
	p.Tester.Wait()
	fmt.Println(renderAccount(p))
	fmt.Println(renderTester(p.Tester))
	if r, ok := d.Result(); ok {
		fmt.Println(renderResult(r))
	}
	return nil
}

func parseChain(s string) (uint64, error) {
	for _, c := range chains.Supported() {
		if strings.EqualFold(s, c.Name) {
			return c.ID, nil
		}
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unknown network %q", s)
	}
	return id, nil
}

func printNetwork(ctx context.Context, sess *wallet.KeyedSession) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	snap, err := sess.Snapshot(ctx)
	tel.Add(telemetry.Item{Action: "snapshot", ChainID: sess.ChainID(), OK: err == nil, Error: telemetry.ErrString(err)})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	name := strconv.FormatUint(snap.ChainID, 10)
	if c, ok := chains.Lookup(snap.ChainID); ok {
		name = c.Name
	}
	fmt.Printf("[net] %s · head %d · baseFee: %s gwei · tip: %s gwei\n",
		name, snap.Head, wallet.FmtGwei(snap.BaseFee), wallet.FmtGwei(snap.Tip))
	return nil
}

func printConfig(cfg config.Settings) {
	fmt.Println("=== CONFIG (.env) ===")
	for _, c := range chains.Supported() {
		fmt.Printf("%-18s: %s\n", strings.ToUpper(c.Name)+"_RPC_URL", cfg.RPCURL(c.ID))
	}
	fmt.Println("DEFAULT_CHAIN_ID  :", cfg.DefaultChainID)
	fmt.Println("PRIVATE_KEY       :", wallet.MaskHex(cfg.PrivateKeyHex))
	fmt.Println("KEYSTORE_FILE     :", cfg.KeystoreFile)
	fmt.Println("WALLET_ACCESS_LIST:", cfg.AttachAccessList)
	fmt.Println("TOKEN_SEND_AMOUNT :", cfg.TokenSendAmount)
	fmt.Println("BASEFEE_MUL       :", cfg.BaseFeeMul)
	fmt.Println("TIP_GWEI          :", cfg.TipGwei)
	fmt.Println("RECEIPT_TIMEOUT   :", cfg.ReceiptTimeout)
	fmt.Println("=====================")
}
