package main

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

var errPromptCancelled = errors.New("cancelled")

// promptSecret asks for a key or password in a modal form. It blocks the
// calling goroutine, so connectors must not be invoked from the UI thread.
func promptSecret(w fyne.Window) wallet.PromptFunc {
	return func(label string) (string, error) {
		type answer struct {
			value string
			ok    bool
		}
		ch := make(chan answer, 1)
		entry := widget.NewPasswordEntry()
		items := []*widget.FormItem{widget.NewFormItem(label, entry)}
		d := dialog.NewForm("Unlock wallet", "Connect", "Cancel", items, func(ok bool) {
			ch <- answer{value: entry.Text, ok: ok}
		}, w)
		d.Resize(fyne.NewSize(520, 160))
		d.Show()
		w.Canvas().Focus(entry)

		a := <-ch
		if !a.ok {
			return "", errPromptCancelled
		}
		return a.value, nil
	}
}
