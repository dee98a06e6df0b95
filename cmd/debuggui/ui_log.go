package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const maxLogLines = 2000

// logView buffers session log lines and shows them in a separate window on demand.
type logView struct {
	a fyne.App

	mu     sync.Mutex
	lines  []string
	win    fyne.Window
	entry  *widget.Entry
	scroll *container.Scroll
}

func newLogView(a fyne.App) *logView { return &logView{a: a} }

// Logf is the sink passed to the session and the debugger.
func (l *logView) Logf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Append adds a timestamped line and keeps the last maxLogLines.
func (l *logView) Append(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		l.lines = append(l.lines, time.Now().Format("15:04:05 ")+line)
	}
	if n := len(l.lines) - maxLogLines; n > 0 {
		l.lines = append([]string(nil), l.lines[n:]...)
	}
	l.renderLocked()
}

func (l *logView) renderLocked() {
	if l.win == nil {
		return
	}
	l.entry.SetText(strings.Join(l.lines, "\n"))
	l.scroll.ScrollToBottom()
}

// Show opens the window, creating it on first use.
func (l *logView) Show() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.win == nil {
		l.build()
		l.renderLocked()
	}
	l.win.Show()
}

func (l *logView) Close() {
	l.mu.Lock()
	w := l.win
	l.mu.Unlock()
	if w != nil {
		w.Close()
	}
}

func (l *logView) build() {
	w := l.a.NewWindow("Logs")
	w.SetOnClosed(func() {
		l.mu.Lock()
		l.win, l.entry, l.scroll = nil, nil, nil
		l.mu.Unlock()
	})
	exportBtn := widget.NewButtonWithIcon("Export Telemetry JSON", theme.DocumentSaveIcon(), l.export)
	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		l.mu.Lock()
		l.lines = nil
		l.renderLocked()
		l.mu.Unlock()
	})
	top := container.NewBorder(nil, nil, nil, container.NewHBox(clearBtn, exportBtn), widget.NewLabel("Session log"))
	bg := canvas.NewLinearGradient(color.NRGBA{12, 16, 24, 255}, color.NRGBA{20, 28, 40, 255}, 90)

	l.entry = widget.NewMultiLineEntry()
	l.entry.Disable()
	l.entry.Wrapping = fyne.TextWrapWord
	l.scroll = container.NewVScroll(l.entry)
	l.scroll.SetMinSize(fyne.NewSize(800, 180))
	w.SetContent(container.NewBorder(top, nil, nil, nil, container.NewStack(bg, l.scroll)))
	w.Resize(fyne.NewSize(1000, 600))
	l.win = w
}

func (l *logView) export() {
	exe, _ := os.Executable()
	path, err := tel.WriteJSON(filepath.Join(filepath.Dir(exe), "log_data"))
	if err != nil {
		l.a.SendNotification(fyne.NewNotification("Save error", err.Error()))
		return
	}
	l.Append("telemetry saved to " + path)
	l.a.SendNotification(fyne.NewNotification("Saved", path))
}
