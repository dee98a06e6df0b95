package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ligun0805/accesslist-debug/internal/wallet"
)

func readLine(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	t, err := r.ReadString('\n')
	if err != nil && t == "" {
		return "", err
	}
	return strings.TrimSpace(t), nil
}

// secretPrompt reads hidden input on a terminal and a plain line otherwise,
// so piped stdin still works.
func secretPrompt(r *bufio.Reader) wallet.PromptFunc {
	return func(label string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return readLine(r, label+": ")
		}
		fmt.Print(label + ": ")
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return strings.TrimSpace(string(b)), nil
	}
}

func yes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes" || s == "on" || s == "true" || s == "1"
}

// die prints an error and waits for Enter before exiting.
// This prevents instant console close on Windows double-click runs.
func die(message string) {
	fmt.Fprintln(os.Stderr, "Error:", message)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Press Enter to close...")
		_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')
	}
	os.Exit(1)
}
